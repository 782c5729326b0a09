// Package trust evaluates window-owning processes against trust policy.
// Policy is loaded once per run and immutable for its duration, keeping
// verification a pure function of (record, policy).
package trust

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/dazzletools/wingather/internal/domain"
)

//go:embed default_trust.json
var defaultTrustData []byte

//go:embed lolbins.json
var lolbinData []byte

// VerifyVendor marks a default entry as requiring path and OS-vendor
// signature validation before trust is granted.
const VerifyVendor = "vendor"

// Entry is one trust-list rule. Default entries ship with expected
// install locations and a verification requirement; user entries are
// name-only (the user accepts the risk).
type Entry struct {
	Pattern       string   `json:"pattern"`
	Verify        string   `json:"verify,omitempty"`
	ExpectedPaths []string `json:"expected_paths,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	Source        string   `json:"-"` // default or user
}

// Policy is the immutable trust configuration for one run: merged
// trust entries plus the dual-use (LOLBin) exclusion list.
type Policy struct {
	Entries []Entry
	LOLBins []string
}

type trustFile struct {
	Processes []Entry `json:"processes"`
}

type lolbinFile struct {
	Patterns []string `json:"patterns"`
}

// NewPolicy builds the run's policy. User patterns are merged in as
// name-only trust; noDefault drops the built-in verified entries but
// keeps the LOLBin exclusions, which gate auto-trust, not flagging.
func NewPolicy(userPatterns []string, noDefault bool) (Policy, error) {
	var p Policy

	if !noDefault {
		var tf trustFile
		if err := json.Unmarshal(defaultTrustData, &tf); err != nil {
			return Policy{}, fmt.Errorf("parse default trust list: %w", err)
		}
		for _, e := range tf.Processes {
			e.Source = domain.TrustSourceDefault
			p.Entries = append(p.Entries, e)
		}
	}

	for _, pattern := range userPatterns {
		p.Entries = append(p.Entries, Entry{
			Pattern: pattern,
			Source:  domain.TrustSourceUser,
		})
	}

	var lf lolbinFile
	if err := json.Unmarshal(lolbinData, &lf); err != nil {
		return Policy{}, fmt.Errorf("parse lolbin list: %w", err)
	}
	p.LOLBins = lf.Patterns

	return p, nil
}

// IsLOLBin reports whether a process name is on the dual-use exclusion
// list. Such binaries are never auto-trusted, signed or not.
func (p Policy) IsLOLBin(processName string) bool {
	return MatchAny(p.LOLBins, processName)
}
