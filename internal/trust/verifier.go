package trust

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dazzletools/wingather/internal/domain"
)

// Verifier runs the trust-verification chain for window-owning
// processes. Verdicts are cached per (name, path) for the run, so
// multiple windows sharing a process trigger at most one evaluation.
type Verifier struct {
	policy Policy
	sig    domain.SignatureVerifier
	logger *zap.Logger
	cache  map[string]domain.TrustVerdict
}

// NewVerifier creates a verifier over an immutable policy.
func NewVerifier(policy Policy, sig domain.SignatureVerifier, logger *zap.Logger) *Verifier {
	return &Verifier{
		policy: policy,
		sig:    sig,
		logger: logger,
		cache:  make(map[string]domain.TrustVerdict),
	}
}

// Verify evaluates one window's owning process. The chain
// short-circuits on the first definitive result:
//
//  1. user trust pattern: name-only trust
//  2. default trust pattern: path + vendor signature must both pass,
//     otherwise the process is masquerading -> verification-failed
//  3. dual-use exclusion list: never trusted, signed or not
//  4. vendor-signed auto-trust
//  5. untrusted
func (v *Verifier) Verify(ctx context.Context, w domain.WindowRecord) domain.TrustVerdict {
	if w.ResolveFailed {
		// The owning process exited before inspection. Without a
		// verified identity the window is never silently trusted.
		return domain.TrustVerdict{Status: domain.TrustUntrusted}
	}

	key := NormalizePath(w.ExePath) + "|" + NormalizePath(w.ProcessName)
	if verdict, ok := v.cache[key]; ok {
		return verdict
	}
	verdict := v.verify(ctx, w)
	v.cache[key] = verdict
	return verdict
}

func (v *Verifier) verify(ctx context.Context, w domain.WindowRecord) domain.TrustVerdict {
	for _, entry := range v.policy.Entries {
		if entry.Source != domain.TrustSourceUser || !Match(entry.Pattern, w.ProcessName) {
			continue
		}
		return domain.TrustVerdict{
			Status:  domain.TrustTrusted,
			Source:  domain.TrustSourceUser,
			Pattern: entry.Pattern,
		}
	}

	for _, entry := range v.policy.Entries {
		if entry.Source != domain.TrustSourceDefault || !Match(entry.Pattern, w.ProcessName) {
			continue
		}
		return v.verifyDefault(ctx, w, entry)
	}

	if v.policy.IsLOLBin(w.ProcessName) {
		return domain.TrustVerdict{Status: domain.TrustUntrusted}
	}

	if w.ExePath != "" {
		info, err := v.sig.Verify(ctx, w.ExePath)
		if err != nil {
			v.logger.Debug("signature check unavailable",
				zap.String("exe", w.ExePath),
				zap.Error(err))
		} else if info.Valid && info.OSVendor {
			return domain.TrustVerdict{
				Status:   domain.TrustTrusted,
				Source:   domain.TrustSourceVendorSigned,
				Verified: VerifyVendor,
			}
		}
	}

	return domain.TrustVerdict{Status: domain.TrustUntrusted}
}

// verifyDefault applies path and signature checks to a name match
// against the built-in list. Either failing means something is
// pretending to be a trusted system binary.
func (v *Verifier) verifyDefault(ctx context.Context, w domain.WindowRecord, entry Entry) domain.TrustVerdict {
	failed := func(failure string) domain.TrustVerdict {
		v.logger.Warn("trust verification failed",
			zap.String("process", w.ProcessName),
			zap.String("pattern", entry.Pattern),
			zap.String("failure", failure))
		return domain.TrustVerdict{
			Status:  domain.TrustVerifyFailed,
			Source:  domain.TrustSourceDefault,
			Pattern: entry.Pattern,
			Failure: failure,
		}
	}

	if len(entry.ExpectedPaths) > 0 && !MatchPath(w.ExePath, entry.ExpectedPaths) {
		actual := w.ExePath
		if actual == "" {
			actual = "unknown"
		}
		return failed(fmt.Sprintf("unexpected-path:%s", actual))
	}

	if entry.Verify == VerifyVendor {
		if w.ExePath == "" {
			return failed("signature-not-checked")
		}
		info, err := v.sig.Verify(ctx, w.ExePath)
		if err != nil {
			return failed("signature-not-checked")
		}
		if !info.Valid {
			return failed("invalid-signature")
		}
		if !info.OSVendor {
			return failed("not-os-binary")
		}
	}

	return domain.TrustVerdict{
		Status:   domain.TrustTrusted,
		Source:   domain.TrustSourceDefault,
		Pattern:  entry.Pattern,
		Verified: entry.Verify,
	}
}
