// Package concern scores windows for suspicious characteristics.
// Each indicator carries a fixed weight; the total maps to a
// DEFCON-style level (1 = highest concern, 5 = informational).
package concern

import (
	"fmt"

	"github.com/dazzletools/wingather/internal/classify"
	"github.com/dazzletools/wingather/internal/domain"
)

// Minimum sane window footprint. Anything visible below this is either
// deliberately tiny or collapsed, and worth the user's attention.
const (
	MinSaneWidth  = 200
	MinSaneHeight = 100
)

// DialogClasses identifies the platform's standard dialog/popup window
// types. Transient by nature; one persisting unexpectedly is flagged.
var DialogClasses = map[string]bool{
	"#32770": true, // standard Windows dialog (MessageBox, ShellExecute errors)
}

// Weights is the published per-indicator weight table.
// Score -> Level: 5+ -> 1, 4 -> 2, 3 -> 3, 2 -> 4, 1 -> 5.
var Weights = map[domain.Indicator]int{
	domain.IndicatorTrustVerifyFailed: 5, // masquerading as a trusted process name
	domain.IndicatorOffScreen:         4, // completely invisible to the user
	domain.IndicatorShrunk:            3, // deliberately tiny, hiding in plain sight
	domain.IndicatorDialog:            2, // transient popup persisting unexpectedly
	domain.IndicatorPartOffScreen:     2, // pushed partly out of view
	domain.IndicatorCloaked:           1, // on another desktop or OS-managed
	domain.IndicatorShellCloaked:      1, // bonus: OS hid it, not user action
}

// LevelFor maps a raw score to its concern level. Zero score means the
// window is not flagged at all.
func LevelFor(score int) int {
	switch {
	case score <= 0:
		return 0
	case score >= 5:
		return 1
	case score >= 4:
		return 2
	case score >= 3:
		return 3
	case score >= 2:
		return 4
	default:
		return 5
	}
}

// LabelFor returns the user-facing label for a level.
func LabelFor(level int) string {
	switch level {
	case 1, 2:
		return "ALERT"
	case 3:
		return "CONCERN"
	case 4, 5:
		return "NOTE"
	default:
		return ""
	}
}

// Score sums the fixed weights of a finding set.
func Score(findings []domain.Finding) int {
	total := 0
	for _, f := range findings {
		total += Weights[f.Indicator]
	}
	return total
}

// Assess assembles the indicator set for one window and scores it.
// The verdict feeds in first: a verification-failed verdict injects the
// trust-verification-failed indicator before any positional checks, so
// a masquerade is always at least a level-1 ALERT.
func Assess(w domain.WindowRecord, state domain.Classification,
	verdict domain.TrustVerdict, monitors []domain.Rect) domain.ConcernAssessment {

	var findings []domain.Finding

	add := func(ind domain.Indicator, detail string) {
		for _, f := range findings {
			if f.Indicator == ind {
				return // indicators form a set
			}
		}
		findings = append(findings, domain.Finding{Indicator: ind, Detail: detail})
	}

	if verdict.Status == domain.TrustVerifyFailed {
		add(domain.IndicatorTrustVerifyFailed,
			fmt.Sprintf("trust-verify-failed(%s)", verdict.Failure))
	}

	// Positional indicators. Cloaked windows can also be positionally
	// off-screen even though the cloaked state wins classification.
	if state == domain.StateOffScreen {
		add(domain.IndicatorOffScreen, "off-screen")
	}
	if state == domain.StateCloaked && classify.OffScreen(w.Bounds, monitors) {
		add(domain.IndicatorOffScreen, "off-screen")
	}

	if state != domain.StateMinimized && state != domain.StateHidden {
		width, height := w.Bounds.Width, w.Bounds.Height
		if (width > 0 && width < MinSaneWidth) || (height > 0 && height < MinSaneHeight) {
			add(domain.IndicatorShrunk, fmt.Sprintf("shrunk(%dx%d)", width, height))
		}
	}

	if state == domain.StatePartOffScreen {
		add(domain.IndicatorPartOffScreen, "partially-off-screen")
	}
	if state == domain.StateCloaked &&
		classify.MostlyOffScreen(w.Bounds, monitors) {
		add(domain.IndicatorPartOffScreen, "partially-off-screen")
	}

	if DialogClasses[w.ClassName] {
		add(domain.IndicatorDialog, fmt.Sprintf("dialog(%s)", w.ClassName))
	}

	if w.Cloak != domain.CloakNone {
		add(domain.IndicatorCloaked, "cloaked")
		if w.Cloak.ShellOriginated() {
			add(domain.IndicatorShellCloaked, "shell-cloaked")
		}
	}

	score := Score(findings)
	level := LevelFor(score)
	return domain.ConcernAssessment{
		Findings: findings,
		Score:    score,
		Level:    level,
		Label:    LabelFor(level),
	}
}
