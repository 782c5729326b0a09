// Package classify assigns each window snapshot exactly one semantic
// state. States are not naturally disjoint, so classification runs an
// explicit ordered rule list: first match wins.
package classify

import "github.com/dazzletools/wingather/internal/domain"

// rule pairs a classification with its predicate. Rules are evaluated
// in declaration order against the window and the monitor set.
type rule struct {
	state domain.Classification
	match func(w domain.WindowRecord, monitors []domain.Rect) bool
}

// Priority order: hidden dominates cloaked dominates minimized dominates
// maximized; positional states come last. A window failing every rule
// is normal.
var rules = []rule{
	{domain.StateHidden, func(w domain.WindowRecord, _ []domain.Rect) bool {
		return !w.Style.Has(domain.StyleVisible)
	}},
	{domain.StateCloaked, func(w domain.WindowRecord, _ []domain.Rect) bool {
		return w.Cloak != domain.CloakNone
	}},
	{domain.StateMinimized, func(w domain.WindowRecord, _ []domain.Rect) bool {
		return w.Style.Has(domain.StyleMinimized)
	}},
	{domain.StateMaximized, func(w domain.WindowRecord, _ []domain.Rect) bool {
		return w.Style.Has(domain.StyleMaximized)
	}},
	{domain.StateOffScreen, func(w domain.WindowRecord, monitors []domain.Rect) bool {
		return OffScreen(w.Bounds, monitors)
	}},
	{domain.StatePartOffScreen, func(w domain.WindowRecord, monitors []domain.Rect) bool {
		return MostlyOffScreen(w.Bounds, monitors)
	}},
}

// Classify returns the single state for a window given the bounds of
// every attached monitor.
func Classify(w domain.WindowRecord, monitors []domain.Rect) domain.Classification {
	for _, r := range rules {
		if r.match(w, monitors) {
			return r.state
		}
	}
	return domain.StateNormal
}

// OffScreen reports whether the rectangle has zero intersection with
// every monitor. Degenerate rectangles count as off-screen.
func OffScreen(bounds domain.Rect, monitors []domain.Rect) bool {
	if bounds.Empty() {
		return true
	}
	for _, m := range monitors {
		if bounds.Intersects(m) {
			return false
		}
	}
	return true
}

// MostlyOffScreen reports whether the rectangle intersects a monitor
// but the majority of its area lies outside all monitor bounds.
// Monitors do not overlap, so the per-monitor intersections sum to
// the total visible area.
func MostlyOffScreen(bounds domain.Rect, monitors []domain.Rect) bool {
	if bounds.Empty() || OffScreen(bounds, monitors) {
		return false
	}
	visible := 0
	for _, m := range monitors {
		visible += bounds.Intersect(m).Area()
	}
	return visible*2 < bounds.Area()
}
