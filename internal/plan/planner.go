// Package plan decides the corrective action for each window from its
// classification, concern assessment, trust verdict, and the run's
// option set.
package plan

import (
	"sort"

	"github.com/dazzletools/wingather/internal/concern"
	"github.com/dazzletools/wingather/internal/domain"
)

// Default size for restoring windows collapsed below the sane minimum.
const (
	DefaultRestoreWidth  = 800
	DefaultRestoreHeight = 600
)

// Skip reasons recorded on plans.
const (
	SkipNormal       = "normal"
	SkipHidden       = "hidden"
	SkipHiddenNormal = "hidden-normal"
	SkipCloaked      = "cloaked"
)

// Build assigns a plan to every result and returns them in processing
// order: non-suspicious windows first, then suspicious windows from
// lowest to highest concern so the most concerning one is handled last
// and ends up centered on top of the z-order.
func Build(results []*domain.Result, work domain.Rect, opts domain.Options) []*domain.Result {
	var normal, suspicious []*domain.Result
	for _, r := range results {
		if r.Suspicious() {
			suspicious = append(suspicious, r)
		} else {
			normal = append(normal, r)
		}
	}

	// Level 5 (informational) first, level 1 (highest concern) last.
	sort.SliceStable(suspicious, func(i, j int) bool {
		return suspicious[i].Assessment.Level > suspicious[j].Assessment.Level
	})

	// Offsets are indexed center-out; reverse so the first-processed
	// window takes the outermost slot and the last takes dead center.
	offsets := CascadeOffsets(len(suspicious))
	for i, j := 0, len(offsets)-1; i < j; i, j = i+1, j-1 {
		offsets[i], offsets[j] = offsets[j], offsets[i]
	}

	for _, r := range normal {
		r.Plan = planFor(r, work, opts, Offset{})
	}
	for i, r := range suspicious {
		r.Plan = planFor(r, work, opts, offsets[i])
	}

	ordered := make([]*domain.Result, 0, len(results))
	ordered = append(ordered, normal...)
	ordered = append(ordered, suspicious...)
	return ordered
}

func planFor(r *domain.Result, work domain.Rect, opts domain.Options, off Offset) domain.ActionPlan {
	suspicious := r.Suspicious()
	p := domain.ActionPlan{ZOrder: zOrderFor(r), Raise: suspicious}

	switch r.State {
	case domain.StateHidden:
		switch {
		case !opts.ShowHidden:
			p.SkipReason = SkipHidden
			return p
		case !suspicious && !opts.ActOnAll():
			p.SkipReason = SkipHiddenNormal
			return p
		}
		p.Steps = []domain.StepKind{domain.StepShow, domain.StepCenter}

	case domain.StateCloaked:
		if !r.Window.OnCurrentDesktop {
			// The platform cannot reposition across desktops without
			// switching, so these are skipped unless pulling is allowed.
			if !opts.IncludeVirtual {
				p.SkipReason = SkipCloaked
				return p
			}
			p.Steps = []domain.StepKind{domain.StepPull, domain.StepCenter}
			break
		}
		if !suspicious && !opts.ActOnAll() {
			p.SkipReason = SkipNormal
			return p
		}
		p.Steps = []domain.StepKind{domain.StepCenter}

	case domain.StateMinimized, domain.StateMaximized:
		p.Steps = []domain.StepKind{domain.StepRestore, domain.StepCenter}

	case domain.StateOffScreen:
		p.Steps = []domain.StepKind{domain.StepCenter}

	default: // normal, partially-off-screen
		if !suspicious && !opts.ActOnAll() {
			p.SkipReason = SkipNormal
			return p
		}
		p.Steps = []domain.StepKind{domain.StepCenter}
	}

	target := CenteredTarget(r.Window.Bounds, work, off)
	p.Target = &target
	return p
}

func zOrderFor(r *domain.Result) domain.ZOrder {
	if !r.Suspicious() {
		return domain.ZNone
	}
	if r.Assessment.Level <= 3 {
		return domain.ZTopmost
	}
	return domain.ZRaiseOnce
}

// CenteredTarget computes where a window should land: centered within
// the work area, displaced by the cascade offset, clamped inside the
// area. Windows collapsed below the sane minimum are given the default
// restore size so they are actually visible after the move.
func CenteredTarget(bounds domain.Rect, work domain.Rect, off Offset) domain.Rect {
	w := bounds.Width
	if w < concern.MinSaneWidth {
		w = DefaultRestoreWidth
	}
	h := bounds.Height
	if h < concern.MinSaneHeight {
		h = DefaultRestoreHeight
	}
	w = min(w, work.Width)
	h = min(h, work.Height)

	x := work.X + (work.Width-w)/2 + off.X
	y := work.Y + (work.Height-h)/2 + off.Y
	x = max(work.X, min(x, work.X+work.Width-w))
	y = max(work.Y, min(y, work.Y+work.Height-h))

	return domain.Rect{X: x, Y: y, Width: w, Height: h}
}
