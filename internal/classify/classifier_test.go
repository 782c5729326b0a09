package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dazzletools/wingather/internal/domain"
)

var monitors = []domain.Rect{
	{X: 0, Y: 0, Width: 1920, Height: 1080},
	{X: 1920, Y: 0, Width: 1920, Height: 1080},
}

func onScreen() domain.WindowRecord {
	return domain.WindowRecord{
		Style:            domain.StyleVisible,
		Bounds:           domain.Rect{X: 100, Y: 100, Width: 800, Height: 600},
		OnCurrentDesktop: true,
	}
}

// TestClassifyPriorityOrder verifies that dominant states win when a
// window satisfies several rules at once.
func TestClassifyPriorityOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.WindowRecord)
		want   domain.Classification
	}{
		{
			name:   "hidden dominates everything",
			mutate: func(w *domain.WindowRecord) { w.Style = domain.StyleMinimized; w.Cloak = domain.CloakShell },
			want:   domain.StateHidden,
		},
		{
			name:   "cloaked dominates minimized",
			mutate: func(w *domain.WindowRecord) { w.Style = domain.StyleVisible | domain.StyleMinimized; w.Cloak = domain.CloakApp },
			want:   domain.StateCloaked,
		},
		{
			name:   "minimized dominates maximized",
			mutate: func(w *domain.WindowRecord) { w.Style = domain.StyleVisible | domain.StyleMinimized | domain.StyleMaximized },
			want:   domain.StateMinimized,
		},
		{
			name:   "maximized dominates off-screen",
			mutate: func(w *domain.WindowRecord) { w.Style = domain.StyleVisible | domain.StyleMaximized; w.Bounds.X = -10000 },
			want:   domain.StateMaximized,
		},
		{
			name:   "off-screen when no monitor intersection",
			mutate: func(w *domain.WindowRecord) { w.Bounds = domain.Rect{X: -5000, Y: -5000, Width: 800, Height: 600} },
			want:   domain.StateOffScreen,
		},
		{
			name:   "partially off-screen when majority outside",
			mutate: func(w *domain.WindowRecord) { w.Bounds = domain.Rect{X: -600, Y: 100, Width: 800, Height: 600} },
			want:   domain.StatePartOffScreen,
		},
		{
			name:   "normal otherwise",
			mutate: func(w *domain.WindowRecord) {},
			want:   domain.StateNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := onScreen()
			tt.mutate(&w)
			assert.Equal(t, tt.want, Classify(w, monitors))
		})
	}
}

// TestClassifyExactlyOne verifies totality: every window gets exactly
// one state regardless of field combinations.
func TestClassifyExactlyOne(t *testing.T) {
	styles := []domain.StyleFlags{
		0, domain.StyleVisible,
		domain.StyleVisible | domain.StyleMinimized,
		domain.StyleVisible | domain.StyleMaximized,
		domain.StyleMinimized | domain.StyleMaximized,
	}
	cloaks := []domain.CloakType{domain.CloakNone, domain.CloakApp, domain.CloakShell}
	bounds := []domain.Rect{
		{X: 100, Y: 100, Width: 800, Height: 600},
		{X: -5000, Y: 0, Width: 100, Height: 100},
		{X: -600, Y: 100, Width: 800, Height: 600},
		{},
	}

	known := map[domain.Classification]bool{
		domain.StateNormal: true, domain.StateMinimized: true,
		domain.StateMaximized: true, domain.StateHidden: true,
		domain.StateOffScreen: true, domain.StatePartOffScreen: true,
		domain.StateCloaked: true,
	}

	for _, s := range styles {
		for _, c := range cloaks {
			for _, b := range bounds {
				w := domain.WindowRecord{Style: s, Cloak: c, Bounds: b}
				got := Classify(w, monitors)
				assert.True(t, known[got], "unknown state %q", got)
			}
		}
	}
}

func TestOffScreen(t *testing.T) {
	assert.True(t, OffScreen(domain.Rect{X: 4000, Y: 0, Width: 100, Height: 100}, monitors))
	assert.False(t, OffScreen(domain.Rect{X: 1900, Y: 0, Width: 100, Height: 100}, monitors))
	// Degenerate rects are never visible.
	assert.True(t, OffScreen(domain.Rect{X: 100, Y: 100}, monitors))
	// No monitors at all.
	assert.True(t, OffScreen(domain.Rect{X: 0, Y: 0, Width: 10, Height: 10}, nil))
}

func TestMostlyOffScreen(t *testing.T) {
	// 800x600 with 200px visible horizontally: 25% visible.
	assert.True(t, MostlyOffScreen(domain.Rect{X: -600, Y: 100, Width: 800, Height: 600}, monitors))
	// More than half visible.
	assert.False(t, MostlyOffScreen(domain.Rect{X: -100, Y: 100, Width: 800, Height: 600}, monitors))
	// Fully off-screen is not "partially".
	assert.False(t, MostlyOffScreen(domain.Rect{X: -5000, Y: 100, Width: 800, Height: 600}, monitors))
	// A window straddling two monitors is fully visible.
	assert.False(t, MostlyOffScreen(domain.Rect{X: 1520, Y: 100, Width: 800, Height: 600}, monitors))
}

// TestMostlyOffScreenStraddle verifies that visibility sums across
// monitors when a window straddles the seam while cut off at an edge.
func TestMostlyOffScreenStraddle(t *testing.T) {
	pair := []domain.Rect{
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 100, Y: 0, Width: 100, Height: 100},
	}
	// 24% visible on the left monitor, 36% on the right: 60% total.
	assert.False(t, MostlyOffScreen(domain.Rect{X: 60, Y: -40, Width: 100, Height: 100}, pair))
	// Pushed further off the top edge: 30% total across both monitors.
	assert.True(t, MostlyOffScreen(domain.Rect{X: 60, Y: -70, Width: 100, Height: 100}, pair))
}
