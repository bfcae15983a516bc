package overlay

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tbsim/internal/geometry"
)

func TestBorderBars(t *testing.T) {
	got := borderBars(Rect{X: 10, Y: 20, Width: 100, Height: 40}, 3)
	want := [4]Rect{
		{X: 10, Y: 20, Width: 100, Height: 3},
		{X: 10, Y: 57, Width: 100, Height: 3},
		{X: 10, Y: 23, Width: 3, Height: 34},
		{X: 107, Y: 23, Width: 3, Height: 34},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bars mismatch (-want +got):\n%s", diff)
	}
}

func TestLegend(t *testing.T) {
	lines := Legend("docked-to-top, hidden", []Item{
		{Label: "destination", Rect: geometry.NewRect(213, 899, 1014, 60), Color: ColorDestination},
		{Label: "detection", Rect: geometry.Infinite(), Color: ColorDetection},
		{Label: "custom", Rect: geometry.NewRect(0, 0, 1, 1), Color: 0xff0000},
	})
	if len(lines) != 4 || lines[0] != "docked-to-top, hidden" {
		t.Fatalf("unexpected legend %q", lines)
	}
	for i, want := range []string{"1014x60 at (213,899)", "everywhere", "#ff0000"} {
		if !strings.Contains(lines[i+1], want) {
			t.Fatalf("line %d = %q, want it to contain %q", i+1, lines[i+1], want)
		}
	}
	if !strings.HasPrefix(lines[1], "blue") || !strings.HasPrefix(lines[2], "green") {
		t.Fatalf("colors not named: %q", lines)
	}
}

func TestChooseHintPositionAvoidsOverlapWhenPossible(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, Width: 800, Height: 600}
	width, height := 220, 80

	// Occupy top-right so placement should choose another corner.
	avoid := []Rect{{X: 568, Y: 12, Width: 220, Height: 80}}
	got := chooseHintPosition(bounds, avoid, width, height)

	if rectsIntersect(got, avoid[0]) {
		t.Fatalf("hint overlaps avoid rect: got=%+v avoid=%+v", got, avoid[0])
	}
	if got.X != hintMargin || got.Y != hintMargin {
		t.Fatalf("expected top-left corner, got %+v", got)
	}
}

func TestChooseHintPositionFallsBackToTopRight(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, Width: 800, Height: 600}
	got := chooseHintPosition(bounds, []Rect{bounds}, 220, 80)
	if got.X != 800-hintMargin-220 || got.Y != hintMargin {
		t.Fatalf("expected top-right fallback, got %+v", got)
	}
}

func TestHintDimensionsHasMinimumWidth(t *testing.T) {
	w, h := hintDimensions([]string{"a"})
	if w != hintMinWidth {
		t.Fatalf("width = %d, want %d", w, hintMinWidth)
	}
	if h != hintLineHeight+2*hintPaddingY {
		t.Fatalf("height = %d", h)
	}
}
