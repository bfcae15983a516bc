package main

import (
	"testing"

	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/ipc"
	"github.com/1broseidon/tbsim/internal/overlay"
)

func TestRectItems(t *testing.T) {
	rects := &ipc.RectsData{
		Docking:     "floating",
		Hiding:      "shown",
		Frame:       ipc.RectOf(geometry.NewRect(100, 100, 1014, 60)),
		Destination: ipc.RectOf(geometry.NewRect(213, 420, 1014, 60)),
		Content:     ipc.RectOf(geometry.NewRect(105, 115, 1004, 30)),
		Infinite:    true,
	}

	items := rectItems(rects)
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if !items[2].Rect.IsInfinite() {
		t.Fatalf("expected infinite detection, got %v", items[2].Rect)
	}
	if items[3].Label != "content" || items[3].Color != overlay.ColorContent {
		t.Fatalf("unexpected content item %+v", items[3])
	}
	if got := rectsTitle(rects); got != "floating, shown" {
		t.Fatalf("title = %q", got)
	}
}

func TestLegendBounds(t *testing.T) {
	builtIn := ipc.MonitorInfo{ID: 0, Frame: ipc.RectOf(geometry.NewRect(0, 0, 1440, 924))}
	side := ipc.MonitorInfo{ID: 1, Frame: ipc.RectOf(geometry.NewRect(1440, 0, 1920, 1080))}

	if got := legendBounds(&ipc.MonitorsData{}); got != (geometry.Rect{}) {
		t.Fatalf("expected empty bounds without monitors, got %v", got)
	}
	if got := legendBounds(&ipc.MonitorsData{Monitors: []ipc.MonitorInfo{builtIn, side}}); got != geometry.NewRect(0, 0, 1440, 924) {
		t.Fatalf("expected first monitor by default, got %v", got)
	}
	side.UnderMouse = true
	if got := legendBounds(&ipc.MonitorsData{Monitors: []ipc.MonitorInfo{builtIn, side}}); got != geometry.NewRect(1440, 0, 1920, 1080) {
		t.Fatalf("expected monitor under the mouse, got %v", got)
	}
}
