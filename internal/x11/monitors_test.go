package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestUpdateStrutsForMonitor_OnlyMatchingMonitor(t *testing.T) {
	left := Area{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := Area{X: 1920, Y: 0, Width: 2560, Height: 1440}
	rootWidth, rootHeight := 4480, 1440

	// A 30px top panel spanning only the left monitor.
	panel := &ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 1919}

	var lstruts, rstruts dockStruts
	updateStrutsForMonitor(left, rootHeight, rootWidth, panel, &lstruts)
	updateStrutsForMonitor(right, rootHeight, rootWidth, panel, &rstruts)

	if got := lstruts.apply(left); got != (Area{X: 0, Y: 30, Width: 1920, Height: 1050}) {
		t.Fatalf("unexpected usable area for left monitor: %+v", got)
	}
	if got := rstruts.apply(right); got != right {
		t.Fatalf("expected right monitor untouched, got %+v", got)
	}
}

func TestUpdateStrutsForMonitor_BottomDock(t *testing.T) {
	mon := Area{X: 0, Y: 0, Width: 1440, Height: 900}
	dock := &ewmh.WmStrutPartial{Bottom: 48, BottomStartX: 0, BottomEndX: 1439}

	var struts dockStruts
	updateStrutsForMonitor(mon, 900, 1440, dock, &struts)
	if struts.bottom != 48 || struts.top != 0 {
		t.Fatalf("expected bottom strut 48, got %+v", struts)
	}
}

func TestIntersect(t *testing.T) {
	a := Area{X: 0, Y: 0, Width: 100, Height: 100}
	if got, ok := intersect(a, Area{X: 50, Y: 60, Width: 100, Height: 100}); !ok || got != (Area{X: 50, Y: 60, Width: 50, Height: 40}) {
		t.Fatalf("unexpected intersection %+v (ok=%v)", got, ok)
	}
	if _, ok := intersect(a, Area{X: 100, Y: 0, Width: 10, Height: 10}); ok {
		t.Fatalf("expected touching areas not to intersect")
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Bounds: Area{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{ID: 1, Bounds: Area{X: 1920, Y: 0, Width: 1920, Height: 1080}},
	}
	if m, ok := MonitorAt(monitors, 1920, 10); !ok || m.ID != 1 {
		t.Fatalf("expected monitor 1, got %+v (ok=%v)", m, ok)
	}
	if _, ok := MonitorAt(monitors, 5000, 10); ok {
		t.Fatalf("expected no monitor outside the layout")
	}
}
