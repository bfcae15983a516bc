// Package screen resolves monitors and the mouse position against them.
package screen

import (
	"errors"
	"fmt"

	"github.com/1broseidon/tbsim/internal/geometry"
)

// ErrUnresolvableMonitor is returned when the mouse is not over any monitor.
var ErrUnresolvableMonitor = errors.New("no monitor under mouse location")

// Monitor is a read-only snapshot of one connected display.
type Monitor struct {
	ID           int
	Name         string
	Frame        geometry.Rect
	VisibleFrame geometry.Rect
}

// TopReservation is the thickness reserved at the top of the monitor by a
// menu bar or panel.
func (m Monitor) TopReservation() float64 {
	return m.Frame.MaxY() - m.VisibleFrame.MaxY()
}

// BottomReservation is the thickness reserved at the bottom of the monitor.
func (m Monitor) BottomReservation() float64 {
	return m.VisibleFrame.MinY() - m.Frame.MinY()
}

// Locator reports the live pointer position and monitor layout. Implementations
// must query the platform on every call.
type Locator interface {
	MouseLocation() (geometry.Point, error)
	Monitors() ([]Monitor, error)
}

// AllFrames returns every connected monitor.
func AllFrames(l Locator) ([]Monitor, error) {
	monitors, err := l.Monitors()
	if err != nil {
		return nil, fmt.Errorf("failed to query monitors: %w", err)
	}
	return monitors, nil
}

// AtMouseLocation returns the monitor whose frame, grown by one unit on each
// edge, contains the mouse.
func AtMouseLocation(l Locator) (Monitor, error) {
	p, err := l.MouseLocation()
	if err != nil {
		return Monitor{}, fmt.Errorf("failed to query mouse location: %w", err)
	}
	monitors, err := AllFrames(l)
	if err != nil {
		return Monitor{}, err
	}
	if m, ok := AtPoint(monitors, p); ok {
		return m, nil
	}
	return Monitor{}, ErrUnresolvableMonitor
}

// AtPoint finds the monitor under p among monitors.
func AtPoint(monitors []Monitor, p geometry.Point) (Monitor, bool) {
	for _, m := range monitors {
		if m.Frame.Grown(1).ContainsPoint(p) {
			return m, true
		}
	}
	return Monitor{}, false
}

// ForRect returns the monitor that holds the largest part of r. When r does
// not overlap any monitor the first one is returned.
func ForRect(monitors []Monitor, r geometry.Rect) (Monitor, bool) {
	if len(monitors) == 0 {
		return Monitor{}, false
	}
	best := monitors[0]
	bestArea := -1.0
	for _, m := range monitors {
		area := m.Frame.Intersection(r).Area()
		if area > bestArea {
			best = m
			bestArea = area
		}
	}
	return best, true
}

// Equal reports whether a and b describe the same display.
func Equal(a, b Monitor) bool {
	return a.ID == b.ID && a.Frame == b.Frame
}
