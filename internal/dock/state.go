// Package dock implements the docking and auto-hide behaviour of the Touch Bar
// window: where it sits for a given mode and monitor, and how it moves
// between those placements.
package dock

import (
	"fmt"
	"strings"
)

// Docking is the placement regime of the window.
type Docking string

const (
	Floating       Docking = "floating"
	DockedToTop    Docking = "docked-to-top"
	DockedToBottom Docking = "docked-to-bottom"
)

// ParseDocking accepts the persisted names plus the short CLI aliases.
func ParseDocking(s string) (Docking, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Floating), "float", "undock":
		return Floating, nil
	case string(DockedToTop), "top":
		return DockedToTop, nil
	case string(DockedToBottom), "bottom":
		return DockedToBottom, nil
	default:
		return "", fmt.Errorf("unknown docking mode %q", s)
	}
}

// IsDocked reports whether d pins the window to a screen edge.
func (d Docking) IsDocked() bool {
	return d == DockedToTop || d == DockedToBottom
}

// Next cycles floating, top, bottom.
func (d Docking) Next() Docking {
	switch d {
	case Floating:
		return DockedToTop
	case DockedToTop:
		return DockedToBottom
	default:
		return Floating
	}
}

// Hiding is the transient auto-hide state.
type Hiding int

const (
	Shown Hiding = iota
	Hidden
)

func (h Hiding) String() string {
	if h == Hidden {
		return "hidden"
	}
	return "shown"
}

// State is the full docking state of the window.
type State struct {
	Docking Docking
	Hiding  Hiding
}

// Normalize forces Floating windows to be Shown and unknown modes to
// Floating.
func (s State) Normalize() State {
	if !s.Docking.IsDocked() {
		return State{Docking: Floating, Hiding: Shown}
	}
	return s
}

func (s State) String() string {
	return fmt.Sprintf("%s/%s", s.Docking, s.Hiding)
}
