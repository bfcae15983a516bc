package dock

import (
	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/screen"
)

// Placement is everything needed to place the window for one state.
type Placement struct {
	State State
	// Frame is the current window frame; only its size is used.
	Frame geometry.Rect
	// FloatingOrigin is the saved floating origin, if any.
	FloatingOrigin    geometry.Point
	HasFloatingOrigin bool
	// Target is the monitor the window is placed on.
	Target screen.Monitor
	// Monitors is every connected monitor, used to validate the floating
	// origin.
	Monitors []screen.Monitor
}

// Destination is where the window should sit for p.
func Destination(p Placement) geometry.Rect {
	confinement := p.Target.VisibleFrame
	r := p.Frame.SizeConfined(confinement)

	switch p.State.Docking {
	case DockedToTop:
		if p.State.Hiding == Hidden {
			x := r.Aligned(geometry.XCenter(), geometry.YRetained(), confinement)
			return x.Aligned(geometry.XRetained(), geometry.TopOut(-2), p.Target.Frame)
		}
		return r.Aligned(geometry.XCenter(), geometry.Top(0), confinement)

	case DockedToBottom:
		if p.State.Hiding == Hidden {
			x := r.Aligned(geometry.XCenter(), geometry.YRetained(), confinement)
			return x.Aligned(geometry.XRetained(), geometry.BottomOut(-2), p.Target.Frame)
		}
		return r.Aligned(geometry.XCenter(), geometry.Bottom(0), confinement)

	default:
		if p.HasFloatingOrigin {
			r.Origin = p.FloatingOrigin
			for _, m := range p.Monitors {
				if r.IsContained(m.VisibleFrame) {
					return r
				}
			}
		}
		return r.Aligned(geometry.XCenter(), geometry.YCenter(), confinement)
	}
}

// Detection is the region the mouse must be in to keep the window shown
// (or to reveal it when hidden).
func Detection(p Placement) geometry.Rect {
	frame := p.Target.Frame

	switch p.State.Docking {
	case DockedToTop:
		if p.State.Hiding == Hidden {
			shown := Destination(withHiding(p, Shown))
			return geometry.NewRect(shown.MinX(), frame.MaxY(), shown.Width(), 1)
		}
		// One unit past the top edge so a pointer pinned to the edge
		// does not flap between shown and hidden.
		return Destination(p).Expanded([]geometry.Expansion{geometry.ExpandTop(-1)}, frame)

	case DockedToBottom:
		if p.State.Hiding == Hidden {
			shown := Destination(withHiding(p, Shown))
			return geometry.NewRect(shown.MinX(), frame.MinY(), shown.Width(), 1)
		}
		return Destination(p).Expanded([]geometry.Expansion{geometry.ExpandBottom(0)}, frame)

	default:
		return geometry.Infinite()
	}
}

func withHiding(p Placement, h Hiding) Placement {
	p.State.Hiding = h
	return p
}
