package dock

import (
	"math"

	"github.com/1broseidon/tbsim/internal/animation"
	"github.com/1broseidon/tbsim/internal/geometry"
)

// moveAnimation slides the window from one frame to another. The terminal
// frame is set exactly.
func moveAnimation(h *shellHandle, from, to geometry.Rect) animation.Func {
	return func(progress, eased float64) {
		if progress >= 1 {
			h.SetFrame(to, false)
			return
		}
		h.SetFrame(from.Lerp(to, eased), false)
	}
}

// fadeAnimation interpolates the window alpha.
func fadeAnimation(h *shellHandle, from, to float64) animation.Func {
	return func(progress, eased float64) {
		if progress >= 1 {
			h.SetAlpha(to)
			return
		}
		h.SetAlpha(from + (to-from)*eased)
	}
}

// teleportAnimation slides the window out through its docked edge on the
// old monitor and back in on the new one, dimming through the midpoint.
func teleportAnimation(h *shellHandle, from, to geometry.Rect, alpha float64, docking Docking) animation.Func {
	direction := 1.0
	if docking == DockedToBottom {
		direction = -1
	}

	return func(progress, eased float64) {
		if progress >= 1 {
			h.SetAlpha(alpha)
			h.SetFrame(to, false)
			return
		}

		phase := math.Abs(2*eased - 1)
		base := from
		if progress > 0.5 {
			base = to
		}

		h.SetAlpha(alpha * phase)
		h.SetFrame(base.Offset(0, direction*base.Height()*(1-phase)), false)
	}
}
