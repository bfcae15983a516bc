package dock

import "time"

// Target selects which monitor an effect places the window on.
type Target int

const (
	// TargetMouseMonitor is the monitor under the pointer.
	TargetMouseMonitor Target = iota
	// TargetCurrentMonitor is the monitor the window is on now.
	TargetCurrentMonitor
)

// AnimationKind names the animations a transition can start.
type AnimationKind int

const (
	AnimateMove AnimationKind = iota
	AnimateMoveFadeIn
	AnimateMoveFadeOut
	AnimateTeleport
)

func (k AnimationKind) String() string {
	switch k {
	case AnimateMoveFadeIn:
		return "move+fade-in"
	case AnimateMoveFadeOut:
		return "move+fade-out"
	case AnimateTeleport:
		return "teleport"
	default:
		return "move"
	}
}

// Effect is one side effect of a transition. Effects are applied in order.
type Effect interface {
	effect()
}

// SaveFloatingOrigin stores the window origin as the floating position.
type SaveFloatingOrigin struct{}

// SetChrome toggles the title bar and side bar.
type SetChrome struct {
	On bool
}

// Snap moves the window to the destination for Hiding without animating.
type Snap struct {
	Hiding Hiding
	Target Target
}

// Animate starts an animation towards the destination of the new state.
type Animate struct {
	Kind     AnimationKind
	Duration time.Duration
	Target   Target
}

// RenewDeadline resets the auto-hide deadline.
type RenewDeadline struct {
	Infinite bool
}

// PersistDocking saves the docking mode.
type PersistDocking struct {
	Docking Docking
}

// ClearResizePending marks a finished live resize as reconciled.
type ClearResizePending struct{}

func (SaveFloatingOrigin) effect() {}
func (SetChrome) effect()          {}
func (Snap) effect()               {}
func (Animate) effect()            {}
func (RenewDeadline) effect()      {}
func (PersistDocking) effect()     {}
func (ClearResizePending) effect() {}

// Timing holds animation durations.
type Timing struct {
	Move     time.Duration
	Teleport time.Duration
}

// DefaultTiming matches the stock animation speeds.
func DefaultTiming() Timing {
	return Timing{
		Move:     350 * time.Millisecond,
		Teleport: 450 * time.Millisecond,
	}
}

// PlanContext carries triggers that are not part of State.
type PlanContext struct {
	Timing Timing
	// MonitorChanged is set when the pointer is on a different monitor than
	// the shown docked window.
	MonitorChanged bool
	// ResizeEnded is set when a live resize finished and has not been
	// reconciled yet.
	ResizeEnded bool
}

// Plan returns the ordered effects for moving from old to next.
func Plan(old, next State, ctx PlanContext) []Effect {
	old = old.Normalize()
	next = next.Normalize()
	move := ctx.Timing.Move

	if old.Docking != next.Docking {
		switch {
		case next.Docking == Floating:
			return []Effect{
				SetChrome{On: true},
				Animate{Kind: AnimateMoveFadeIn, Duration: move, Target: TargetMouseMonitor},
				RenewDeadline{Infinite: true},
				PersistDocking{Docking: Floating},
			}
		case old.Docking == Floating:
			return []Effect{
				SaveFloatingOrigin{},
				SetChrome{On: false},
				Animate{Kind: AnimateMove, Duration: move, Target: TargetMouseMonitor},
				RenewDeadline{},
				PersistDocking{Docking: next.Docking},
			}
		default:
			// The window may be hidden on the old edge, so fade it back in.
			return []Effect{
				SetChrome{On: false},
				Animate{Kind: AnimateMoveFadeIn, Duration: move, Target: TargetMouseMonitor},
				RenewDeadline{},
				PersistDocking{Docking: next.Docking},
			}
		}
	}

	if old.Hiding != next.Hiding {
		if next.Hiding == Hidden {
			return []Effect{
				Animate{Kind: AnimateMoveFadeOut, Duration: move, Target: TargetCurrentMonitor},
			}
		}
		return []Effect{
			Snap{Hiding: Hidden, Target: TargetMouseMonitor},
			Animate{Kind: AnimateMoveFadeIn, Duration: move, Target: TargetMouseMonitor},
		}
	}

	if next.Docking.IsDocked() && next.Hiding == Shown && ctx.MonitorChanged {
		return []Effect{
			Animate{Kind: AnimateTeleport, Duration: ctx.Timing.Teleport, Target: TargetMouseMonitor},
		}
	}

	if ctx.ResizeEnded {
		return []Effect{
			Animate{Kind: AnimateMove, Duration: move, Target: TargetCurrentMonitor},
			ClearResizePending{},
		}
	}

	return nil
}
