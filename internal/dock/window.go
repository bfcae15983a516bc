package dock

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/tbsim/internal/animation"
	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/screen"
)

// Settings is the persisted state the window reads and writes. Reads never
// fail; implementations fall back to defaults.
type Settings interface {
	Docking() Docking
	SetDocking(d Docking)
	// LastFloatingOrigin reports false when no origin was ever saved.
	LastFloatingOrigin() (geometry.Point, bool)
	SetLastFloatingOrigin(p geometry.Point)
	LastFrame() geometry.Rect
	SetLastFrame(r geometry.Rect)
	DetectionTimeout() time.Duration
	SetDetectionTimeout(d time.Duration)
}

// Options configures a Window.
type Options struct {
	Clock         animation.Clock
	Scheduler     animation.Scheduler
	FrameInterval time.Duration
	Timing        Timing
	// SideBarWidth is the width of the side bar shown with the title bar.
	// Zero keeps the frame unchanged when chrome toggles.
	SideBarWidth float64
	Logger       *slog.Logger
}

// Status is a snapshot of the window for queries.
type Status struct {
	Docking   Docking
	Hiding    Hiding
	Frame     geometry.Rect
	Alpha     float64
	Monitor   string
	Chrome    bool
	Animating bool
	Closed    bool
	Deadline  time.Time
}

// Window owns the docking state and drives the shell. All methods must be
// called from the main loop.
type Window struct {
	shell    *shellHandle
	locator  screen.Locator
	settings Settings
	engine   *animation.Engine
	clock    animation.Clock
	timing   Timing
	sideBar  float64
	logger   *slog.Logger

	state           State
	deadline        Deadline
	chrome          bool
	closed          bool
	resizePending   bool
	pendingRelayout bool

	monitor    screen.Monitor
	hasMonitor bool
}

// NewWindow creates a floating, shown window. Call Setup to restore the
// persisted placement.
func NewWindow(shell Shell, locator screen.Locator, settings Settings, opts Options) *Window {
	if opts.Clock == nil {
		opts.Clock = animation.SystemClock{}
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Window{
		shell:    &shellHandle{shell: shell},
		locator:  locator,
		settings: settings,
		engine:   animation.NewEngine(opts.Clock, opts.Scheduler, opts.FrameInterval),
		clock:    opts.Clock,
		timing:   opts.Timing,
		sideBar:  opts.SideBarWidth,
		logger:   opts.Logger,
		state:    State{Docking: Floating, Hiding: Shown},
		deadline: InfiniteDeadline(),
		chrome:   true,
	}
}

// Setup restores the last frame and docking mode and places the window.
func (w *Window) Setup() {
	w.closed = false
	w.state = State{Docking: w.settings.Docking(), Hiding: Shown}.Normalize()
	w.chrome = w.state.Docking == Floating

	w.shell.SetChrome(w.chrome)
	if last := w.settings.LastFrame(); last.Area() > 0 {
		w.shell.SetFrame(last, false)
	}
	w.shell.SetAlpha(1)

	m, err := w.resolve(TargetMouseMonitor)
	if err != nil {
		w.logger.Warn("deferring initial placement", "error", err)
		w.pendingRelayout = true
	} else {
		w.monitor, w.hasMonitor = m, true
		w.shell.SetFrame(w.destination(w.state, m), false)
	}

	if w.state.Docking == Floating {
		w.deadline = InfiniteDeadline()
	} else {
		w.renewDeadline()
	}
	w.logger.Info("window set up", "state", w.state.String(), "frame", w.shell.Frame().String())
}

// FinishUp saves the floating origin and last frame.
func (w *Window) FinishUp() {
	if !w.shell.attached() {
		return
	}
	frame := w.shell.Frame()
	if w.state.Docking == Floating {
		w.settings.SetLastFloatingOrigin(frame.Origin)
	}
	w.settings.SetLastFrame(frame)
}

// Detach finishes any animation, saves state and disconnects the shell.
func (w *Window) Detach() {
	w.engine.Stop(true)
	w.FinishUp()
	w.shell.detach()
}

func (w *Window) State() State       { return w.state }
func (w *Window) Docking() Docking   { return w.state.Docking }
func (w *Window) Hiding() Hiding     { return w.state.Hiding }
func (w *Window) Deadline() Deadline { return w.deadline }

// Animating reports whether an animation job is running.
func (w *Window) Animating() bool { return w.engine.Running() }

// IsClosed reports whether the window was closed and not shown since.
func (w *Window) IsClosed() bool {
	if w.closed && w.shell.IsVisible() {
		w.closed = false
	}
	return w.closed
}

func (w *Window) DockTop()    { w.SetDocking(DockedToTop) }
func (w *Window) DockBottom() { w.SetDocking(DockedToBottom) }
func (w *Window) Undock()     { w.SetDocking(Floating) }

// Toggle cycles floating, top, bottom.
func (w *Window) Toggle() { w.SetDocking(w.state.Docking.Next()) }

// SetDocking changes the docking mode. The window is always shown after.
func (w *Window) SetDocking(d Docking) {
	w.transition(State{Docking: d, Hiding: Shown}, PlanContext{})
}

// SetHiding shows or hides a docked window. Floating windows stay shown.
func (w *Window) SetHiding(h Hiding) {
	w.transition(State{Docking: w.state.Docking, Hiding: h}, PlanContext{})
}

// Teleport moves a shown docked window to the monitor under the mouse.
func (w *Window) Teleport() {
	w.transition(w.state, PlanContext{MonitorChanged: true})
}

// ReconcileResize re-places the window after a live resize ended.
func (w *Window) ReconcileResize() {
	w.transition(w.state, PlanContext{ResizeEnded: true})
}

// Close finishes animations, saves state and closes the shell.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.HandleWillClose()
	w.shell.Close()
}

// Open shows a closed window again at its destination.
func (w *Window) Open() {
	if !w.closed {
		return
	}
	w.closed = false
	w.shell.Show()
	w.Setup()
}

// HandleWillClose is called by the shell before it closes.
func (w *Window) HandleWillClose() {
	w.engine.Stop(true)
	w.FinishUp()
	w.closed = true
	w.logger.Info("window closed")
}

// HandleResize is called by the shell whenever its frame size changes.
func (w *Window) HandleResize() {
	if w.shell.InLiveResize() && w.state.Docking.IsDocked() {
		w.resizePending = true
	}
}

// ResizeEnded reports a finished live resize that was not reconciled yet.
func (w *Window) ResizeEnded() bool {
	return w.resizePending && !w.shell.InLiveResize()
}

// RenewDeadline pushes the auto-hide deadline out by the detection timeout.
func (w *Window) RenewDeadline() {
	if w.state.Docking == Floating {
		w.deadline = InfiniteDeadline()
		return
	}
	w.renewDeadline()
}

// DeadlinePassed reports whether the auto-hide deadline has elapsed.
func (w *Window) DeadlinePassed() bool {
	return w.deadline.Passed(w.clock.Now())
}

// PendingRelayout reports whether a placement was deferred because no
// monitor could be resolved.
func (w *Window) PendingRelayout() bool { return w.pendingRelayout }

// Relayout retries a deferred placement.
func (w *Window) Relayout() {
	if !w.pendingRelayout {
		return
	}
	m, err := w.resolve(TargetMouseMonitor)
	if err != nil {
		w.logger.Debug("relayout still deferred", "error", err)
		return
	}
	w.pendingRelayout = false
	w.monitor, w.hasMonitor = m, true

	// The deferred transition may have been a fade, so bring alpha to
	// where the state says it should be.
	kind := AnimateMoveFadeIn
	if w.state.Hiding == Hidden {
		kind = AnimateMoveFadeOut
	}
	w.startAnimation(Animate{Kind: kind, Duration: w.timing.Move}, m)
}

// Detection returns the detection rectangle for the current state on the
// window's current monitor.
func (w *Window) Detection() (geometry.Rect, error) {
	if w.state.Docking == Floating {
		return geometry.Infinite(), nil
	}
	m, err := w.resolve(TargetCurrentMonitor)
	if err != nil {
		return geometry.Rect{}, err
	}
	return Detection(w.placement(w.state, m)), nil
}

// DetectionRects returns the detection rectangle for the current state on
// every monitor. The mouse is detected when any of them contains it.
func (w *Window) DetectionRects() ([]geometry.Rect, error) {
	if w.state.Docking == Floating {
		return []geometry.Rect{geometry.Infinite()}, nil
	}
	monitors, err := screen.AllFrames(w.locator)
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors connected: %w", screen.ErrUnresolvableMonitor)
	}
	rects := make([]geometry.Rect, 0, len(monitors))
	for _, m := range monitors {
		rects = append(rects, Detection(w.placementOn(w.state, m, monitors)))
	}
	return rects, nil
}

// Destination returns the destination rectangle for the current state on the
// window's current monitor.
func (w *Window) Destination() (geometry.Rect, error) {
	m, err := w.resolve(TargetCurrentMonitor)
	if err != nil {
		return geometry.Rect{}, err
	}
	return w.destination(w.state, m), nil
}

// MonitorChanged reports whether the monitor under the mouse differs from
// the window's current monitor.
func (w *Window) MonitorChanged() (bool, error) {
	current, err := w.resolve(TargetCurrentMonitor)
	if err != nil {
		return false, err
	}
	mouse, err := w.resolve(TargetMouseMonitor)
	if err != nil {
		return false, err
	}
	return !screen.Equal(current, mouse), nil
}

// Status returns a snapshot for display.
func (w *Window) Status() Status {
	st := Status{
		Docking:   w.state.Docking,
		Hiding:    w.state.Hiding,
		Frame:     w.shell.Frame(),
		Alpha:     w.shell.Alpha(),
		Chrome:    w.chrome,
		Animating: w.engine.Running(),
		Closed:    w.IsClosed(),
		Deadline:  w.deadline.Time(),
	}
	if w.hasMonitor {
		st.Monitor = w.monitor.Name
	}
	return st
}

func (w *Window) transition(next State, ctx PlanContext) {
	old := w.state
	next = next.Normalize()
	ctx.Timing = w.timing

	effects := Plan(old, next, ctx)
	w.state = next
	if len(effects) == 0 {
		return
	}
	w.logger.Debug("transition", "from", old.String(), "to", next.String(), "effects", len(effects))
	w.apply(effects)
}

func (w *Window) apply(effects []Effect) {
	for _, eff := range effects {
		switch e := eff.(type) {
		case SaveFloatingOrigin:
			w.settings.SetLastFloatingOrigin(w.shell.Frame().Origin)
		case SetChrome:
			w.setChrome(e.On)
		case Snap:
			m, err := w.resolve(e.Target)
			if err != nil {
				w.deferPlacement(err)
				continue
			}
			w.engine.Stop(false)
			w.shell.SetFrame(w.destination(State{Docking: w.state.Docking, Hiding: e.Hiding}, m), false)
		case Animate:
			m, err := w.resolve(e.Target)
			if err != nil {
				w.deferPlacement(err)
				continue
			}
			w.monitor, w.hasMonitor = m, true
			w.startAnimation(e, m)
		case RenewDeadline:
			if e.Infinite {
				w.deadline = InfiniteDeadline()
			} else {
				w.renewDeadline()
			}
		case PersistDocking:
			w.settings.SetDocking(e.Docking)
		case ClearResizePending:
			w.resizePending = false
		}
	}
}

func (w *Window) deferPlacement(err error) {
	w.pendingRelayout = true
	w.logger.Debug("placement deferred", "error", err)
}

func (w *Window) startAnimation(e Animate, m screen.Monitor) {
	from := w.shell.Frame()
	to := w.destination(w.state, m)
	alpha := w.shell.Alpha()

	var fn animation.Func
	switch e.Kind {
	case AnimateMoveFadeIn:
		fn = animation.Compose(moveAnimation(w.shell, from, to), fadeAnimation(w.shell, alpha, 1))
	case AnimateMoveFadeOut:
		fn = animation.Compose(moveAnimation(w.shell, from, to), fadeAnimation(w.shell, alpha, 0))
	case AnimateTeleport:
		fn = teleportAnimation(w.shell, from, to, 1, w.state.Docking)
	default:
		fn = moveAnimation(w.shell, from, to)
	}

	w.logger.Debug("animate", "kind", e.Kind.String(), "from", from.String(), "to", to.String(), "duration", e.Duration)
	w.engine.Start(e.Duration, fn)
}

func (w *Window) setChrome(on bool) {
	if w.chrome == on {
		return
	}
	w.chrome = on
	w.shell.SetChrome(on)
	if w.sideBar <= 0 {
		return
	}

	// Keep the content where it was while the side bar appears or goes.
	f := w.shell.Frame()
	if on {
		f = geometry.NewRect(f.MinX()-w.sideBar, f.MinY(), f.Width()+w.sideBar, f.Height())
	} else {
		f = geometry.NewRect(f.MinX()+w.sideBar, f.MinY(), f.Width()-w.sideBar, f.Height())
	}
	w.shell.SetFrame(f, false)
}

func (w *Window) renewDeadline() {
	w.deadline = DeadlineAt(w.clock.Now().Add(w.settings.DetectionTimeout()))
}

func (w *Window) destination(s State, m screen.Monitor) geometry.Rect {
	return Destination(w.placement(s, m))
}

func (w *Window) placement(s State, m screen.Monitor) Placement {
	monitors, err := screen.AllFrames(w.locator)
	if err != nil {
		monitors = []screen.Monitor{m}
	}
	return w.placementOn(s, m, monitors)
}

func (w *Window) placementOn(s State, m screen.Monitor, monitors []screen.Monitor) Placement {
	origin, ok := w.settings.LastFloatingOrigin()
	return Placement{
		State:             s,
		Frame:             w.shell.Frame(),
		FloatingOrigin:    origin,
		HasFloatingOrigin: ok,
		Target:            m,
		Monitors:          monitors,
	}
}

func (w *Window) resolve(t Target) (screen.Monitor, error) {
	if t == TargetMouseMonitor {
		return screen.AtMouseLocation(w.locator)
	}

	monitors, err := screen.AllFrames(w.locator)
	if err != nil {
		return screen.Monitor{}, err
	}
	if w.hasMonitor {
		for _, m := range monitors {
			if m.ID == w.monitor.ID {
				return m, nil
			}
		}
	}
	m, ok := screen.ForRect(monitors, w.shell.Frame())
	if !ok {
		return screen.Monitor{}, fmt.Errorf("no monitors connected: %w", screen.ErrUnresolvableMonitor)
	}
	return m, nil
}

// IsUnresolvable reports whether err came from a missing monitor.
func IsUnresolvable(err error) bool {
	return errors.Is(err, screen.ErrUnresolvableMonitor)
}
