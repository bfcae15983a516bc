package dock

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/screen"
	"github.com/1broseidon/tbsim/internal/testutil"
)

type fakeSettings struct {
	docking   Docking
	origin    geometry.Point
	hasOrigin bool
	frame     geometry.Rect
	timeout   time.Duration
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{
		docking: Floating,
		frame:   geometry.NewRect(0, 0, 1014, 60),
		timeout: 1500 * time.Millisecond,
	}
}

func (s *fakeSettings) Docking() Docking     { return s.docking }
func (s *fakeSettings) SetDocking(d Docking) { s.docking = d }
func (s *fakeSettings) LastFloatingOrigin() (geometry.Point, bool) {
	return s.origin, s.hasOrigin
}
func (s *fakeSettings) SetLastFloatingOrigin(p geometry.Point) { s.origin, s.hasOrigin = p, true }
func (s *fakeSettings) LastFrame() geometry.Rect               { return s.frame }
func (s *fakeSettings) SetLastFrame(r geometry.Rect)           { s.frame = r }
func (s *fakeSettings) DetectionTimeout() time.Duration        { return s.timeout }
func (s *fakeSettings) SetDetectionTimeout(d time.Duration)    { s.timeout = d }

type harness struct {
	w        *Window
	shell    *testutil.Shell
	locator  *testutil.Locator
	settings *fakeSettings
	clock    *testutil.Clock
	sched    *testutil.Scheduler
}

func newHarness(t *testing.T, frame geometry.Rect, sideBar float64) *harness {
	t.Helper()
	h := &harness{
		shell: testutil.NewShell(frame),
		locator: &testutil.Locator{
			Mouse:      geometry.Point{X: 700, Y: 450},
			MonitorSet: []screen.Monitor{testutil.MacBookMonitor(), testutil.SideMonitor()},
		},
		settings: newFakeSettings(),
		clock:    testutil.NewClock(),
		sched:    testutil.NewScheduler(),
	}
	h.w = NewWindow(h.shell, h.locator, h.settings, Options{
		Clock:        h.clock,
		Scheduler:    h.sched,
		SideBarWidth: sideBar,
	})
	return h
}

// settle runs animation frames until the engine goes idle.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 100 && h.w.Animating(); i++ {
		h.sched.Step(h.clock, 50*time.Millisecond)
	}
	if h.w.Animating() {
		t.Fatalf("animation did not finish")
	}
}

func assertInvariant(t *testing.T, w *Window) {
	t.Helper()
	if w.Docking() == Floating && w.Hiding() != Shown {
		t.Fatalf("floating window observed as %v", w.Hiding())
	}
}

func TestWindow_DockToTopScenario(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)

	h.w.DockTop()
	assertInvariant(t, h.w)
	if !h.w.Animating() {
		t.Fatalf("expected a move animation to start")
	}
	h.settle(t)

	want := geometry.NewRect(213, 840, 1014, 60)
	if diff := cmp.Diff(want, h.shell.Frame()); diff != "" {
		t.Fatalf("frame mismatch (-want +got):\n%s", diff)
	}
	if h.shell.Chrome {
		t.Fatalf("expected chrome off when docked")
	}
	if h.settings.docking != DockedToTop {
		t.Fatalf("expected docking to be persisted, got %q", h.settings.docking)
	}
	if !h.settings.hasOrigin || h.settings.origin != (geometry.Point{X: 100, Y: 100}) {
		t.Fatalf("expected floating origin (100,100) saved, got %v", h.settings.origin)
	}
	if h.w.Deadline().IsInfinite() {
		t.Fatalf("expected a finite deadline when docked")
	}
}

func TestWindow_FloatingRoundTripRestoresOrigin(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)

	h.w.DockTop()
	h.settle(t)
	h.w.Undock()
	assertInvariant(t, h.w)
	h.settle(t)

	if got := h.shell.Frame().Origin; got != (geometry.Point{X: 100, Y: 100}) {
		t.Fatalf("expected origin (100,100) restored, got %v", got)
	}
	if !h.shell.Chrome {
		t.Fatalf("expected chrome restored when floating")
	}
	if h.shell.Alpha() != 1 {
		t.Fatalf("expected opaque floating window, got alpha %v", h.shell.Alpha())
	}
	if !h.w.Deadline().IsInfinite() {
		t.Fatalf("expected infinite deadline when floating")
	}
}

func TestWindow_SideBarShiftsFrameWithChrome(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 22)

	h.w.DockTop()
	h.settle(t)

	want := geometry.NewRect((1440-992)/2, 840, 992, 60)
	if diff := cmp.Diff(want, h.shell.Frame()); diff != "" {
		t.Fatalf("frame mismatch (-want +got):\n%s", diff)
	}

	h.w.Undock()
	h.settle(t)
	if got := h.shell.Frame(); got != geometry.NewRect(100, 100, 1014, 60) {
		t.Fatalf("expected original floating frame back, got %v", got)
	}
}

func TestWindow_FloatingCannotHide(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)

	h.w.SetHiding(Hidden)
	assertInvariant(t, h.w)
	if h.w.Animating() {
		t.Fatalf("expected no animation for a floating window")
	}
}

func TestWindow_HideAndShow(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)
	h.w.DockTop()
	h.settle(t)

	h.w.SetHiding(Hidden)
	h.settle(t)
	if got := h.shell.Frame().MinY(); got != 923 {
		t.Fatalf("expected hidden minY=923, got %v", got)
	}
	if h.shell.Alpha() != 0 {
		t.Fatalf("expected faded out window, got alpha %v", h.shell.Alpha())
	}

	h.locator.Mouse = geometry.Point{X: 2000, Y: 1080}
	before := len(h.shell.Frames)
	h.w.SetHiding(Shown)

	snap := h.shell.Frames[before]
	if snap.MinY() != 1079 || snap.MinX() != 1893 {
		t.Fatalf("expected snap to the hidden spot on the mouse monitor, got %v", snap)
	}
	h.settle(t)
	if got := h.shell.Frame(); got != geometry.NewRect(1893, 1020, 1014, 60) {
		t.Fatalf("expected shown on the side monitor, got %v", got)
	}
	if h.shell.Alpha() != 1 {
		t.Fatalf("expected faded in window, got alpha %v", h.shell.Alpha())
	}
}

func TestWindow_TeleportToMouseMonitor(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)
	h.w.DockTop()
	h.settle(t)

	changed, err := h.w.MonitorChanged()
	if err != nil || changed {
		t.Fatalf("expected same monitor, got changed=%v err=%v", changed, err)
	}

	h.locator.Mouse = geometry.Point{X: 2000, Y: 500}
	changed, err = h.w.MonitorChanged()
	if err != nil || !changed {
		t.Fatalf("expected monitor change, got changed=%v err=%v", changed, err)
	}

	h.w.Teleport()
	h.sched.Step(h.clock, 100*time.Millisecond)
	if a := h.shell.Alpha(); a >= 1 {
		t.Fatalf("expected window dimmed mid-teleport, got alpha %v", a)
	}
	h.settle(t)

	if got := h.shell.Frame(); got != geometry.NewRect(1893, 1020, 1014, 60) {
		t.Fatalf("expected window on the side monitor, got %v", got)
	}
	if h.shell.Alpha() != 1 {
		t.Fatalf("expected alpha restored, got %v", h.shell.Alpha())
	}
	if changed, _ := h.w.MonitorChanged(); changed {
		t.Fatalf("expected current monitor to follow the teleport")
	}
}

func TestWindow_CloseFastForwardsAnimation(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)

	h.w.DockTop()
	h.sched.Step(h.clock, 100*time.Millisecond)
	h.w.Close()

	if got := h.shell.Frame(); got != geometry.NewRect(213, 840, 1014, 60) {
		t.Fatalf("expected close to snap to the final frame, got %v", got)
	}
	if h.shell.CloseCalls != 1 || !h.w.IsClosed() {
		t.Fatalf("expected shell closed once, got %d (closed=%v)", h.shell.CloseCalls, h.w.IsClosed())
	}
	if h.settings.frame != h.shell.Frame() {
		t.Fatalf("expected last frame saved, got %v", h.settings.frame)
	}

	frames := len(h.shell.Frames)
	h.sched.Step(h.clock, time.Second)
	if len(h.shell.Frames) != frames {
		t.Fatalf("expected no frames after close")
	}

	h.w.Close()
	if h.shell.CloseCalls != 1 {
		t.Fatalf("expected second close to be ignored")
	}

	h.w.Open()
	if h.w.IsClosed() || h.shell.ShowCalls != 1 {
		t.Fatalf("expected window reopened")
	}
}

func TestWindow_ShownAgainClearsClosed(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)
	h.w.HandleWillClose()
	h.shell.Visible = false
	if !h.w.IsClosed() {
		t.Fatalf("expected closed window")
	}
	h.shell.Visible = true
	if h.w.IsClosed() {
		t.Fatalf("expected visible window to clear the closed flag")
	}
}

func TestWindow_UnresolvableMonitorDefersPlacement(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)
	h.locator.Mouse = geometry.Point{X: 700, Y: 5000}

	h.w.DockBottom()
	if h.w.Docking() != DockedToBottom {
		t.Fatalf("expected state to change, got %v", h.w.Docking())
	}
	if h.w.Animating() {
		t.Fatalf("expected no animation against a missing monitor")
	}
	if !h.w.PendingRelayout() {
		t.Fatalf("expected placement to be deferred")
	}

	h.w.Relayout()
	if !h.w.PendingRelayout() {
		t.Fatalf("expected placement still deferred while pointer is off-screen")
	}

	h.locator.Mouse = geometry.Point{X: 700, Y: 450}
	h.w.Relayout()
	h.settle(t)
	if h.w.PendingRelayout() {
		t.Fatalf("expected deferred placement to be applied")
	}
	if got := h.shell.Frame(); got != geometry.NewRect(213, 0, 1014, 60) {
		t.Fatalf("expected bottom docked frame, got %v", got)
	}
}

func TestWindow_RelayoutRestoresAlpha(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)
	h.w.DockBottom()
	h.settle(t)
	h.w.SetHiding(Hidden)
	h.settle(t)
	if h.shell.Alpha() != 0 {
		t.Fatalf("expected hidden window faded out, got alpha %v", h.shell.Alpha())
	}

	// Between the two displays, below the side monitor's reach.
	h.locator.Mouse = geometry.Point{X: 700, Y: 1000}
	h.w.Undock()
	if !h.w.PendingRelayout() {
		t.Fatalf("expected undock placement to be deferred")
	}

	h.locator.Mouse = geometry.Point{X: 700, Y: 450}
	h.w.Relayout()
	h.settle(t)

	if h.shell.Alpha() != 1 {
		t.Fatalf("expected relayout to fade the floating window in, got alpha %v", h.shell.Alpha())
	}
	if got := h.shell.Frame(); got != geometry.NewRect(100, 100, 1014, 60) {
		t.Fatalf("expected saved floating origin restored, got %v", got)
	}
}

func TestWindow_DetectionRectsCoverEveryMonitor(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)

	rects, err := h.w.DetectionRects()
	if err != nil {
		t.Fatalf("DetectionRects: %v", err)
	}
	if len(rects) != 1 || !rects[0].IsInfinite() {
		t.Fatalf("expected a single infinite rect while floating, got %v", rects)
	}

	h.w.DockTop()
	h.settle(t)
	rects, err = h.w.DetectionRects()
	if err != nil {
		t.Fatalf("DetectionRects: %v", err)
	}
	if len(rects) != 2 {
		t.Fatalf("expected one rect per monitor, got %v", rects)
	}
	if !rects[0].ContainsPoint(geometry.Point{X: 700, Y: 924}) {
		t.Fatalf("built-in rect %v misses its top edge", rects[0])
	}
	if !rects[1].ContainsPoint(geometry.Point{X: 2400, Y: 1080}) {
		t.Fatalf("side rect %v misses its top edge", rects[1])
	}

	h.locator.MonitorSet = nil
	if _, err := h.w.DetectionRects(); !IsUnresolvable(err) {
		t.Fatalf("expected unresolvable error without monitors, got %v", err)
	}
}

func TestWindow_ResizeReconcile(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)
	h.w.DockBottom()
	h.settle(t)

	h.shell.LiveResize = true
	h.shell.FrameValue = geometry.NewRect(213, 0, 1200, 80)
	h.w.HandleResize()
	if h.w.ResizeEnded() {
		t.Fatalf("resize must not count as ended while live")
	}

	h.shell.LiveResize = false
	if !h.w.ResizeEnded() {
		t.Fatalf("expected finished resize to be pending")
	}
	h.w.ReconcileResize()
	h.settle(t)

	if h.w.ResizeEnded() {
		t.Fatalf("expected resize to be reconciled")
	}
	if got := h.shell.Frame(); got != geometry.NewRect(120, 0, 1200, 80) {
		t.Fatalf("expected recentered frame, got %v", got)
	}
}

func TestWindow_SetupRestoresPersistedPlacement(t *testing.T) {
	h := newHarness(t, geometry.NewRect(0, 0, 10, 10), 0)
	h.settings.docking = DockedToTop
	h.settings.frame = geometry.NewRect(50, 50, 1014, 60)

	h.w.Setup()

	if h.w.State() != (State{Docking: DockedToTop, Hiding: Shown}) {
		t.Fatalf("unexpected state %v", h.w.State())
	}
	if h.shell.Chrome {
		t.Fatalf("expected chrome off for a docked window")
	}
	if got := h.shell.Frame(); got != geometry.NewRect(213, 840, 1014, 60) {
		t.Fatalf("expected docked frame, got %v", got)
	}

	h.w.Undock()
	h.settle(t)
	h.shell.FrameValue = geometry.NewRect(300, 200, 1014, 60)
	h.w.FinishUp()
	if h.settings.origin != (geometry.Point{X: 300, Y: 200}) {
		t.Fatalf("expected floating origin saved on finish, got %v", h.settings.origin)
	}
	if h.settings.frame != h.shell.Frame() {
		t.Fatalf("expected last frame saved on finish, got %v", h.settings.frame)
	}
}

func TestWindow_ToggleCycles(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)

	want := []Docking{DockedToTop, DockedToBottom, Floating}
	for _, d := range want {
		h.w.Toggle()
		assertInvariant(t, h.w)
		h.settle(t)
		if h.w.Docking() != d {
			t.Fatalf("expected %v, got %v", d, h.w.Docking())
		}
	}
}

func TestShellHandle_DetachedCallbacksAreNoOps(t *testing.T) {
	shell := testutil.NewShell(geometry.NewRect(0, 0, 10, 10))
	h := &shellHandle{shell: shell}
	move := moveAnimation(h, geometry.NewRect(0, 0, 10, 10), geometry.NewRect(100, 0, 10, 10))
	fade := fadeAnimation(h, 1, 0)

	h.detach()
	move(0.5, 0.5)
	fade(1, 1)

	if len(shell.Frames) != 0 || len(shell.Alphas) != 0 {
		t.Fatalf("expected detached handle to drop calls, got %d frames %d alphas", len(shell.Frames), len(shell.Alphas))
	}
}

func TestWindow_DetachStopsAnimation(t *testing.T) {
	h := newHarness(t, geometry.NewRect(100, 100, 1014, 60), 0)
	h.w.DockTop()
	h.w.Detach()

	if h.w.Animating() {
		t.Fatalf("expected engine idle after detach")
	}
	frames := len(h.shell.Frames)
	h.w.SetHiding(Hidden)
	h.settle(t)
	if len(h.shell.Frames) != frames {
		t.Fatalf("expected detached window to leave the shell alone")
	}
}
