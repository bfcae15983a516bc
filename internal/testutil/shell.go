package testutil

import (
	"errors"

	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/screen"
)

// Shell records every mutation a window makes.
type Shell struct {
	FrameValue  geometry.Rect
	AlphaValue  float64
	Visible     bool
	LiveResize  bool
	Chrome      bool
	Closed      bool
	Frames      []geometry.Rect
	Alphas      []float64
	ChromeCalls []bool
	ShowCalls   int
	CloseCalls  int
}

// NewShell returns a visible, opaque shell at frame.
func NewShell(frame geometry.Rect) *Shell {
	return &Shell{FrameValue: frame, AlphaValue: 1, Visible: true, Chrome: true}
}

func (s *Shell) Frame() geometry.Rect { return s.FrameValue }

func (s *Shell) SetFrame(r geometry.Rect, animate bool) {
	s.FrameValue = r
	s.Frames = append(s.Frames, r)
}

func (s *Shell) Alpha() float64 { return s.AlphaValue }

func (s *Shell) SetAlpha(a float64) {
	s.AlphaValue = a
	s.Alphas = append(s.Alphas, a)
}

func (s *Shell) IsVisible() bool    { return s.Visible }
func (s *Shell) InLiveResize() bool { return s.LiveResize }

func (s *Shell) SetChrome(on bool) {
	s.Chrome = on
	s.ChromeCalls = append(s.ChromeCalls, on)
}

func (s *Shell) Show() {
	s.ShowCalls++
	s.Visible = true
	s.Closed = false
}

func (s *Shell) Close() {
	s.CloseCalls++
	s.Visible = false
	s.Closed = true
}

// ErrNoPointer is returned by Locator when MouseErr is set without a value.
var ErrNoPointer = errors.New("pointer unavailable")

// Locator is a screen.Locator with a movable pointer.
type Locator struct {
	Mouse      geometry.Point
	MonitorSet []screen.Monitor
	MouseErr   error
	MonitorErr error
	Queries    int
}

func (l *Locator) MouseLocation() (geometry.Point, error) {
	if l.MouseErr != nil {
		return geometry.Point{}, l.MouseErr
	}
	return l.Mouse, nil
}

func (l *Locator) Monitors() ([]screen.Monitor, error) {
	l.Queries++
	if l.MonitorErr != nil {
		return nil, l.MonitorErr
	}
	out := make([]screen.Monitor, len(l.MonitorSet))
	copy(out, l.MonitorSet)
	return out, nil
}

// MacBookMonitor is a 1440x900 visible frame under a 24 unit menu bar.
func MacBookMonitor() screen.Monitor {
	return screen.Monitor{
		ID:           0,
		Name:         "built-in",
		Frame:        geometry.NewRect(0, 0, 1440, 924),
		VisibleFrame: geometry.NewRect(0, 0, 1440, 900),
	}
}

// SideMonitor is a 1920x1080 display to the right of MacBookMonitor with a
// 30 unit panel at the bottom.
func SideMonitor() screen.Monitor {
	return screen.Monitor{
		ID:           1,
		Name:         "external",
		Frame:        geometry.NewRect(1440, 0, 1920, 1080),
		VisibleFrame: geometry.NewRect(1440, 30, 1920, 1050),
	}
}
