package dock

import "github.com/1broseidon/tbsim/internal/geometry"

// Shell is the window the state machine moves around.
type Shell interface {
	Frame() geometry.Rect
	SetFrame(r geometry.Rect, animate bool)
	Alpha() float64
	SetAlpha(a float64)
	IsVisible() bool
	InLiveResize() bool
	SetChrome(on bool)
	Show()
	Close()
}

// shellHandle is the only path from animations to the shell. Once detached
// every call is a no-op, so frames firing after teardown do nothing.
type shellHandle struct {
	shell Shell
}

func (h *shellHandle) detach() { h.shell = nil }

func (h *shellHandle) attached() bool { return h.shell != nil }

func (h *shellHandle) Frame() geometry.Rect {
	if h.shell == nil {
		return geometry.Rect{}
	}
	return h.shell.Frame()
}

func (h *shellHandle) SetFrame(r geometry.Rect, animate bool) {
	if h.shell != nil {
		h.shell.SetFrame(r, animate)
	}
}

func (h *shellHandle) Alpha() float64 {
	if h.shell == nil {
		return 0
	}
	return h.shell.Alpha()
}

func (h *shellHandle) SetAlpha(a float64) {
	if h.shell != nil {
		h.shell.SetAlpha(a)
	}
}

func (h *shellHandle) IsVisible() bool {
	return h.shell != nil && h.shell.IsVisible()
}

func (h *shellHandle) InLiveResize() bool {
	return h.shell != nil && h.shell.InLiveResize()
}

func (h *shellHandle) SetChrome(on bool) {
	if h.shell != nil {
		h.shell.SetChrome(on)
	}
}

func (h *shellHandle) Show() {
	if h.shell != nil {
		h.shell.Show()
	}
}

func (h *shellHandle) Close() {
	if h.shell != nil {
		h.shell.Close()
	}
}
