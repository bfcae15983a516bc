//go:build linux

package platform

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/1broseidon/tbsim/internal/dock"
	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/screen"
	"github.com/1broseidon/tbsim/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection

	mu         sync.Mutex
	rootHeight int
}

var _ Backend = (*LinuxBackend)(nil)

// Open connects to the X server named by display, or $DISPLAY when empty.
func Open(display string) (Backend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, err
	}
	return NewLinuxBackend(conn), nil
}

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Run starts the X11 event loop (blocking).
func (b *LinuxBackend) Run() { b.conn.EventLoop() }

func (b *LinuxBackend) Stop() { b.conn.Quit() }

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

func (b *LinuxBackend) MouseLocation() (geometry.Point, error) {
	h, err := b.refreshRootHeight()
	if err != nil {
		return geometry.Point{}, err
	}
	x, y, err := b.conn.Pointer()
	if err != nil {
		return geometry.Point{}, err
	}
	return pointFromRoot(x, y, h), nil
}

func (b *LinuxBackend) Monitors() ([]screen.Monitor, error) {
	h, err := b.refreshRootHeight()
	if err != nil {
		return nil, err
	}
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	out := make([]screen.Monitor, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, screen.Monitor{
			ID:           m.ID,
			Name:         m.Name,
			Frame:        rectFromRoot(m.Bounds.X, m.Bounds.Y, m.Bounds.Width, m.Bounds.Height, h),
			VisibleFrame: rectFromRoot(m.Usable.X, m.Usable.Y, m.Usable.Width, m.Usable.Height, h),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (b *LinuxBackend) refreshRootHeight() (int, error) {
	_, h, err := b.conn.RootSize()
	if err != nil {
		return 0, err
	}
	b.mu.Lock()
	b.rootHeight = h
	b.mu.Unlock()
	return h, nil
}

// ToRoot converts r to root window pixels, origin at the top-left.
func (b *LinuxBackend) ToRoot(r geometry.Rect) (x, y, width, height int, err error) {
	h, err := b.refreshRootHeight()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	x, y, width, height = rectToRoot(r, h)
	return x, y, width, height, nil
}

func (b *LinuxBackend) cachedRootHeight() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rootHeight
}

// NewShell creates the simulator window on the X server.
func (b *LinuxBackend) NewShell(opts ShellOptions, events ShellEvents) (dock.Shell, error) {
	if events.Post == nil {
		return nil, fmt.Errorf("shell events need a Post function")
	}
	h, err := b.refreshRootHeight()
	if err != nil {
		return nil, err
	}
	if opts.ResizeSettle <= 0 {
		opts.ResizeSettle = DefaultResizeSettle
	}

	x, y, w, hh := rectToRoot(opts.Frame, h)
	win, err := b.conn.CreateDockWindow(x11.WindowOptions{
		Title:        opts.Title,
		Class:        opts.Class,
		Area:         x11.Area{X: x, Y: y, Width: w, Height: hh},
		AspectWidth:  opts.AspectWidth,
		AspectHeight: opts.AspectHeight,
		BaseWidth:    2 * opts.Margin,
		BaseHeight:   2 * opts.Margin,
		Background:   0x000000,
		AllDesktops:  opts.AllDesktops,
	})
	if err != nil {
		return nil, err
	}

	s := &linuxShell{
		backend: b,
		win:     win,
		events:  events,
		settle:  opts.ResizeSettle,
		now:     time.Now,
		chrome:  true,
	}
	win.OnConfigure = func(_ x11.Area, user bool) {
		if !user {
			return
		}
		events.Post(s.userResized)
	}
	win.OnDelete = func() {
		events.Post(func() {
			if events.OnClose != nil {
				events.OnClose()
			}
		})
	}
	return s, nil
}

// linuxShell adapts an x11.DockWindow to dock.Shell. Methods run on the main
// loop; X event callbacks only post into it.
type linuxShell struct {
	backend *LinuxBackend
	win     *x11.DockWindow
	events  ShellEvents
	settle  time.Duration
	now     func() time.Time

	chrome     bool
	lastResize time.Time
}

var _ dock.Shell = (*linuxShell)(nil)

func (s *linuxShell) userResized() {
	s.lastResize = s.now()
	if s.events.OnResize != nil {
		s.events.OnResize()
	}
}

func (s *linuxShell) Frame() geometry.Rect {
	a := s.win.Area()
	return rectFromRoot(a.X, a.Y, a.Width, a.Height, s.backend.cachedRootHeight())
}

// SetFrame moves the window. Animation is driven by the caller frame by
// frame, so animate is ignored.
func (s *linuxShell) SetFrame(r geometry.Rect, _ bool) {
	x, y, w, h := rectToRoot(r, s.backend.cachedRootHeight())
	s.win.MoveResize(x11.Area{X: x, Y: y, Width: w, Height: h})
}

func (s *linuxShell) Alpha() float64 { return s.win.Alpha() }

func (s *linuxShell) SetAlpha(a float64) {
	_ = s.win.SetAlpha(a)
}

func (s *linuxShell) IsVisible() bool { return s.win.Mapped() }

func (s *linuxShell) InLiveResize() bool {
	return !s.lastResize.IsZero() && s.now().Sub(s.lastResize) < s.settle
}

func (s *linuxShell) SetChrome(on bool) {
	if s.chrome == on {
		return
	}
	s.chrome = on
	_ = s.win.SetDecorated(on)
}

func (s *linuxShell) Show() {
	s.win.Show()
	if s.events.OnVisible != nil {
		s.events.OnVisible(true)
	}
}

// Close hides the window; it stays allocated so Show can bring it back.
func (s *linuxShell) Close() {
	s.win.Hide()
	if s.events.OnVisible != nil {
		s.events.OnVisible(false)
	}
}
