// Package overlay draws the window's placement rectangles on screen with
// override-redirect X11 windows, for debugging docking and detection.
package overlay

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/tbsim/internal/geometry"
)

// Border colors
const (
	ColorFrame       = 0x7f8c8d // Gray - current window frame
	ColorDestination = 0x3498db // Blue - where the window is headed
	ColorDetection   = 0x27ae60 // Green - mouse detection area
	ColorContent     = 0xe67e22 // Orange - Touch Bar content area
	ColorHintText    = 0xf5f7fa
	ColorHintBg      = 0x1f2933
)

// Border thickness in pixels
const BorderThickness = 3

const (
	hintMargin     = 12
	hintPaddingX   = 10
	hintPaddingY   = 8
	hintLineHeight = 16
	hintCharWidth  = 7
	hintMinWidth   = 220
)

// Display is the X11 side the overlay draws on. *platform.LinuxBackend
// implements it.
type Display interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
	// ToRoot converts a y-up rectangle to root window pixels.
	ToRoot(r geometry.Rect) (x, y, width, height int, err error)
}

// Rect is a rectangle in root window pixels, origin at the top-left.
type Rect struct {
	X, Y, Width, Height int
}

// Item is one rectangle to outline.
type Item struct {
	Label string
	Rect  geometry.Rect
	Color uint32
}

// hintPanel is the legend window.
type hintPanel struct {
	Window   xproto.Window
	GC       xproto.Gcontext
	Font     xproto.Font
	created  bool
	mapped   bool
	disabled bool
}

// border is a rectangular outline made of 4 thin windows.
type border struct {
	Top     xproto.Window
	Bottom  xproto.Window
	Left    xproto.Window
	Right   xproto.Window
	created bool
	mapped  bool
}

// Manager manages the overlay windows.
type Manager struct {
	display Display
	xu      *xgbutil.XUtil
	root    xproto.Window

	borders []*border
	hint    *hintPanel
}

// NewManager creates an overlay manager on d.
func NewManager(d Display) *Manager {
	return &Manager{
		display: d,
		xu:      d.XUtil(),
		root:    d.RootWindow(),
		hint:    &hintPanel{},
	}
}

// Render outlines every item and shows legend in a corner of bounds that
// does not cover the items. Items with an infinite rectangle are listed in
// the legend but not drawn.
func (m *Manager) Render(items []Item, legend []string, bounds geometry.Rect) error {
	var drawn []Rect
	var colors []uint32
	for _, it := range items {
		if it.Rect.IsInfinite() {
			continue
		}
		r, err := m.toRoot(it.Rect)
		if err != nil {
			return err
		}
		drawn = append(drawn, r)
		colors = append(colors, it.Color)
	}

	if err := m.ensureBorders(len(drawn)); err != nil {
		return err
	}
	for i := range drawn {
		if err := m.showBorder(m.borders[i], drawn[i], colors[i]); err != nil {
			return err
		}
	}

	hintBounds, err := m.toRoot(bounds)
	if err != nil {
		return err
	}
	m.renderHint(legend, hintBounds, drawn)
	return nil
}

func (m *Manager) toRoot(r geometry.Rect) (Rect, error) {
	x, y, w, h, err := m.display.ToRoot(r)
	if err != nil {
		return Rect{}, fmt.Errorf("convert %v to root coordinates: %w", r, err)
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// HideAll hides all overlays without destroying them.
func (m *Manager) HideAll() {
	for _, b := range m.borders {
		m.hideBorder(b)
	}
	m.hideHint()
}

// Cleanup destroys all overlay windows
func (m *Manager) Cleanup() {
	for _, b := range m.borders {
		m.destroyBorder(b)
	}
	m.destroyHint()
	m.borders = nil
}

func (m *Manager) ensureBorders(count int) error {
	for i := count; i < len(m.borders); i++ {
		m.hideBorder(m.borders[i])
	}
	for len(m.borders) < count {
		b := &border{}
		if err := m.createBorderWindows(b); err != nil {
			return err
		}
		m.borders = append(m.borders, b)
	}
	return nil
}

// showBorder creates or updates a border around the given rectangle
func (m *Manager) showBorder(b *border, rect Rect, color uint32) error {
	if !b.created {
		if err := m.createBorderWindows(b); err != nil {
			return err
		}
	}

	bars := borderBars(rect, BorderThickness)
	for i, wid := range []xproto.Window{b.Top, b.Bottom, b.Left, b.Right} {
		m.updateWindow(wid, bars[i], color)
		xproto.MapWindow(m.xu.Conn(), wid)
	}
	b.mapped = true
	return nil
}

// borderBars splits an outline into top, bottom, left and right bars.
func borderBars(r Rect, t int) [4]Rect {
	return [4]Rect{
		{X: r.X, Y: r.Y, Width: r.Width, Height: t},
		{X: r.X, Y: r.Y + r.Height - t, Width: r.Width, Height: t},
		{X: r.X, Y: r.Y + t, Width: t, Height: r.Height - 2*t},
		{X: r.X + r.Width - t, Y: r.Y + t, Width: t, Height: r.Height - 2*t},
	}
}

func (m *Manager) hideBorder(b *border) {
	if !b.mapped {
		return
	}
	for _, wid := range []xproto.Window{b.Top, b.Bottom, b.Left, b.Right} {
		xproto.UnmapWindow(m.xu.Conn(), wid)
	}
	b.mapped = false
}

func (m *Manager) destroyBorder(b *border) {
	for _, wid := range []xproto.Window{b.Top, b.Bottom, b.Left, b.Right} {
		if wid != 0 {
			xproto.DestroyWindow(m.xu.Conn(), wid)
		}
	}
	*b = border{}
}

// createBorderWindows creates the 4 border windows
func (m *Manager) createBorderWindows(b *border) error {
	for _, wid := range []*xproto.Window{&b.Top, &b.Bottom, &b.Left, &b.Right} {
		w, err := m.createOverrideRedirectWindow()
		if err != nil {
			return err
		}
		*wid = w
	}
	b.created = true
	return nil
}

// createOverrideRedirectWindow creates a single window that bypasses the
// window manager.
func (m *Manager) createOverrideRedirectWindow() (xproto.Window, error) {
	conn := m.xu.Conn()
	screen := m.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		m.root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwOverrideRedirect|xproto.CwBackPixel,
		// Values follow mask bit order: CwBackPixel before CwOverrideRedirect.
		[]uint32{0, 1},
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

// updateWindow moves, resizes, and recolors a window
func (m *Manager) updateWindow(wid xproto.Window, r Rect, color uint32) {
	conn := m.xu.Conn()

	width, height := max(r.Width, 1), max(r.Height, 1)
	xproto.ConfigureWindow(
		conn,
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(int32(r.X)),
			uint32(int32(r.Y)),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove,
		},
	)
	xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{color})
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}
