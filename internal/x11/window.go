package x11

import (
	"fmt"
	"math"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	opacityProperty = "_NET_WM_WINDOW_OPACITY"
	allDesktops     = 0xFFFFFFFF
)

// WindowOptions describes the top level window to create.
type WindowOptions struct {
	Title string
	Class string
	Area  Area
	// AspectWidth and AspectHeight fix the aspect ratio of the size left
	// after subtracting the base size. Zero leaves it free.
	AspectWidth  int
	AspectHeight int
	BaseWidth    int
	BaseHeight   int
	Background   uint32
	AllDesktops  bool
}

// DockWindow is an undecorated-on-demand top level window that can be moved,
// faded and closed by the caller.
type DockWindow struct {
	conn  *Connection
	win   *xwindow.Window
	opts  WindowOptions
	wmDel xproto.Atom
	wmPro xproto.Atom

	mu        sync.Mutex
	area      Area
	requested Area
	alpha     float64
	mapped    bool

	// OnConfigure runs on the X event goroutine whenever the server reports
	// a new geometry. userResize is true when the size differs from the last
	// one requested through MoveResize.
	OnConfigure func(area Area, userResize bool)
	// OnDelete runs on the X event goroutine when the window manager asks
	// the window to close.
	OnDelete func()
}

// CreateDockWindow creates and maps a window. Events are delivered once
// EventLoop runs.
func (c *Connection) CreateDockWindow(opts WindowOptions) (*DockWindow, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	a := opts.Area
	err = win.CreateChecked(c.Root, a.X, a.Y, a.Width, a.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		opts.Background,
		xproto.EventMaskStructureNotify)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	d := &DockWindow{
		conn:      c,
		win:       win,
		opts:      opts,
		area:      a,
		requested: a,
		alpha:     1,
	}

	if d.wmPro, err = xprop.Atm(c.XUtil, "WM_PROTOCOLS"); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to intern WM_PROTOCOLS: %w", err)
	}
	if d.wmDel, err = xprop.Atm(c.XUtil, "WM_DELETE_WINDOW"); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}

	if err := d.setProperties(); err != nil {
		win.Destroy()
		return nil, err
	}
	d.connectEvents()
	d.Show()
	return d, nil
}

func (d *DockWindow) setProperties() error {
	xu := d.conn.XUtil
	id := d.win.Id

	if err := ewmh.WmNameSet(xu, id, d.opts.Title); err != nil {
		return fmt.Errorf("failed to set window name: %w", err)
	}
	if err := icccm.WmClassSet(xu, id, &icccm.WmClass{Instance: d.opts.Class, Class: d.opts.Class}); err != nil {
		return fmt.Errorf("failed to set window class: %w", err)
	}
	if err := icccm.WmProtocolsSet(xu, id, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	if err := ewmh.WmWindowTypeSet(xu, id, []string{"_NET_WM_WINDOW_TYPE_UTILITY"}); err != nil {
		return fmt.Errorf("failed to set window type: %w", err)
	}

	states := []string{"_NET_WM_STATE_ABOVE", "_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER"}
	if d.opts.AllDesktops {
		states = append(states, "_NET_WM_STATE_STICKY")
	}
	if err := ewmh.WmStateSet(xu, id, states); err != nil {
		return fmt.Errorf("failed to set window state: %w", err)
	}
	if d.opts.AllDesktops {
		// Best effort; not every window manager honours it before mapping.
		_ = ewmh.WmDesktopSet(xu, id, allDesktops)
	}

	if d.opts.AspectWidth > 0 && d.opts.AspectHeight > 0 {
		hints := &icccm.NormalHints{
			Flags:        icccm.SizeHintPAspect | icccm.SizeHintPMinSize | icccm.SizeHintPBaseSize,
			BaseWidth:    uint(d.opts.BaseWidth),
			BaseHeight:   uint(d.opts.BaseHeight),
			MinWidth:     uint(d.opts.BaseWidth + d.opts.AspectWidth/4),
			MinHeight:    uint(d.opts.BaseHeight + d.opts.AspectHeight/4),
			MinAspectNum: uint(d.opts.AspectWidth),
			MinAspectDen: uint(d.opts.AspectHeight),
			MaxAspectNum: uint(d.opts.AspectWidth),
			MaxAspectDen: uint(d.opts.AspectHeight),
		}
		if err := icccm.WmNormalHintsSet(xu, id, hints); err != nil {
			return fmt.Errorf("failed to set size hints: %w", err)
		}
	}
	return nil
}

func (d *DockWindow) connectEvents() {
	xu := d.conn.XUtil

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		// A reparenting window manager reports the position relative to
		// its frame, so ask for the client origin in root coordinates.
		x, y, ok := d.rootOrigin()

		d.mu.Lock()
		reported := Area{X: d.area.X, Y: d.area.Y, Width: int(ev.Width), Height: int(ev.Height)}
		if ok {
			reported.X, reported.Y = x, y
		}
		var changed, user bool
		d.area, d.requested, changed, user = configured(d.area, d.requested, reported)
		area := d.area
		cb := d.OnConfigure
		d.mu.Unlock()

		if changed && cb != nil {
			cb(area, user)
		}
	}).Connect(xu, d.win.Id)

	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if ev.Type != d.wmPro || ev.Format != 32 || len(ev.Data.Data32) == 0 {
			return
		}
		if xproto.Atom(ev.Data.Data32[0]) != d.wmDel {
			return
		}
		if d.OnDelete != nil {
			d.OnDelete()
		}
	}).Connect(xu, d.win.Id)
}

func (d *DockWindow) rootOrigin() (x, y int, ok bool) {
	reply, err := xproto.TranslateCoordinates(d.conn.XUtil.Conn(), d.win.Id, d.conn.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(reply.DstX), int(reply.DstY), true
}

// configured folds a geometry reported by the server into the known and
// requested areas. The reported position replaces the known one; only the
// requested size is tracked. userResize is true when the size differs from
// the last requested one.
func configured(known, requested, reported Area) (area, req Area, changed, userResize bool) {
	userResize = reported.Width != requested.Width || reported.Height != requested.Height
	if userResize {
		requested.Width, requested.Height = reported.Width, reported.Height
	}
	return reported, requested, reported != known, userResize
}

// ID returns the X window id.
func (d *DockWindow) ID() xproto.Window { return d.win.Id }

// Area returns the last known geometry in root coordinates.
func (d *DockWindow) Area() Area {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.area
}

// MoveResize places the window. It goes through the window manager so the
// request is honoured for managed windows.
func (d *DockWindow) MoveResize(a Area) {
	d.mu.Lock()
	d.area = a
	d.requested = a
	d.mu.Unlock()

	if err := d.win.WMMoveResize(a.X, a.Y, a.Width, a.Height); err != nil {
		// Fallback to direct window manipulation
		d.win.MoveResize(a.X, a.Y, a.Width, a.Height)
	}
}

// Alpha returns the last opacity set.
func (d *DockWindow) Alpha() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.alpha
}

// SetAlpha sets _NET_WM_WINDOW_OPACITY. Fully opaque removes the property,
// which compositors treat as opaque.
func (d *DockWindow) SetAlpha(alpha float64) error {
	alpha = math.Max(0, math.Min(1, alpha))
	d.mu.Lock()
	d.alpha = alpha
	d.mu.Unlock()

	xu := d.conn.XUtil
	if alpha >= 1 {
		atom, err := xprop.Atm(xu, opacityProperty)
		if err != nil {
			return err
		}
		return xproto.DeletePropertyChecked(xu.Conn(), d.win.Id, atom).Check()
	}
	return xprop.ChangeProp32(xu, d.win.Id, opacityProperty, "CARDINAL", uint(alpha*0xFFFFFFFF))
}

// SetDecorated asks the window manager to draw or drop the title bar.
func (d *DockWindow) SetDecorated(on bool) error {
	hints := &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: motif.DecorationNone,
	}
	if on {
		hints.Decoration = motif.DecorationAll
	}
	return motif.WmHintsSet(d.conn.XUtil, d.win.Id, hints)
}

// Mapped reports whether the window is currently shown.
func (d *DockWindow) Mapped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mapped
}

// Show maps the window.
func (d *DockWindow) Show() {
	d.mu.Lock()
	d.mapped = true
	d.mu.Unlock()
	d.win.Map()
}

// Hide unmaps the window without destroying it.
func (d *DockWindow) Hide() {
	d.mu.Lock()
	d.mapped = false
	d.mu.Unlock()
	d.win.Unmap()
}

// Destroy detaches event handlers and destroys the window.
func (d *DockWindow) Destroy() {
	xevent.Detach(d.conn.XUtil, d.win.Id)
	d.win.Destroy()
}
