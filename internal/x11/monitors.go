package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Area is a rectangle in root window coordinates (y grows downward).
type Area struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (a Area) contains(x, y int) bool {
	return x >= a.X && x < a.X+a.Width && y >= a.Y && y < a.Y+a.Height
}

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	Bounds Area
	// Usable excludes the space reserved by panels and docks.
	Usable Area
}

// RootSize returns the size of the root window, which spans every monitor.
func (c *Connection) RootSize() (width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return int(geom.Width), int(geom.Height), nil
}

// Pointer returns the pointer position in root coordinates.
func (c *Connection) Pointer() (x, y int, err error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(pointer.RootX), int(pointer.RootY), nil
}

// GetMonitors retrieves all active monitors using XRandR, each with its
// usable area.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	// Initialize RandR if not already done
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		bounds := Area{
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			Bounds: bounds,
			Usable: bounds,
		})
	}

	c.applyReservations(monitors)
	return monitors, nil
}

// applyReservations shrinks each monitor's usable area by dock struts, or by
// the EWMH work area when no dock sets struts.
func (c *Connection) applyReservations(monitors []Monitor) {
	rootWidth, rootHeight, err := c.RootSize()
	if err != nil {
		return
	}
	docks := c.dockStrutPartials(rootWidth, rootHeight)

	var workArea *Area
	if len(docks) == 0 {
		workArea = c.currentWorkArea()
	}

	for i := range monitors {
		mon := &monitors[i]
		if len(docks) > 0 {
			var struts dockStruts
			for _, sp := range docks {
				updateStrutsForMonitor(mon.Bounds, rootHeight, rootWidth, sp, &struts)
			}
			mon.Usable = struts.apply(mon.Bounds)
			continue
		}
		if workArea != nil {
			if isect, ok := intersect(mon.Bounds, *workArea); ok {
				mon.Usable = isect
			}
		}
	}
}

func (c *Connection) currentWorkArea() *Area {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return nil
	}
	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := workArea[desktopIndex]
	return &Area{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)}
}

func (c *Connection) dockStrutPartials(rootWidth, rootHeight int) []*ewmh.WmStrutPartial {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil
	}

	var out []*ewmh.WmStrutPartial
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil {
			continue
		}

		isDock := false
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DOCK" {
				isDock = true
				break
			}
		}
		if !isDock {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			out = append(out, sp)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			out = append(out, &ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(rootHeight - 1),
				RightEndY:  uint(rootHeight - 1),
				TopEndX:    uint(rootWidth - 1),
				BottomEndX: uint(rootWidth - 1),
			})
		}
	}
	return out
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func (s dockStruts) apply(bounds Area) Area {
	out := Area{
		X:      bounds.X + s.left,
		Y:      bounds.Y + s.top,
		Width:  bounds.Width - s.left - s.right,
		Height: bounds.Height - s.top - s.bottom,
	}
	out.Width = max(out.Width, 1)
	out.Height = max(out.Height, 1)
	return out
}

func updateStrutsForMonitor(mon Area, rootHeight, rootWidth int, sp *ewmh.WmStrutPartial, acc *dockStruts) {
	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		strut := Area{X: int(sp.TopStartX), Y: 0, Width: int(sp.TopEndX) + 1 - int(sp.TopStartX), Height: int(sp.Top)}
		if isect, ok := intersect(mon, strut); ok {
			acc.top = max(acc.top, isect.Height)
		}
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		strut := Area{X: int(sp.BottomStartX), Y: rootHeight - int(sp.Bottom), Width: int(sp.BottomEndX) + 1 - int(sp.BottomStartX), Height: int(sp.Bottom)}
		if isect, ok := intersect(mon, strut); ok {
			acc.bottom = max(acc.bottom, isect.Height)
		}
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		strut := Area{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) + 1 - int(sp.LeftStartY)}
		if isect, ok := intersect(mon, strut); ok {
			acc.left = max(acc.left, isect.Width)
		}
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		strut := Area{X: rootWidth - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) + 1 - int(sp.RightStartY)}
		if isect, ok := intersect(mon, strut); ok {
			acc.right = max(acc.right, isect.Width)
		}
	}
}

func intersect(a, b Area) (Area, bool) {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)

	if x2 <= x1 || y2 <= y1 {
		return Area{}, false
	}
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}

// MonitorAt returns the monitor whose bounds contain the root point.
func MonitorAt(monitors []Monitor, x, y int) (Monitor, bool) {
	for _, mon := range monitors {
		if mon.Bounds.contains(x, y) {
			return mon, true
		}
	}
	return Monitor{}, false
}
