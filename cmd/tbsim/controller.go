package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/1broseidon/tbsim/internal/content"
	"github.com/1broseidon/tbsim/internal/dock"
	"github.com/1broseidon/tbsim/internal/ipc"
	"github.com/1broseidon/tbsim/internal/screen"
	"github.com/1broseidon/tbsim/internal/settings"
)

const controllerTimeout = 5 * time.Second

// caller runs a function on the main loop and waits for it.
type caller interface {
	Call(ctx context.Context, fn func()) error
}

// controller implements ipc.Controller by hopping onto the main loop for
// every window access.
type controller struct {
	loop    caller
	window  *dock.Window
	locator screen.Locator
	store   *settings.Store
	content content.Provider
	reload  func() error
}

var _ ipc.Controller = (*controller)(nil)

func (c *controller) call(fn func()) error {
	ctx, cancel := context.WithTimeout(context.Background(), controllerTimeout)
	defer cancel()
	if err := c.loop.Call(ctx, fn); err != nil {
		return fmt.Errorf("main loop busy: %w", err)
	}
	return nil
}

func (c *controller) SetDocking(d dock.Docking) error {
	return c.call(func() { c.window.SetDocking(d) })
}

func (c *controller) Toggle() error {
	return c.call(c.window.Toggle)
}

func (c *controller) Close() error {
	var err error
	callErr := c.call(func() {
		if c.window.IsClosed() {
			err = errors.New("window is already closed")
			return
		}
		c.window.Close()
	})
	return errors.Join(callErr, err)
}

func (c *controller) Open() error {
	return c.call(c.window.Open)
}

func (c *controller) Reload() error {
	if c.reload == nil {
		return errors.New("reload not supported")
	}
	var err error
	if callErr := c.call(func() { err = c.reload() }); callErr != nil {
		return callErr
	}
	return err
}

func (c *controller) Status() (ipc.StatusData, error) {
	var st dock.Status
	if err := c.call(func() { st = c.window.Status() }); err != nil {
		return ipc.StatusData{}, err
	}
	return statusData(st, c.content.Mounted()), nil
}

func statusData(st dock.Status, mounted bool) ipc.StatusData {
	data := ipc.StatusData{
		Docking:        string(st.Docking),
		Hiding:         st.Hiding.String(),
		Frame:          ipc.RectOf(st.Frame),
		Alpha:          st.Alpha,
		Monitor:        st.Monitor,
		Chrome:         st.Chrome,
		Animating:      st.Animating,
		Closed:         st.Closed,
		ContentMounted: mounted,
	}
	if !st.Deadline.IsZero() {
		deadline := st.Deadline
		data.HideDeadline = &deadline
	}
	return data
}

func (c *controller) Monitors() (ipc.MonitorsData, error) {
	var data ipc.MonitorsData
	var err error
	callErr := c.call(func() { data, err = monitorsData(c.locator) })
	return data, errors.Join(callErr, err)
}

// monitorsData lists every monitor and marks the one under the mouse.
func monitorsData(l screen.Locator) (ipc.MonitorsData, error) {
	var data ipc.MonitorsData
	monitors, err := screen.AllFrames(l)
	if err != nil {
		return data, err
	}
	mouse, mouseErr := l.MouseLocation()
	under, underErr := screen.AtMouseLocation(l)
	for _, m := range monitors {
		data.Monitors = append(data.Monitors, ipc.MonitorInfo{
			ID:           m.ID,
			Name:         m.Name,
			Frame:        ipc.RectOf(m.Frame),
			VisibleFrame: ipc.RectOf(m.VisibleFrame),
			UnderMouse:   underErr == nil && screen.Equal(m, under),
		})
	}
	if mouseErr == nil {
		data.MouseX, data.MouseY = mouse.X, mouse.Y
	}
	return data, nil
}

func (c *controller) Rects() (ipc.RectsData, error) {
	var data ipc.RectsData
	var err error
	callErr := c.call(func() {
		st := c.window.Status()
		data.Docking = string(st.Docking)
		data.Hiding = st.Hiding.String()
		data.Frame = ipc.RectOf(st.Frame)
		data.Content = ipc.RectOf(content.Frame(st.Frame.Size).Offset(st.Frame.MinX(), st.Frame.MinY()))

		dest, destErr := c.window.Destination()
		if destErr != nil {
			err = fmt.Errorf("destination: %w", destErr)
			return
		}
		data.Destination = ipc.RectOf(dest)

		det, detErr := c.window.Detection()
		if detErr != nil {
			err = fmt.Errorf("detection: %w", detErr)
			return
		}
		if det.IsInfinite() {
			data.Infinite = true
		} else {
			data.Detection = ipc.RectOf(det)
		}
	})
	return data, errors.Join(callErr, err)
}

func (c *controller) Settings() (settings.Values, error) {
	var v settings.Values
	var err error
	callErr := c.call(func() {
		ctx, cancel := context.WithTimeout(context.Background(), controllerTimeout)
		defer cancel()
		v, err = c.store.Snapshot(ctx)
	})
	return v, errors.Join(callErr, err)
}

// ApplySettings saves v and moves the window when the docking mode changed.
func (c *controller) ApplySettings(v settings.Values) error {
	var err error
	callErr := c.call(func() {
		ctx, cancel := context.WithTimeout(context.Background(), controllerTimeout)
		defer cancel()
		if err = c.store.Apply(ctx, v); err != nil {
			return
		}
		if v.Docking != c.window.Docking() {
			c.window.SetDocking(v.Docking)
		} else {
			c.window.RenewDeadline()
		}
	})
	return errors.Join(callErr, err)
}
