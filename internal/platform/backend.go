// Package platform binds the docking core to a concrete window system.
package platform

import (
	"errors"
	"time"

	"github.com/1broseidon/tbsim/internal/dock"
	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/screen"
)

// ErrUnsupported is returned for operations the current system cannot do.
var ErrUnsupported = errors.New("platform: unsupported on this system")

// DefaultResizeSettle is how long after the last user resize the shell
// still reports a live resize.
const DefaultResizeSettle = 300 * time.Millisecond

// ShellOptions describes the simulator window.
type ShellOptions struct {
	Title string
	Class string
	Frame geometry.Rect
	// Aspect of the content view, and the margin around it. Zero leaves
	// the ratio free.
	AspectWidth  int
	AspectHeight int
	Margin       int
	AllDesktops  bool
	ResizeSettle time.Duration
}

// ShellEvents are the notifications a shell delivers. Post must hand the
// function to the main loop; every other callback runs there.
type ShellEvents struct {
	Post      func(func())
	OnResize  func()
	OnClose   func()
	OnVisible func(visible bool)
}

// Backend is a window system: a screen.Locator that can create the
// simulator window.
type Backend interface {
	screen.Locator
	NewShell(opts ShellOptions, events ShellEvents) (dock.Shell, error)
	// Run blocks delivering window system events until Stop.
	Run()
	Stop()
	Close()
}
