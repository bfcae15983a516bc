//go:build darwin

package platform

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"

	"github.com/1broseidon/tbsim/internal/dock"
	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/screen"
)

var initAppKitOnce sync.Once
var initAppKitErr error

func initAppKit() error {
	initAppKitOnce.Do(func() {
		_, err := purego.Dlopen("/System/Library/Frameworks/Foundation.framework/Foundation", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			initAppKitErr = fmt.Errorf("failed to load Foundation: %w", err)
			return
		}
		_, err = purego.Dlopen("/System/Library/Frameworks/AppKit.framework/AppKit", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			initAppKitErr = fmt.Errorf("failed to load AppKit: %w", err)
		}
	})
	return initAppKitErr
}

type nsPoint struct {
	X, Y float64
}

type nsSize struct {
	Width, Height float64
}

type nsRect struct {
	Origin nsPoint
	Size   nsSize
}

func (r nsRect) rect() geometry.Rect {
	return geometry.NewRect(r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
}

// DarwinBackend reads the pointer and screens from AppKit. AppKit already
// uses a bottom-left origin, so no flipping is needed. Creating the window
// itself is not supported.
type DarwinBackend struct {
	done chan struct{}
	once sync.Once
}

var _ Backend = (*DarwinBackend)(nil)

// Open loads AppKit. display is ignored.
func Open(_ string) (Backend, error) {
	if err := initAppKit(); err != nil {
		return nil, err
	}
	return &DarwinBackend{done: make(chan struct{})}, nil
}

func (b *DarwinBackend) MouseLocation() (geometry.Point, error) {
	cls := objc.GetClass("NSEvent")
	if cls == 0 {
		return geometry.Point{}, fmt.Errorf("NSEvent class not found")
	}
	p := objc.Send[nsPoint](objc.ID(cls), objc.RegisterName("mouseLocation"))
	return geometry.Point{X: p.X, Y: p.Y}, nil
}

func (b *DarwinBackend) Monitors() ([]screen.Monitor, error) {
	cls := objc.GetClass("NSScreen")
	if cls == 0 {
		return nil, fmt.Errorf("NSScreen class not found")
	}
	screens := objc.ID(cls).Send(objc.RegisterName("screens"))
	if screens == 0 {
		return nil, fmt.Errorf("failed to list screens")
	}

	count := objc.Send[uint](screens, objc.RegisterName("count"))
	out := make([]screen.Monitor, 0, count)
	for i := uint(0); i < count; i++ {
		s := objc.Send[objc.ID](screens, objc.RegisterName("objectAtIndex:"), i)
		frame := objc.Send[nsRect](s, objc.RegisterName("frame"))
		visible := objc.Send[nsRect](s, objc.RegisterName("visibleFrame"))
		out = append(out, screen.Monitor{
			ID:           int(i),
			Name:         fmt.Sprintf("Display%d", i),
			Frame:        frame.rect(),
			VisibleFrame: visible.rect(),
		})
	}
	return out, nil
}

func (b *DarwinBackend) NewShell(ShellOptions, ShellEvents) (dock.Shell, error) {
	return nil, fmt.Errorf("simulator window: %w", ErrUnsupported)
}

func (b *DarwinBackend) Run() { <-b.done }

func (b *DarwinBackend) Stop() {
	b.once.Do(func() { close(b.done) })
}

func (b *DarwinBackend) Close() { b.Stop() }
