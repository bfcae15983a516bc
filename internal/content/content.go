// Package content describes the Touch Bar content hosted in the window. The
// pixels themselves come from elsewhere; this package only manages the
// mount lifecycle and the content geometry.
package content

import (
	"log/slog"
	"sync"

	"github.com/1broseidon/tbsim/internal/geometry"
)

// Native Touch Bar resolution and the margin around it inside the window.
const (
	Width  = 1004
	Height = 30
	Inset  = 5
)

// Provider is content that can be attached to and detached from the window.
type Provider interface {
	Mount() error
	Unmount()
	Mounted() bool
}

// AspectRatio is width over height of the content.
func AspectRatio() float64 { return float64(Width) / float64(Height) }

// Frame returns the content rect inside a window of the given size: inset
// on every edge, as wide as possible while keeping the aspect ratio, and
// centered vertically.
func Frame(window geometry.Size) geometry.Rect {
	w := window.Width - 2*Inset
	h := window.Height - 2*Inset
	if w <= 0 || h <= 0 {
		return geometry.Rect{}
	}
	if fit := h * AspectRatio(); fit < w {
		w = fit
	} else {
		h = w / AspectRatio()
	}
	return geometry.NewRect(
		(window.Width-w)/2,
		(window.Height-h)/2,
		w, h,
	)
}

// Placeholder is a Provider without pixels. It keeps the lifecycle
// observable for the daemon and for status queries.
type Placeholder struct {
	mu      sync.Mutex
	mounted bool
	mounts  int
	logger  *slog.Logger
}

func NewPlaceholder(logger *slog.Logger) *Placeholder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Placeholder{logger: logger}
}

func (p *Placeholder) Mount() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mounted {
		return nil
	}
	p.mounted = true
	p.mounts++
	p.logger.Debug("content mounted", "mounts", p.mounts)
	return nil
}

func (p *Placeholder) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted {
		return
	}
	p.mounted = false
	p.logger.Debug("content unmounted")
}

func (p *Placeholder) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}
