// Package poller periodically checks the mouse against the docked window
// and shows, hides or moves it.
package poller

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/tbsim/internal/animation"
	"github.com/1broseidon/tbsim/internal/dock"
	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/screen"
)

// DefaultInterval is the stock polling period.
const DefaultInterval = 500 * time.Millisecond

// Window is the part of dock.Window the poller drives.
type Window interface {
	IsClosed() bool
	Docking() dock.Docking
	Hiding() dock.Hiding
	PendingRelayout() bool
	Relayout()
	DetectionRects() ([]geometry.Rect, error)
	MonitorChanged() (bool, error)
	Teleport()
	SetHiding(h dock.Hiding)
	RenewDeadline()
	ResizeEnded() bool
	ReconcileResize()
	DeadlinePassed() bool
}

// Config holds configuration for the poller.
type Config struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Poller evaluates the window once per interval on the main loop.
type Poller struct {
	interval time.Duration
	window   Window
	locator  screen.Locator
	sched    animation.Scheduler
	logger   *slog.Logger

	cancel  func()
	ticking bool
}

// New creates a poller. Call Start to begin ticking.
func New(cfg Config, window Window, locator screen.Locator, sched animation.Scheduler) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		interval: interval,
		window:   window,
		locator:  locator,
		sched:    sched,
		logger:   logger,
	}
}

// Start registers the recurring tick. Calling Start twice is a no-op.
func (p *Poller) Start() {
	if p.cancel != nil {
		return
	}
	p.cancel = p.sched.Every(p.interval, p.Tick)
	p.logger.Info("poller started", "interval", p.interval)
}

// Stop cancels the recurring tick.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.cancel = nil
	p.logger.Info("poller stopped")
}

// Running reports whether the tick is registered.
func (p *Poller) Running() bool { return p.cancel != nil }

// Tick performs a single evaluation.
func (p *Poller) Tick() {
	if p.ticking {
		return
	}
	p.ticking = true
	defer func() { p.ticking = false }()

	// Recover from panics to keep the daemon alive
	defer func() {
		if err := recover(); err != nil {
			p.logger.Error("poller panic recovered", "error", err)
		}
	}()

	if err := p.tick(); err != nil {
		if dock.IsUnresolvable(err) {
			p.logger.Debug("poller: no monitor under pointer", "error", err)
			return
		}
		p.logger.Warn("poller tick failed", "error", err)
	}
}

func (p *Poller) tick() error {
	w := p.window
	if w.IsClosed() {
		return nil
	}

	// A placement deferred while no monitor resolved is retried in every
	// docking mode, floating included.
	if w.PendingRelayout() {
		w.Relayout()
	}
	if w.Docking() == dock.Floating {
		return nil
	}

	mouse, err := p.locator.MouseLocation()
	if err != nil {
		return fmt.Errorf("failed to read mouse location: %w", err)
	}
	rects, err := w.DetectionRects()
	if err != nil {
		return fmt.Errorf("failed to compute detection rects: %w", err)
	}

	switch {
	case detected(rects, mouse):
		if w.Hiding() == dock.Hidden {
			p.logger.Debug("poller: showing window")
			w.SetHiding(dock.Shown)
		} else {
			changed, err := w.MonitorChanged()
			if err != nil {
				return err
			}
			if changed {
				p.logger.Debug("poller: teleporting window")
				w.Teleport()
			}
		}
		w.RenewDeadline()

	case w.ResizeEnded():
		p.logger.Debug("poller: reconciling resize")
		w.ReconcileResize()
		w.RenewDeadline()

	case w.DeadlinePassed():
		if w.Hiding() == dock.Shown {
			p.logger.Debug("poller: hiding idle window")
		}
		w.SetHiding(dock.Hidden)
	}
	return nil
}

func detected(rects []geometry.Rect, mouse geometry.Point) bool {
	for _, r := range rects {
		if r.ContainsPoint(mouse) {
			return true
		}
	}
	return false
}
