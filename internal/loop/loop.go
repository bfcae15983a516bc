// Package loop provides the single goroutine on which window state changes.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// ErrStopped is returned by Call once Run has returned.
var ErrStopped = errors.New("loop: stopped")

// Loop serializes posted functions onto the goroutine running Run.
type Loop struct {
	queue  chan func()
	done   chan struct{}
	stop   sync.Once
	logger *slog.Logger
}

// New creates a loop with a buffered queue.
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		queue:  make(chan func(), 256),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Post queues fn to run on the loop. It is safe to call from any goroutine.
// Functions posted after Run returns are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
	case l.queue <- fn:
	}
}

// Call runs fn on the loop and waits for it to finish. It returns
// ErrStopped when the loop stops before fn ran.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Every runs fn on the loop every interval until cancel is called. cancel
// must be called from the loop goroutine.
func (l *Loop) Every(interval time.Duration, fn func()) (cancel func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	// cancelled is only touched on the loop goroutine.
	cancelled := false

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				l.Post(func() {
					if !cancelled {
						fn()
					}
				})
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancelled = true
			ticker.Stop()
			close(done)
		})
	}
}

// Run executes posted functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer l.stop.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}
