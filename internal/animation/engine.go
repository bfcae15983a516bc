// Package animation drives time-based interpolation on the main loop.
package animation

import (
	"time"
)

// Func receives linear progress in [0,1] and the eased value for it.
type Func func(progress, eased float64)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler runs fn every interval until the returned cancel func is called.
// Callbacks must run on the same goroutine that calls the engine.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = time.Second / 60

type job struct {
	duration time.Duration
	started  time.Time
	fn       Func
	progress float64
}

// Engine runs at most one animation job at a time. It is not safe for
// concurrent use; all calls must happen on the main loop.
type Engine struct {
	clock    Clock
	sched    Scheduler
	interval time.Duration

	job    *job
	cancel func()
}

// NewEngine creates an idle engine sampling at interval.
func NewEngine(clock Clock, sched Scheduler, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Engine{clock: clock, sched: sched, interval: interval}
}

// Start begins fn over duration. A running job is replaced without its
// callback seeing a terminal frame.
func (e *Engine) Start(duration time.Duration, fn Func) {
	e.job = &job{
		duration: duration,
		started:  e.clock.Now(),
		fn:       fn,
	}
	if e.cancel == nil {
		e.cancel = e.sched.Every(e.interval, e.tick)
	}
}

// Stop halts the running job. With fastForward the callback is invoked once
// with progress 1.0 first.
func (e *Engine) Stop(fastForward bool) {
	j := e.job
	e.job = nil
	e.stopTicker()
	if fastForward && j != nil {
		j.progress = 1
		j.fn(1, 1)
	}
}

// Running reports whether a job is active.
func (e *Engine) Running() bool {
	return e.job != nil
}

// Progress returns the last sampled linear progress of the active job, or 0
// when idle.
func (e *Engine) Progress() float64 {
	if e.job == nil {
		return 0
	}
	return e.job.progress
}

func (e *Engine) tick() {
	j := e.job
	if j == nil {
		e.stopTicker()
		return
	}

	p := 1.0
	if j.duration > 0 {
		p = clamp(float64(e.clock.Now().Sub(j.started)) / float64(j.duration))
	}
	j.progress = p
	j.fn(p, Ease(p))

	// The callback may have started a replacement job.
	if p >= 1 && e.job == j {
		e.job = nil
		e.stopTicker()
	}
}

func (e *Engine) stopTicker() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Ease is the ease-in-ease-out curve used for every animation.
func Ease(t float64) float64 {
	t = clamp(t)
	return t * t * (3 - 2*t)
}

// Compose returns a Func calling each of fns in order.
func Compose(fns ...Func) Func {
	return func(progress, eased float64) {
		for _, fn := range fns {
			if fn != nil {
				fn(progress, eased)
			}
		}
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
