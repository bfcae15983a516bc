// Package testutil holds in-memory fakes shared by package tests.
package testutil

import (
	"sort"
	"time"
)

// Clock is a manually advanced clock.
type Clock struct {
	now time.Time
}

// NewClock returns a clock fixed at a stable instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type ticker struct {
	id       int
	interval time.Duration
	fn       func()
	active   bool
}

// Scheduler records recurring callbacks and fires them on demand.
type Scheduler struct {
	next    int
	tickers map[int]*ticker
}

func NewScheduler() *Scheduler {
	return &Scheduler{tickers: make(map[int]*ticker)}
}

// Every registers fn. The returned cancel func deactivates it.
func (s *Scheduler) Every(interval time.Duration, fn func()) func() {
	s.next++
	t := &ticker{id: s.next, interval: interval, fn: fn, active: true}
	s.tickers[t.id] = t
	return func() {
		t.active = false
		delete(s.tickers, t.id)
	}
}

// Active returns the number of live recurring callbacks.
func (s *Scheduler) Active() int {
	return len(s.tickers)
}

// Tick fires every live callback once, in registration order.
func (s *Scheduler) Tick() {
	ids := make([]int, 0, len(s.tickers))
	for id := range s.tickers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		t, ok := s.tickers[id]
		if !ok || !t.active {
			continue
		}
		t.fn()
	}
}

// Step advances clock by d and fires one tick.
func (s *Scheduler) Step(clock *Clock, d time.Duration) {
	clock.Advance(d)
	s.Tick()
}
