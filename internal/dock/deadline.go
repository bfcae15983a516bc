package dock

import "time"

// Deadline is the instant after which an idle docked window hides. The
// zero value never passes.
type Deadline struct {
	at       time.Time
	infinite bool
}

func InfiniteDeadline() Deadline { return Deadline{infinite: true} }

func DeadlineAt(t time.Time) Deadline { return Deadline{at: t} }

func (d Deadline) IsInfinite() bool { return d.infinite || d.at.IsZero() }

// Passed reports whether now is past the deadline.
func (d Deadline) Passed(now time.Time) bool {
	if d.IsInfinite() {
		return false
	}
	return now.After(d.at)
}

// Time returns the deadline instant, zero when infinite.
func (d Deadline) Time() time.Time {
	if d.IsInfinite() {
		return time.Time{}
	}
	return d.at
}
