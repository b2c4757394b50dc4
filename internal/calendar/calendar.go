// Package calendar maps wall-clock timestamps to trading "session dates"
// under a per-weekday UTC boundary schedule: a configurable hour:minute
// per weekday rather than a fixed day/week/month bucket.
package calendar

import (
	"time"

	"github.com/forrestang/RenkoDiscovery/internal/errs"
)

// Boundary is the UTC hour:minute at which a weekday's session closes.
type Boundary struct {
	Hour   int
	Minute int
}

// Schedule maps weekday (time.Monday..time.Friday) to its close boundary.
// Saturday and Sunday are never keyed; bars on those days always belong to
// the following Monday's session.
type Schedule map[time.Weekday]Boundary

// DefaultSchedule returns the standard default: every weekday closes at
// 22:00 UTC.
func DefaultSchedule() Schedule {
	b := Boundary{Hour: 22, Minute: 0}
	return Schedule{
		time.Monday:    b,
		time.Tuesday:   b,
		time.Wednesday: b,
		time.Thursday:  b,
		time.Friday:    b,
	}
}

// Validate checks that every configured boundary is a sane time-of-day.
func (s Schedule) Validate() error {
	for day, b := range s {
		if b.Hour < 0 || b.Hour > 23 || b.Minute < 0 || b.Minute > 59 {
			return errs.New(errs.InvalidConfig, "session_schedule: invalid boundary %02d:%02d for %s", b.Hour, b.Minute, day)
		}
	}
	return nil
}

// SessionDate extracts the weekday of t (UTC). Weekend bars roll forward to
// the following Monday. Weekday bars compare their minute-of-day against
// that weekday's boundary: strictly before the boundary belongs to today's
// session; at or after, it belongs to the next non-weekend day's session.
func SessionDate(t time.Time, schedule Schedule) time.Time {
	t = t.UTC()
	dow := t.Weekday()

	if dow == time.Saturday || dow == time.Sunday {
		return dateOnly(nextMonday(t))
	}

	boundary, ok := schedule[dow]
	if !ok {
		boundary = Boundary{Hour: 22, Minute: 0}
	}

	minuteOfDay := t.Hour()*60 + t.Minute()
	boundaryMin := boundary.Hour*60 + boundary.Minute

	if minuteOfDay < boundaryMin {
		return dateOnly(t)
	}

	next := t.AddDate(0, 0, 1)
	return dateOnly(skipWeekend(next))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func skipWeekend(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}

func nextMonday(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}
