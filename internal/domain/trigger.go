package domain

import "time"

type TriggerKind string

const (
	TriggerNone     TriggerKind = "none"
	TriggerCalendar TriggerKind = "calendar"
	TriggerInterval TriggerKind = "interval"
)

// Trigger describes when a pending notification fires.
// Calendar triggers carry their already resolved next occurrence. Repeating
// triggers also carry the period used to re-arm them after delivery.
type Trigger struct {
	Kind     TriggerKind   `json:"kind"`
	Repeats  bool          `json:"repeats,omitempty"`
	NextFire time.Time     `json:"next_fire,omitempty"`
	Interval time.Duration `json:"interval,omitempty"`
	Period   time.Duration `json:"period,omitempty"`
}

func CalendarTrigger(at time.Time) Trigger {
	return Trigger{Kind: TriggerCalendar, NextFire: at}
}

func RepeatingCalendarTrigger(next time.Time, period time.Duration) Trigger {
	return Trigger{Kind: TriggerCalendar, Repeats: true, NextFire: next, Period: period}
}

func IntervalTrigger(d time.Duration) Trigger {
	return Trigger{Kind: TriggerInterval, Interval: d}
}

// NextFireDate returns the single next fire time of a non-repeating trigger.
// Repeating triggers and triggers without a schedule report false.
func (t Trigger) NextFireDate(now time.Time) (time.Time, bool) {
	if t.Repeats {
		return time.Time{}, false
	}

	switch t.Kind {
	case TriggerCalendar:
		if t.NextFire.IsZero() {
			return time.Time{}, false
		}
		return t.NextFire, true
	case TriggerInterval:
		if t.Interval <= 0 {
			return time.Time{}, false
		}
		return now.Add(t.Interval), true
	default:
		return time.Time{}, false
	}
}

// DispatchTime is when the delivery task for this trigger should run,
// regardless of repetition.
func (t Trigger) DispatchTime(now time.Time) (time.Time, bool) {
	switch t.Kind {
	case TriggerCalendar:
		if t.NextFire.IsZero() {
			return time.Time{}, false
		}
		return t.NextFire, true
	case TriggerInterval:
		if t.Interval <= 0 {
			return time.Time{}, false
		}
		return now.Add(t.Interval), true
	default:
		return time.Time{}, false
	}
}

// Advance moves a repeating trigger to its first occurrence after now.
func (t Trigger) Advance(now time.Time) (Trigger, bool) {
	if !t.Repeats || t.Period <= 0 || t.NextFire.IsZero() {
		return t, false
	}

	next := t.NextFire
	// Sub saturates past ~292 years, so very old starts take a few rounds.
	for !next.After(now) {
		steps := max(now.Sub(next)/t.Period, 1)
		next = next.Add(steps * t.Period)
	}
	t.NextFire = next

	return t, true
}
