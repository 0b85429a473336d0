// Package booking decides whether a requested slot falls inside the salon's
// opening hours. Dates and times are local; there is no timezone handling.
package booking

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TimeOfDay is a wall clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) seconds() int { return t.Hour*3600 + t.Minute*60 + t.Second }

func clockOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// ParseDate reads a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// ParseTime reads HH:MM or HH:MM:SS.
func ParseTime(s string) (TimeOfDay, error) {
	for _, layout := range []string{TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return clockOf(t), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time %q", s)
}

// Window is an inclusive range of opening hours.
type Window struct {
	Open  TimeOfDay
	Close TimeOfDay
}

func (w Window) contains(t TimeOfDay) bool {
	return t.seconds() >= w.Open.seconds() && t.seconds() <= w.Close.seconds()
}

var (
	weekdayWindow  = Window{Open: TimeOfDay{Hour: 8}, Close: TimeOfDay{Hour: 17}}
	saturdayWindow = Window{Open: TimeOfDay{Hour: 8}, Close: TimeOfDay{Hour: 14}}
)

// WindowFor returns the opening hours of day, or false when closed.
func WindowFor(day time.Weekday) (Window, bool) {
	switch day {
	case time.Sunday:
		return Window{}, false
	case time.Saturday:
		return saturdayWindow, true
	}
	return weekdayWindow, true
}

const (
	MsgPastDate     = "You cannot book past dates."
	MsgPastTime     = "You cannot book past times."
	MsgClosedSunday = "The salon is closed on Sundays."
)

// Validator checks slots against an injected clock.
type Validator struct {
	now func() time.Time
}

// NewValidator uses time.Now when now is nil.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Validate returns ok=true and an empty message for a bookable slot.
func (v *Validator) Validate(date time.Time, at TimeOfDay) (bool, string) {
	now := v.now()
	day, today := civil(date), civil(now)
	if day < today {
		return false, MsgPastDate
	}
	if day == today && at.seconds() < clockOf(now).seconds() {
		return false, MsgPastTime
	}
	w, open := WindowFor(date.Weekday())
	if !open {
		return false, MsgClosedSunday
	}
	if !w.contains(at) {
		days := "weekdays"
		if date.Weekday() == time.Saturday {
			days = "Saturdays"
		}
		return false, fmt.Sprintf("Reservations on %s are possible between %s and %s.", days, w.Open, w.Close)
	}
	return true, ""
}

// ValidateStrings parses date and time first; malformed input is rejected
// with a format hint.
func (v *Validator) ValidateStrings(date, at string) (bool, string) {
	d, err := ParseDate(date)
	if err != nil {
		return false, "Invalid date. Use the YYYY-MM-DD format."
	}
	t, err := ParseTime(at)
	if err != nil {
		return false, "Invalid time. Use the HH:MM format."
	}
	return v.Validate(d, t)
}

func civil(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
