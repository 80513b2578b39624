package utils

import (
	"errors"
	"time"
)

var (
	ErrNotInFuture     = errors.New("date must be in the future")
	ErrWeekend         = errors.New("bookings are not available on weekends")
	ErrOutsideBusiness = errors.New("bookings are only available between 08:00 and 18:00")
)

// BusinessHours describes when the shop takes bookings: weekdays between
// Open and Close inclusive, in Location.
type BusinessHours struct {
	Location *time.Location
	Open     time.Duration
	Close    time.Duration
}

func NewBusinessHours(loc *time.Location) BusinessHours {
	if loc == nil {
		loc = time.UTC
	}
	return BusinessHours{
		Location: loc,
		Open:     8 * time.Hour,
		Close:    18 * time.Hour,
	}
}

// Check validates a booking instant. The future check applies only when
// requireFuture is set.
func (b BusinessHours) Check(date, now time.Time, requireFuture bool) error {
	if requireFuture && !date.After(now) {
		return ErrNotInFuture
	}

	local := date.In(b.Location)
	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return ErrWeekend
	}

	// wall clock, not elapsed time: midnight may not exist on DST days
	h, m, sec := local.Clock()
	clock := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(local.Nanosecond())
	if clock < b.Open || clock > b.Close {
		return ErrOutsideBusiness
	}

	return nil
}

// Day returns the [start, end) bounds of the business day containing t.
func (b BusinessHours) Day(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t.In(b.Location))
	return start, start.AddDate(0, 0, 1)
}
