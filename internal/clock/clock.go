// Package clock supplies the current day to code that must not read the
// system clock directly.
package clock

import (
	"time"

	"github.com/mmynk/budgetwiser/internal/models"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// FixedDay is a Fixed clock at noon UTC on day.
func FixedDay(day models.Date) Fixed {
	return Fixed(day.Noon())
}

// Today is the calendar day c is in, as seen from loc.
func Today(c Clock, loc *time.Location) models.Date {
	if loc == nil {
		loc = time.UTC
	}
	return models.DateOf(c.Now().In(loc))
}

// Calendar answers "what day is it" for one time zone.
type Calendar struct {
	clock Clock
	loc   *time.Location
}

// NewCalendar pins c to loc. A nil loc means UTC.
func NewCalendar(c Clock, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{clock: c, loc: loc}
}

func (c Calendar) Today() models.Date {
	return Today(c.clock, c.loc)
}

func (c Calendar) Location() *time.Location {
	return c.loc
}
