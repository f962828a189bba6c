// Package clinicday defines the clinic calendar day used for token
// numbering and the daily queue.
package clinicday

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Day is a calendar date in the clinic's timezone.
type Day struct {
	Year  int
	Month time.Month
	Date  int
	loc   *time.Location
}

// Start is midnight at the beginning of the day.
func (d Day) Start() time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, d.location())
}

// End is the first instant of the next day.
func (d Day) End() time.Time {
	return d.Start().AddDate(0, 0, 1)
}

// Before reports whether d is an earlier calendar day than other.
func (d Day) Before(other Day) bool {
	return d.Start().Before(other.Start())
}

func (d Day) String() string {
	return d.Start().Format(layout)
}

func (d Day) location() *time.Location {
	if d.loc == nil {
		return time.Local
	}
	return d.loc
}

// Calendar maps instants to clinic days.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

// NewCalendar builds a calendar for an IANA zone name. "Local" and "" use the
// server zone.
func NewCalendar(tz string) (*Calendar, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	return &Calendar{Location: loc, Now: time.Now}, nil
}

func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load clinic timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Today is the clinic day containing the calendar's current time.
func (c *Calendar) Today() Day {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return c.DayOf(now())
}

// DayOf is the clinic day containing t.
func (c *Calendar) DayOf(t time.Time) Day {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	return Day{Year: lt.Year(), Month: lt.Month(), Date: lt.Day(), loc: loc}
}

// Parse reads a YYYY-MM-DD date in the calendar's zone.
func (c *Calendar) Parse(s string) (Day, error) {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return Day{}, fmt.Errorf("invalid clinic day %q: %w", s, err)
	}
	return c.DayOf(t), nil
}
