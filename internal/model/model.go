package model

import (
	"fmt"
	"time"
)

// ReferenceYear anchors every month/day pair to a concrete date. It must be a
// leap year so that February 29 stays representable; only month and day reach
// the yearly recurrence.
const ReferenceYear = 2024

// Citation is one source reference attached to an event. Citations are kept
// verbatim from the definition files and are not rendered into the calendar.
type Citation map[string]any

// Event is one calendar entry as defined in a month file. Events are built
// once by the loader and never mutated afterwards.
type Event struct {
	Month int `yaml:"month" validate:"min=1,max=12"`
	Day   int `yaml:"day" validate:"min=1,max=31"`

	Name        string `yaml:"name" validate:"required"`
	Message     string `yaml:"message" validate:"required"`
	Explanation string `yaml:"explanation"`

	// ExplanationShort, when set, replaces Explanation in the rendered
	// calendar. The full text stays available for documentation output.
	ExplanationShort *string `yaml:"explanation_short,omitempty"`

	Characters []string   `yaml:"characters,omitempty"`
	Citations  []Citation `yaml:"citations,omitempty"`
}

// Description returns the explanation text used for rendering.
func (e Event) Description() string {
	if e.ExplanationShort != nil && *e.ExplanationShort != "" {
		return *e.ExplanationShort
	}
	return e.Explanation
}

// Date returns the event's day in ReferenceYear (UTC midnight).
func (e Event) Date() time.Time {
	return time.Date(ReferenceYear, time.Month(e.Month), e.Day, 0, 0, 0, 0, time.UTC)
}

// ValidDate reports whether Month/Day name a real day in ReferenceYear.
func (e Event) ValidDate() bool {
	if e.Month < 1 || e.Month > 12 || e.Day < 1 {
		return false
	}
	d := e.Date()
	return d.Month() == time.Month(e.Month) && d.Day() == e.Day
}

// Key is the "MM/DD" label used in summaries.
func (e Event) Key() string {
	return fmt.Sprintf("%02d/%02d", e.Month, e.Day)
}

func (e Event) String() string {
	return e.Key() + " - " + e.Name
}

// Occurrence represents a single concrete instance of a recurring calendar
// entry after recurrence expansion.
type Occurrence struct {
	UID     string
	Summary string

	// Date is the all-day start in the display location.
	Date time.Time
}
