package ics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "touhoucal/internal/log"
	"touhoucal/internal/model"
)

// ParsedEvent is a VEVENT read back from an ICS payload.
type ParsedEvent struct {
	UID         string
	Summary     string
	Description string

	// Start holds the DTSTART date at UTC midnight for all-day events.
	Start  time.Time
	AllDay bool

	RawRRule string
}

// ParseICS parses an ICS payload into a list of ParsedEvent.
//
//   - Only VEVENT components are considered.
//   - All-day events are detected from VALUE=DATE or a value without 'T'.
//   - RRULE is kept raw; ExpandOccurrences turns it into dates.
func ParseICS(body string) ([]ParsedEvent, error) {
	if body == "" {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	events := make([]ParsedEvent, 0)
	for i, comp := range cal.Events() {
		ev, err := parseVEvent(comp)
		if err != nil {
			return nil, fmt.Errorf("vevent %d: %w", i+1, err)
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (ParsedEvent, error) {
	var out ParsedEvent

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = unescapeText(p.Value)
	}

	dtStartProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStartProp == nil {
		return out, fmt.Errorf("%s: missing DTSTART", out.UID)
	}
	if vs, ok := dtStartProp.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		out.AllDay = true
	}
	if !strings.Contains(dtStartProp.Value, "T") {
		out.AllDay = true
	}
	start, err := parseICSTime(dtStartProp.Value)
	if err != nil {
		return out, fmt.Errorf("%s: DTSTART: %w", out.UID, err)
	}
	out.Start = start

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	return out, nil
}

var textUnescaper = strings.NewReplacer(
	`\\`, `\`,
	`\;`, `;`,
	`\,`, `,`,
	`\n`, "\n",
	`\N`, "\n",
)

// unescapeText reverses Escape. Values without backslashes pass through
// unchanged.
func unescapeText(v string) string {
	return textUnescaper.Replace(v)
}

// parseICSTime parses a basic DATE or DATE-TIME value. Floating values are
// read as UTC; callers re-anchor all-day dates in their display location.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.Parse("20060102T150405", v)
	default:
		return time.Parse(dateLayout, v)
	}
}

// Verify checks that content is a calendar carrying exactly one yearly
// all-day VEVENT per event, in the same order, with the expected UID and date.
func Verify(content string, events []model.Event) error {
	parsed, err := ParseICS(content)
	if err != nil {
		return err
	}
	if len(parsed) != len(events) {
		return fmt.Errorf("calendar has %d events, want %d", len(parsed), len(events))
	}

	for i, ev := range events {
		got := parsed[i]
		if want := UID(ev); got.UID != want {
			return fmt.Errorf("event %d (%s): UID %s, want %s", i+1, ev, got.UID, want)
		}
		if !got.AllDay || got.Start.Format(dateLayout) != ev.Date().Format(dateLayout) {
			return fmt.Errorf("event %d (%s): DTSTART %s, want all-day %s", i+1, ev, got.Start.Format(dateLayout), ev.Date().Format(dateLayout))
		}
		if got.RawRRule != "FREQ=YEARLY" {
			return fmt.Errorf("event %d (%s): RRULE %q, want FREQ=YEARLY", i+1, ev, got.RawRRule)
		}
	}
	return nil
}
