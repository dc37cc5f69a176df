package ics

import (
	"strings"

	"github.com/samber/lo"

	"touhoucal/internal/model"
)

const (
	ProdID       = "-//Touhou Calendar//Touhou Calendar//EN"
	CalendarName = "Touhou Calendar"

	dateLayout = "20060102"
)

// BuildVEvent renders one event as a VEVENT block. Lines are folded
// individually and joined with CRLF; there is no trailing CRLF.
func BuildVEvent(ev model.Event) string {
	parts := []string{ev.Message, ev.Description()}
	if len(ev.Characters) > 0 {
		parts = append(parts, "Characters: "+strings.Join(ev.Characters, ", "))
	}
	escaped := lo.Map(parts, func(part string, _ int) string {
		return Escape(strings.TrimSpace(part))
	})
	description := strings.Join(escaped, `\n\n`)

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + UID(ev),
		"DTSTART;VALUE=DATE:" + ev.Date().Format(dateLayout),
		"SUMMARY:" + Escape(ev.Name),
		"DESCRIPTION:" + description,
		"RRULE:FREQ=YEARLY",
		"TRANSP:TRANSPARENT",
		"END:VEVENT",
	}
	return joinFolded(lines)
}

// BuildCalendar wraps rendered VEVENT blocks, in order, in a VCALENDAR.
// The result ends with CRLF.
func BuildCalendar(vevents []string) string {
	segments := make([]string, 0, len(vevents)+7)
	segments = append(segments,
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:"+ProdID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:"+CalendarName,
	)
	segments = append(segments, vevents...)
	segments = append(segments, "END:VCALENDAR")

	return strings.Join(segments, crlf) + crlf
}

// Build renders the complete calendar for events, keeping their order.
func Build(events []model.Event) string {
	return BuildCalendar(lo.Map(events, func(ev model.Event, _ int) string {
		return BuildVEvent(ev)
	}))
}

func joinFolded(lines []string) string {
	return strings.Join(lo.Map(lines, func(line string, _ int) string {
		return FoldLine(line)
	}), crlf)
}
