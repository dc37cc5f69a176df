package ics

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "touhoucal/internal/log"
	"touhoucal/internal/model"
)

const (
	defaultMaxOccurrencesPerEvent = 500
)

// ExpandConfig controls how recurrence expansion is performed.
type ExpandConfig struct {
	// Location anchors all-day dates. If nil, time.Local is used.
	Location *time.Location

	// RangeStart / RangeEnd define the inclusive window for occurrences.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps the expansion of a single rule. If zero,
	// defaultMaxOccurrencesPerEvent is used.
	MaxOccurrencesPerEvent int
}

// ExpandResult wraps the expanded occurrences and the UIDs that hit the cap.
type ExpandResult struct {
	Occurrences     []model.Occurrence
	TruncatedEvents []string
}

// ExpandOccurrences expands parsed events into dated occurrences within the
// configured range, sorted by date then summary.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	occurrences := make([]model.Occurrence, 0)
	for _, ev := range events {
		dates, hitCap, err := expandEvent(ev, cfg)
		if err != nil {
			appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
			return result, err
		}
		if hitCap {
			result.TruncatedEvents = append(result.TruncatedEvents, ev.UID)
			appLog.Warn("expand: truncated occurrences", "uid", ev.UID, "cap", cfg.MaxOccurrencesPerEvent)
		}
		for _, d := range dates {
			occurrences = append(occurrences, model.Occurrence{
				UID:     ev.UID,
				Summary: ev.Summary,
				Date:    d,
			})
		}
	}

	slices.SortStableFunc(occurrences, func(a, b model.Occurrence) int {
		return cmp.Or(a.Date.Compare(b.Date), strings.Compare(a.Summary, b.Summary))
	})

	result.Occurrences = occurrences
	return result, nil
}

func expandEvent(ev ParsedEvent, cfg ExpandConfig) ([]time.Time, bool, error) {
	start := ev.Start
	if ev.AllDay {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, cfg.Location)
	}

	// Single non-recurring event.
	if ev.RawRRule == "" {
		if start.Before(cfg.RangeStart) || start.After(cfg.RangeEnd) {
			return nil, false, nil
		}
		return []time.Time{start}, false, nil
	}

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		return nil, false, err
	}
	r.DTStart(start)

	dates := r.Between(cfg.RangeStart.In(cfg.Location), cfg.RangeEnd.In(cfg.Location), true)
	if len(dates) > cfg.MaxOccurrencesPerEvent {
		return dates[:cfg.MaxOccurrencesPerEvent], true, nil
	}
	return dates, false, nil
}
