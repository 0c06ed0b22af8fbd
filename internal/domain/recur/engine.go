package recur

import (
	"time"

	"github.com/rgareau/taskline/internal/domain"
)

// maxScanDays bounds the forward day-by-day scan used by the specificDays
// mode when looking for the next matching weekday.
const maxScanDays = 365

// weekdayNames maps time.Weekday (Sunday=0 .. Saturday=6) to the day names
// used by the client in RecurrenceSpec.SelectedDays.
var weekdayNames = [7]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// WeekdayName returns the client-facing name for a weekday.
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// Expand computes the full set of occurrence dates a spec generates,
// ascending and duplicate-free. fallback is used wherever the spec carries
// no start date. Expansion is finite, restartable, and side-effect free:
// calling it twice with the same inputs yields identical sequences.
//
// Per-mode behavior:
//   - dateRange: exactly one date (the start). The [start,end] span is the
//     display range of that single logical record; it is never expanded
//     into one record per day.
//   - daily: every date from start through end inclusive; just the start
//     date when no end is set.
//   - specificDays: every date in [start,end] whose weekday name is in
//     SelectedDays; an empty day set yields an empty sequence.
//   - legacyInterval: fallback through end (or just fallback) stepping by
//     Interval days, weeks, or calendar months depending on LegacyType.
//
// A nil spec, an unknown mode, or unparsable dates degrade to the single
// fallback date (or none, when even the fallback is unusable). Expand
// never returns an error.
func Expand(spec *domain.RecurrenceSpec, fallback string) []string {
	if spec == nil {
		return fallbackOnly(fallback)
	}

	switch spec.Mode {
	case domain.ModeDateRange:
		if spec.StartDate != "" {
			if _, err := domain.ParseDate(spec.StartDate); err == nil {
				return []string{spec.StartDate}
			}
		}
		return fallbackOnly(fallback)

	case domain.ModeDaily:
		return expandDaily(spec, fallback)

	case domain.ModeSpecificDays:
		return expandSpecificDays(spec)

	case domain.ModeLegacyInterval:
		return expandLegacy(spec, fallback)

	default:
		return fallbackOnly(fallback)
	}
}

// NextDueDate computes the due date of the successor of a completed
// occurrence. The second return value is false when the recurrence has
// ended and no successor exists: a nil spec or empty current date, a
// dateRange or daily spec advanced past its end date, a legacy spec
// advanced past its end date, or a specificDays spec with no matching
// weekday within the scan bound.
//
// Note the daily mode only ends when the spec carries an end date; without
// one it recurs forever, matching Expand's treatment of open-ended specs.
func NextDueDate(current string, spec *domain.RecurrenceSpec) (string, bool) {
	if spec == nil || current == "" {
		return "", false
	}
	cur, err := domain.ParseDate(current)
	if err != nil {
		return "", false
	}

	switch spec.Mode {
	case domain.ModeDaily, domain.ModeDateRange:
		next := cur.AddDate(0, 0, 1)
		if end, ok := parsedEnd(spec); ok && next.After(end) {
			return "", false
		}
		return domain.FormatDate(next), true

	case domain.ModeSpecificDays:
		if len(spec.SelectedDays) == 0 {
			return "", false
		}
		wanted := daySet(spec.SelectedDays)
		for i := 1; i <= maxScanDays; i++ {
			next := cur.AddDate(0, 0, i)
			if wanted[WeekdayName(next.Weekday())] {
				return domain.FormatDate(next), true
			}
		}
		return "", false

	case domain.ModeLegacyInterval:
		next := stepLegacy(cur, spec)
		if end, ok := parsedEnd(spec); ok && next.After(end) {
			return "", false
		}
		return domain.FormatDate(next), true

	default:
		return "", false
	}
}

func expandDaily(spec *domain.RecurrenceSpec, fallback string) []string {
	start, ok := parsedStart(spec, fallback)
	if !ok {
		return nil
	}
	end, hasEnd := parsedEnd(spec)
	if !hasEnd {
		return []string{domain.FormatDate(start)}
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, domain.FormatDate(d))
	}
	return dates
}

func expandSpecificDays(spec *domain.RecurrenceSpec) []string {
	if len(spec.SelectedDays) == 0 {
		return nil
	}
	start, ok := parsedStart(spec, "")
	if !ok {
		return nil
	}
	end, hasEnd := parsedEnd(spec)
	if !hasEnd {
		end = start
	}

	wanted := daySet(spec.SelectedDays)
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wanted[WeekdayName(d.Weekday())] {
			dates = append(dates, domain.FormatDate(d))
		}
	}
	return dates
}

func expandLegacy(spec *domain.RecurrenceSpec, fallback string) []string {
	start, err := domain.ParseDate(fallback)
	if err != nil {
		return nil
	}
	end, hasEnd := parsedEnd(spec)
	if !hasEnd {
		end = start
	}

	var dates []string
	for d := start; !d.After(end); d = stepLegacy(d, spec) {
		dates = append(dates, domain.FormatDate(d))
	}
	return dates
}

// stepLegacy advances a date by one legacy interval. Month steps use
// time.AddDate, so day-of-month overflow rolls into the following month
// (Jan 31 + 1 month = Mar 2/3) rather than clamping; this matches the
// native date semantics the legacy client was built against.
func stepLegacy(d time.Time, spec *domain.RecurrenceSpec) time.Time {
	interval := spec.Interval
	if interval < 1 {
		interval = 1
	}
	switch spec.LegacyType {
	case domain.LegacyWeekly:
		return d.AddDate(0, 0, 7*interval)
	case domain.LegacyMonthly:
		return d.AddDate(0, interval, 0)
	default: // daily, custom, or unset
		return d.AddDate(0, 0, interval)
	}
}

// parsedStart resolves the spec's start date, falling back to the given
// date when the spec has none. ok is false when neither parses.
func parsedStart(spec *domain.RecurrenceSpec, fallback string) (time.Time, bool) {
	if spec.StartDate != "" {
		if t, err := domain.ParseDate(spec.StartDate); err == nil {
			return t, true
		}
	}
	if fallback != "" {
		if t, err := domain.ParseDate(fallback); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parsedEnd(spec *domain.RecurrenceSpec) (time.Time, bool) {
	if spec.EndDate == "" {
		return time.Time{}, false
	}
	t, err := domain.ParseDate(spec.EndDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func daySet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func fallbackOnly(fallback string) []string {
	if fallback == "" {
		return nil
	}
	if _, err := domain.ParseDate(fallback); err != nil {
		return nil
	}
	return []string{fallback}
}
