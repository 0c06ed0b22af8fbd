package recur

import (
	"fmt"
	"strings"

	"github.com/rgareau/taskline/internal/domain"
)

// Describe renders a short human-readable summary of a recurrence spec for
// display: "Daily", "Mon, Wed, Fri", "2025-12-01 → 2025-12-05",
// "Every 3 days (Custom)". An unknown or nil spec yields "Does not repeat".
func Describe(spec *domain.RecurrenceSpec) string {
	if spec == nil {
		return "Does not repeat"
	}

	switch spec.Mode {
	case domain.ModeDaily:
		return "Daily"

	case domain.ModeDateRange:
		if spec.StartDate != "" && spec.EndDate != "" {
			return spec.StartDate + " → " + spec.EndDate
		}
		return "Date range"

	case domain.ModeSpecificDays:
		if len(spec.SelectedDays) == 0 {
			return "Does not repeat"
		}
		short := make([]string, len(spec.SelectedDays))
		for i, day := range spec.SelectedDays {
			if len(day) > 3 {
				short[i] = day[:3]
			} else {
				short[i] = day
			}
		}
		return strings.Join(short, ", ")

	case domain.ModeLegacyInterval:
		return describeLegacy(spec)

	default:
		return "Does not repeat"
	}
}

func describeLegacy(spec *domain.RecurrenceSpec) string {
	interval := spec.Interval
	if interval < 1 {
		interval = 1
	}

	unit := "day"
	switch spec.LegacyType {
	case domain.LegacyWeekly:
		unit = "week"
	case domain.LegacyMonthly:
		unit = "month"
	}

	if interval == 1 {
		switch spec.LegacyType {
		case domain.LegacyDaily:
			return "Daily"
		case domain.LegacyWeekly:
			return "Weekly"
		case domain.LegacyMonthly:
			return "Monthly"
		}
	}

	if interval != 1 {
		unit += "s"
	}
	label := fmt.Sprintf("Every %d %s", interval, unit)
	if spec.LegacyType == domain.LegacyCustom {
		label += " (Custom)"
	}
	return label
}
