package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// Recurrence validation errors
var (
	ErrInvalidRecurrenceMode  = errors.New("invalid recurrence mode")
	ErrInvalidLegacyType      = errors.New("invalid legacy recurrence type")
	ErrInvalidInterval        = errors.New("recurrence interval must be positive")
	ErrRecurrenceDateOrder    = errors.New("recurrence end date cannot be before start date")
	ErrSelectedDaysNotAllowed = errors.New("selected days are only valid for the specificDays mode")
)

// RecurrenceMode identifies how a todo repeats. The set of modes is closed;
// the legacy client's type/interval shape is normalized to ModeLegacyInterval
// at the JSON boundary so internal logic only ever switches on these values.
type RecurrenceMode string

// Known recurrence modes.
const (
	ModeDaily          RecurrenceMode = "daily"
	ModeDateRange      RecurrenceMode = "dateRange"
	ModeSpecificDays   RecurrenceMode = "specificDays"
	ModeLegacyInterval RecurrenceMode = "legacyInterval"
)

// LegacyType is the repetition unit of the legacy interval mode.
type LegacyType string

// Legacy repetition units.
const (
	LegacyDaily   LegacyType = "daily"
	LegacyWeekly  LegacyType = "weekly"
	LegacyMonthly LegacyType = "monthly"
	LegacyCustom  LegacyType = "custom"
)

// DateLayout is the wire format for all calendar dates handled by the
// recurrence subsystem. Dates carry no time zone; arithmetic is performed
// at UTC midnight to avoid drift at day boundaries.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate renders a time as a YYYY-MM-DD calendar date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// RecurrenceSpec is the immutable rule describing how a todo repeats.
// A spec is created once, attached to one or more todos, and copied
// unchanged onto every successor in a recurrence chain.
type RecurrenceSpec struct {
	Mode         RecurrenceMode
	StartDate    string // YYYY-MM-DD, optional
	EndDate      string // YYYY-MM-DD, optional; when set, >= StartDate
	SelectedDays []string
	LegacyType   LegacyType
	Interval     int
}

// recurrenceJSON is the persisted shape of a RecurrenceSpec. The legacy
// type/interval fields and the newer mode field coexist for backward
// compatibility: old clients write only {type, interval}, new clients
// write mode. Either shape must be accepted on read.
type recurrenceJSON struct {
	Mode         RecurrenceMode `json:"mode,omitempty"`
	StartDate    string         `json:"startDate,omitempty"`
	EndDate      string         `json:"endDate,omitempty"`
	SelectedDays []string       `json:"selectedDays,omitempty"`
	LegacyType   LegacyType     `json:"type,omitempty"`
	Interval     int            `json:"interval,omitempty"`
}

// UnmarshalJSON accepts both recurrence wire shapes and normalizes the
// legacy {type, interval} form to ModeLegacyInterval.
func (s *RecurrenceSpec) UnmarshalJSON(data []byte) error {
	var raw recurrenceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	mode := raw.Mode
	if mode == "" && raw.LegacyType != "" {
		mode = ModeLegacyInterval
	}

	interval := raw.Interval
	if interval == 0 {
		interval = 1
	}

	*s = RecurrenceSpec{
		Mode:         mode,
		StartDate:    raw.StartDate,
		EndDate:      raw.EndDate,
		SelectedDays: raw.SelectedDays,
		LegacyType:   raw.LegacyType,
		Interval:     interval,
	}
	return nil
}

// MarshalJSON always writes the mode field; the legacy type/interval pair is
// echoed alongside it for the legacy interval mode so old clients keep working.
func (s RecurrenceSpec) MarshalJSON() ([]byte, error) {
	raw := recurrenceJSON{
		Mode:         s.Mode,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		SelectedDays: s.SelectedDays,
	}
	if s.Mode == ModeLegacyInterval {
		raw.LegacyType = s.LegacyType
		raw.Interval = s.Interval
	}
	return json.Marshal(raw)
}

// Validate checks the mode/field invariants of the spec: exactly one known
// mode, selected days only for specificDays, legacy fields only for the
// legacy mode, a positive interval, and end date not before start date.
func (s *RecurrenceSpec) Validate() error {
	switch s.Mode {
	case ModeDaily, ModeDateRange, ModeSpecificDays, ModeLegacyInterval:
	default:
		return ErrInvalidRecurrenceMode
	}

	if len(s.SelectedDays) > 0 && s.Mode != ModeSpecificDays {
		return ErrSelectedDaysNotAllowed
	}

	if s.Mode == ModeLegacyInterval {
		switch s.LegacyType {
		case LegacyDaily, LegacyWeekly, LegacyMonthly, LegacyCustom:
		default:
			return ErrInvalidLegacyType
		}
		if s.Interval < 1 {
			return ErrInvalidInterval
		}
	}

	if s.StartDate != "" {
		if _, err := ParseDate(s.StartDate); err != nil {
			return err
		}
	}
	if s.EndDate != "" {
		end, err := ParseDate(s.EndDate)
		if err != nil {
			return err
		}
		if s.StartDate != "" {
			start, err := ParseDate(s.StartDate)
			if err != nil {
				return err
			}
			if end.Before(start) {
				return ErrRecurrenceDateOrder
			}
		}
	}

	return nil
}
