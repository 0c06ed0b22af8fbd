package domain

import (
	"encoding/json"
	"testing"
)

func TestRecurrenceSpecUnmarshalNewShape(t *testing.T) {
	data := []byte(`{
		"mode": "specificDays",
		"startDate": "2025-11-24",
		"endDate": "2025-11-30",
		"selectedDays": ["Monday", "Friday"]
	}`)

	var spec RecurrenceSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if spec.Mode != ModeSpecificDays {
		t.Errorf("Expected mode %s, got %s", ModeSpecificDays, spec.Mode)
	}
	if spec.StartDate != "2025-11-24" || spec.EndDate != "2025-11-30" {
		t.Errorf("Expected dates preserved, got %s / %s", spec.StartDate, spec.EndDate)
	}
	if len(spec.SelectedDays) != 2 {
		t.Errorf("Expected 2 selected days, got %v", spec.SelectedDays)
	}
}

func TestRecurrenceSpecUnmarshalLegacyShape(t *testing.T) {
	// Old clients write only {type, interval}; the mode must be normalized.
	data := []byte(`{"type": "weekly", "interval": 2}`)

	var spec RecurrenceSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if spec.Mode != ModeLegacyInterval {
		t.Errorf("Expected legacy shape normalized to %s, got %s", ModeLegacyInterval, spec.Mode)
	}
	if spec.LegacyType != LegacyWeekly {
		t.Errorf("Expected legacy type weekly, got %s", spec.LegacyType)
	}
	if spec.Interval != 2 {
		t.Errorf("Expected interval 2, got %d", spec.Interval)
	}
}

func TestRecurrenceSpecUnmarshalDefaultsInterval(t *testing.T) {
	data := []byte(`{"type": "daily"}`)

	var spec RecurrenceSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if spec.Interval != 1 {
		t.Errorf("Expected interval to default to 1, got %d", spec.Interval)
	}
}

func TestRecurrenceSpecMarshalEchoesLegacyFields(t *testing.T) {
	spec := RecurrenceSpec{
		Mode:       ModeLegacyInterval,
		LegacyType: LegacyMonthly,
		Interval:   3,
	}

	data, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}

	if raw["mode"] != string(ModeLegacyInterval) {
		t.Errorf("Expected mode written, got %v", raw["mode"])
	}
	if raw["type"] != string(LegacyMonthly) {
		t.Errorf("Expected legacy type echoed for old clients, got %v", raw["type"])
	}
	if raw["interval"] != float64(3) {
		t.Errorf("Expected interval echoed, got %v", raw["interval"])
	}
}

func TestRecurrenceSpecMarshalOmitsLegacyFieldsForNewModes(t *testing.T) {
	spec := RecurrenceSpec{Mode: ModeDaily, StartDate: "2025-12-01"}

	data, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}

	if _, present := raw["type"]; present {
		t.Error("Expected no legacy type for a non-legacy mode")
	}
	if _, present := raw["interval"]; present {
		t.Error("Expected no interval for a non-legacy mode")
	}
}

func TestRecurrenceSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    RecurrenceSpec
		wantErr error
	}{
		{
			name: "valid daily",
			spec: RecurrenceSpec{Mode: ModeDaily, StartDate: "2025-12-01", EndDate: "2025-12-03"},
		},
		{
			name: "valid specific days",
			spec: RecurrenceSpec{
				Mode:         ModeSpecificDays,
				StartDate:    "2025-12-01",
				EndDate:      "2025-12-07",
				SelectedDays: []string{"Monday"},
			},
		},
		{
			name: "valid legacy",
			spec: RecurrenceSpec{Mode: ModeLegacyInterval, LegacyType: LegacyCustom, Interval: 3},
		},
		{
			name:    "unknown mode",
			spec:    RecurrenceSpec{Mode: "yearly"},
			wantErr: ErrInvalidRecurrenceMode,
		},
		{
			name:    "selected days outside specificDays",
			spec:    RecurrenceSpec{Mode: ModeDaily, SelectedDays: []string{"Monday"}},
			wantErr: ErrSelectedDaysNotAllowed,
		},
		{
			name:    "end before start",
			spec:    RecurrenceSpec{Mode: ModeDaily, StartDate: "2025-12-05", EndDate: "2025-12-01"},
			wantErr: ErrRecurrenceDateOrder,
		},
		{
			name:    "legacy missing type",
			spec:    RecurrenceSpec{Mode: ModeLegacyInterval, Interval: 1},
			wantErr: ErrInvalidLegacyType,
		},
		{
			name:    "legacy zero interval",
			spec:    RecurrenceSpec{Mode: ModeLegacyInterval, LegacyType: LegacyDaily},
			wantErr: ErrInvalidInterval,
		},
		{
			name:    "bad start date",
			spec:    RecurrenceSpec{Mode: ModeDaily, StartDate: "12/01/2025"},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
			} else if err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
