package core

import (
	"errors"
	"testing"
)

func TestAddMonthsClampsDay(t *testing.T) {
	tests := []struct {
		name string
		date Date
		n    int
		want string
	}{
		{"leap february", NewDate(2024, 1, 31), 1, "2024-02-29"},
		{"plain february", NewDate(2023, 1, 31), 1, "2023-02-28"},
		{"short month", NewDate(2024, 3, 31), 1, "2024-04-30"},
		{"no clamp needed", NewDate(2024, 1, 15), 1, "2024-02-15"},
		{"year rollover", NewDate(2024, 11, 30), 3, "2025-02-28"},
		{"zero months", NewDate(2024, 5, 10), 0, "2024-05-10"},
		{"negative", NewDate(2024, 3, 31), -1, "2024-02-29"},
		{"negative year rollover", NewDate(2024, 1, 15), -2, "2023-11-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.AddMonths(tt.n).String(); got != tt.want {
				t.Errorf("AddMonths(%d) = %s, want %s", tt.n, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 12 || d.Day() != 7 {
		t.Errorf("parsed %v, want 2024-12-07", d)
	}

	for _, bad := range []string{"", "2024-13-01", "2024-02-30", "07/12/2024", "2024-12-07T00:00:00"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(2025, 3); got != "2025-03" {
		t.Errorf("MonthKey = %s, want 2025-03", got)
	}
	if got := NewDate(2024, 12, 27).MonthKey(); got != "2024-12" {
		t.Errorf("Date.MonthKey = %s, want 2024-12", got)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2024, 2, 29},
		{2023, 2, 28},
		{2000, 2, 29},
		{1900, 2, 28},
		{2024, 4, 30},
		{2024, 12, 31},
	}
	for _, tt := range tests {
		if got := LastDayOfMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("LastDayOfMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestClampedDate(t *testing.T) {
	tests := []struct {
		year, month, day int
		want             string
	}{
		{2024, 13, 5, "2025-01-05"},
		{2024, 26, 5, "2026-02-05"},
		{2024, 2, 31, "2024-02-29"},
		{2024, 14, 31, "2025-02-28"},
		{2024, 6, 10, "2024-06-10"},
	}
	for _, tt := range tests {
		if got := ClampedDate(tt.year, tt.month, tt.day).String(); got != tt.want {
			t.Errorf("ClampedDate(%d, %d, %d) = %s, want %s", tt.year, tt.month, tt.day, got, tt.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, 1, 5)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2025-01-05"` {
		t.Errorf("marshal = %s, want %q", data, "2025-01-05")
	}

	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip changed date: %v != %v", back, d)
	}

	if err := back.UnmarshalJSON([]byte(`1234`)); err == nil {
		t.Error("expected error for non-string JSON date")
	}
}
