package core

import (
	"errors"
	"fmt"
	"time"
)

// Date is a naive calendar date (no time component, no timezone semantics).
// Ledger dates are billing dates in the couple's local calendar.
type Date struct {
	time.Time
}

var ErrInvalidDate = errors.New("invalid date")

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the 1-based month.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

// MonthKey returns the canonical YYYY-MM key of the date's month.
func (d Date) MonthKey() string {
	return MonthKey(d.Year(), d.Month())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
	return nil
}

// AddMonths advances the date by n calendar months (n may be negative).
// The day of month is clamped to the target month's last valid day, so
// Jan 31 + 1 month is Feb 28 (29 in leap years).
func (d Date) AddMonths(n int) Date {
	year, day := d.Year(), d.Day()
	months := d.Month() - 1 + n
	year += months / 12
	months %= 12
	if months < 0 {
		months += 12
		year--
	}
	month := months + 1
	if last := LastDayOfMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// MarshalJSON encodes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDate, s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthKey returns the canonical zero-padded YYYY-MM key.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthKey splits a YYYY-MM key into year and month.
func ParseMonthKey(key string) (year, month int, err error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month key %q", ErrInvalidDate, key)
	}
	return t.Year(), int(t.Month()), nil
}

// LastDayOfMonth returns the number of days in the given month,
// accounting for leap years.
func LastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate builds a date at (year, month, day) with the month overflow
// normalized (month 13 rolls into January of the next year, any number of
// times) and the day clamped to the resolved month's last valid day.
// The day must be at least 1; card validation rejects anything lower
// before it reaches here.
func ClampedDate(year, month, day int) Date {
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	if last := LastDayOfMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}
