package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// dateLayout is the fixed-width ISO calendar date layout.
// Because it is zero-padded, lexicographic comparison of the string form
// is equivalent to chronological comparison.
const dateLayout = "2006-01-02"

// Date is a civil calendar date with day granularity (no time zone, no
// time of day). All contract day-accounting operates on this type; using
// time.Time for it invites DST and timezone off-by-one bugs.
type Date struct {
	value string
}

// NewDate creates a Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{value: time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(dateLayout)}
}

// ParseDate parses a Date from its YYYY-MM-DD string form
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{value: t.Format(dateLayout)}, nil
}

// DateOf truncates a time.Time to its calendar date in the given location
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return Date{value: t.In(loc).Format(dateLayout)}
}

// Today returns the current calendar date in the given location
func Today(loc *time.Location) Date {
	return DateOf(time.Now(), loc)
}

// IsZero reports whether the date is the zero value
func (d Date) IsZero() bool {
	return d.value == ""
}

// String returns the YYYY-MM-DD form
func (d Date) String() string {
	return d.value
}

// Time returns the date at midnight UTC
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, d.value)
	return t
}

// Before reports whether d is chronologically before other.
// String comparison is valid because the layout is fixed-width zero-padded.
func (d Date) Before(other Date) bool {
	return d.value < other.value
}

// After reports whether d is chronologically after other
func (d Date) After(other Date) bool {
	return d.value > other.value
}

// Equal reports whether both dates are the same calendar day
func (d Date) Equal(other Date) bool {
	return d.value == other.value
}

// AddDays returns the date n calendar days later (or earlier when n < 0)
func (d Date) AddDays(n int) Date {
	return Date{value: d.Time().AddDate(0, 0, n).Format(dateLayout)}
}

// DaysUntil returns the number of whole days from d to other (other - d).
// The result is negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// DaysInclusive returns the day count of the closed interval [d, other],
// e.g. 2024-01-01 through 2024-01-10 spans 10 days.
func (d Date) DaysInclusive(other Date) int {
	return d.DaysUntil(other) + 1
}

// YearMonth returns the YYYY-MM form, the key of monthly aggregates
func (d Date) YearMonth() string {
	if len(d.value) < 7 {
		return ""
	}
	return d.value[:7]
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.value == "" {
		return nil, nil
	}
	return d.value, nil
}

// Scan implements sql.Scanner
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case string:
		if v == "" {
			*d = Date{}
			return nil
		}
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case time.Time:
		*d = DateOf(v, time.UTC)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}
