package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const (
	minutesPerDay = 24 * 60
	layout        = "15:04"
)

var (
	// ErrInvalidTimeString is returned when a value is not a valid HH:MM wall-clock time
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow is returned when arithmetic leaves the [00:00, 24:00] range
	ErrTimeOverflow = errors.New("time string overflow")
)

// TimeString is a wall-clock time of day (HH:MM) with no date and no zone.
// 24:00 is accepted as the end of the day so a business can close at midnight.
type TimeString struct {
	minutes int
	valid   bool
}

// NewTimeString returns the wall-clock time of t in t's location
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*60 + t.Minute(), valid: true}
}

// NewTimeStringFromMinutes builds a TimeString from minutes since midnight
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString{minutes: minutes, valid: true}, nil
}

// NewTimeStringFromString parses "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	if s == "24:00" {
		return TimeString{minutes: minutesPerDay, valid: true}, nil
	}
	if len(s) != len(layout) {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t), nil
}

// MustTimeString parses s and panics on error. Intended for constants and tests.
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func (t TimeString) Hour() int { return t.minutes / 60 }
func (t TimeString) Minute() int { return t.minutes % 60 }
func (t TimeString) Minutes() int { return t.minutes }
func (t TimeString) IsZero() bool { return !t.valid }
func (t TimeString) String() string {
	if !t.valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Validate checks that the value was constructed and is inside the day
func (t TimeString) Validate() error {
	if !t.valid {
		return fmt.Errorf("%w: empty value", ErrInvalidTimeString)
	}
	if t.minutes < 0 || t.minutes > minutesPerDay {
		return fmt.Errorf("%w: %d minutes", ErrTimeOverflow, t.minutes)
	}
	return nil
}

// AddMinutes shifts the wall-clock value; the result must stay within the same day
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	return NewTimeStringFromMinutes(t.minutes + minutes)
}

func (t TimeString) IsBefore(other TimeString) bool { return t.minutes < other.minutes }
func (t TimeString) IsAfter(other TimeString) bool { return t.minutes > other.minutes }
func (t TimeString) Equal(other TimeString) bool { return t.minutes == other.minutes }

// On places the wall-clock value on the given calendar day in loc.
// Go normalizes wall times that fall into a DST gap, so callers that
// care must compare NewTimeString(result) with t.
func (t TimeString) On(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, t.minutes, 0, 0, loc)
}

// MarshalText implements encoding.TextMarshaler
func (t TimeString) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by toml and json)
func (t *TimeString) UnmarshalText(text []byte) error {
	parsed, err := NewTimeStringFromString(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if !t.valid {
		return nil, nil
	}
	return t.String(), nil
}

// Scan implements sql.Scanner for TIME / TEXT columns
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// postgres TIME comes back as HH:MM:SS
	if len(s) >= len(layout) {
		s = s[:len(layout)]
	}
	return t.UnmarshalText([]byte(s))
}
