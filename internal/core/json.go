package core

import (
	"strings"
	"time"
)

// Date marshals as a plain calendar day. Unmarshaling also accepts a full
// RFC 3339 timestamp and drops the time-of-day, since clients historically
// send ISO timestamps for day-granularity dates.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		*d = DateOf(t)
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = DateOf(t)
		return nil
	}
	return ErrInvalidDate
}

// Money marshals as an exact decimal JSON number. Cents never pass through
// floating point.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(FormatCents(m.Cents)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		m.Cents = 0
		return nil
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	if neg {
		cents = -cents
	}
	m.Cents = cents
	return nil
}
