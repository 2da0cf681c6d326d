package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the human-readable, second-precision form used on disk
// and in CSV exports.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a local wall-clock time truncated to the second.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to second precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

// String formats ts with TimestampLayout; the zero value renders empty.
func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout or RFC 3339. Empty input yields the
// zero Timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	if t, err := time.ParseInLocation(TimestampLayout, s, time.Local); err == nil {
		return Timestamp{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return NewTimestamp(t.Local()), nil
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (ts Timestamp) MarshalYAML() (any, error) {
	return ts.String(), nil
}
