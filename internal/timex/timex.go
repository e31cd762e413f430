// Package timex holds small time helpers: a JSON-friendly Duration for config
// files and the fixed-width timestamp format used by snapshots and sync
// metadata.
package timex

import (
	"encoding/json"
	"errors"
	"time"
)

// StampLayout is the canonical timestamp format of the snapshot manifest and
// sync metadata. It is fixed-width, zero-padded, UTC, millisecond precision,
// so lexicographic comparison of two stamps is chronological comparison.
const StampLayout = "2006-01-02T15:04:05.000Z"

// EpochStamp is the zero value of a stamp, used before the first sync.
const EpochStamp = "1970-01-01T00:00:00.000Z"

// Stamp formats t as a canonical timestamp string.
func Stamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// Now returns the current time as a canonical timestamp string.
func Now() string {
	return Stamp(time.Now())
}

// Duration wraps time.Duration so JSON config can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return errors.New("invalid duration")
	}
	return nil
}
