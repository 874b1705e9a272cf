package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// UnixTime is a record timestamp in Unix seconds. It is written to JSON as a
// number and also read from RFC 3339 strings, the form older backups use.
type UnixTime int64

// Now returns the current time as a UnixTime.
func Now() UnixTime {
	return UnixTime(time.Now().Unix())
}

// UnmarshalJSON accepts a number of seconds, an RFC 3339 string or null.
func (t *UnixTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*t = 0
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		*t = UnixTime(parsed.Unix())
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	*t = UnixTime(n)
	return nil
}

// Value implements driver.Valuer.
func (t UnixTime) Value() (driver.Value, error) {
	return int64(t), nil
}

// Scan implements sql.Scanner.
func (t *UnixTime) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*t = UnixTime(v)
	case nil:
		*t = 0
	default:
		return fmt.Errorf("cannot scan %T into UnixTime", src)
	}
	return nil
}
