package domain

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

// Money carries a decimal amount exactly as the API serialized it. The
// server owns rounding and currency; the client only displays amounts and
// sums them for dashboard cards.
type Money string

// UnmarshalJSON accepts both quoted decimals ("1500000.00") and bare JSON
// numbers, which is how DRF-style APIs flip depending on serializer config.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*m = ""
		return nil
	}
	*m = Money(strings.Trim(string(data), `"`))
	return nil
}

// MarshalJSON always emits the amount as a string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(m))), nil
}

// Float converts the amount for aggregation; malformed values count as zero.
func (m Money) Float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(m)), 64)
	if err != nil {
		return 0
	}
	return f
}

func (m Money) String() string { return string(m) }

// Time wraps time.Time with tolerant decoding for the timestamp shapes the
// API emits (RFC3339 with or without fractional seconds, naive datetimes,
// and bare dates on admin-edited records).
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.Time.Format(time.RFC3339))), nil
}
