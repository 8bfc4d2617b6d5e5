package market

import (
	"fmt"
	"strings"
	"time"
)

const localDateTimeLayout = "2006-01-02T15:04:05"

// Timestamp handles the backend's timestamps, which usually carry no zone
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)

	if str == "" || str == "null" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, localDateTimeLayout, "2006-01-02"} {
		// Fractional seconds are accepted by every layout when parsing
		if parsed, err := time.Parse(layout, str); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("unable to parse timestamp: %s", str)
}

// MarshalJSON implements json.Marshaler for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, t.Time.Format(localDateTimeLayout))), nil
}

// String returns the timestamp in the backend's format
func (t Timestamp) String() string {
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.Format(localDateTimeLayout)
}
