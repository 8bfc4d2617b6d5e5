package market

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "local datetime",
			input: `"2025-08-30T15:04:05"`,
			want:  "2025-08-30T15:04:05",
		},
		{
			name:  "local datetime with fraction",
			input: `"2025-08-30T15:04:05.123456789"`,
			want:  "2025-08-30T15:04:05",
		},
		{
			name:  "RFC3339",
			input: `"2025-08-30T15:04:05Z"`,
			want:  "2025-08-30T15:04:05",
		},
		{
			name:  "date only",
			input: `"2025-08-30"`,
			want:  "2025-08-30T00:00:00",
		},
		{
			name:  "null value",
			input: `null`,
			want:  "",
		},
		{
			name:  "empty string",
			input: `""`,
			want:  "",
		},
		{
			name:    "invalid format",
			input:   `"yesterday"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)

			if (err != nil) != tt.wantErr {
				t.Errorf("Timestamp.UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && ts.String() != tt.want {
				t.Errorf("Timestamp.UnmarshalJSON() = %v, want %v", ts.String(), tt.want)
			}
		})
	}
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	ts := Timestamp{Time: time.Date(2025, 8, 30, 15, 4, 5, 0, time.UTC)}

	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2025-08-30T15:04:05"` {
		t.Errorf("Marshal() = %s", data)
	}

	data, err = json.Marshal(Timestamp{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Marshal() of zero = %s, want null", data)
	}
}
