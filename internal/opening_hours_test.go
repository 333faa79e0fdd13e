package internal

import (
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
)

// A Thursday.
var thursday = time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC)

func TestParseOpeningHours(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "weekly schedule",
			raw:  `[{"mon":[600,2200],"thu":[700,2300]}]`,
			want: "07:00-23:00",
		},
		{
			name: "fuel schedule preferred over shop",
			raw:  `[{"types":["shop"],"thu":[800,2000]},{"types":["fuel"],"thu":[0,2359]}]`,
			want: "00:00-23:59",
		},
		{
			name: "untyped schedule preferred over car wash",
			raw:  `[{"types":["carwash"],"thu":[900,1700]},{"thu":[630,2130]}]`,
			want: "06:30-21:30",
		},
		{
			name: "legacy day index with Monday as zero",
			raw:  `[{"Day":0,"Open":"06:00","Close":"22:00"},{"Day":3,"Open":"07:00","Close":"21:00"}]`,
			want: "07:00-21:00",
		},
		{
			name: "legacy numeric times",
			raw:  `[{"Day":3,"Open":615,"Close":2245}]`,
			want: "06:15-22:45",
		},
		{
			name: "weekly schedule wins over legacy",
			raw:  `[{"Day":3,"Open":"07:00","Close":"21:00"},{"thu":[600,2400]}]`,
			want: "06:00-24:00",
		},
		{
			name: "no entry for today",
			raw:  `[{"mon":[600,2200],"tue":[600,2200]}]`,
			want: OPENING_HOURS_SEE_WEBSITE,
		},
		{
			name: "today with a single time",
			raw:  `[{"thu":[600]}]`,
			want: OPENING_HOURS_SEE_WEBSITE,
		},
		{name: "missing", raw: ``, want: OPENING_HOURS_UNKNOWN},
		{name: "null", raw: `null`, want: OPENING_HOURS_UNKNOWN},
		{name: "empty list", raw: `[]`, want: OPENING_HOURS_UNKNOWN},
		{name: "not a list", raw: `{"thu":[600,2200]}`, want: OPENING_HOURS_UNKNOWN},
		{name: "unrecognised entry", raw: `[{"foo":"bar"}]`, want: OPENING_HOURS_UNKNOWN},
		{name: "garbage times", raw: `[{"thu":"all day"}]`, want: OPENING_HOURS_UNKNOWN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOpeningHours(jsoniter.RawMessage(tt.raw), thursday))
		})
	}
}

func TestParseOpeningHoursOnSunday(t *testing.T) {
	sunday := thursday.AddDate(0, 0, 3)
	raw := jsoniter.RawMessage(`[{"Day":6,"Open":"10:00","Close":"18:00"}]`)

	assert.Equal(t, "10:00-18:00", ParseOpeningHours(raw, sunday))
}
