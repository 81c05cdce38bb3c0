package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-screening/internal/common/config"
)

func testPolicy(t *testing.T) *Policy {
	t.Helper()

	morning, err := ParseWindow("10:00", "12:00")
	require.NoError(t, err)
	afternoon, err := ParseWindow("14:00", "17:00")
	require.NoError(t, err)

	p, err := New([]Window{morning, afternoon}, []string{"2026-02-04", "2026-04-13"}, time.UTC)
	require.NoError(t, err)
	return p
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "valid morning window", start: "10:00", end: "12:00"},
		{name: "valid afternoon window", start: "14:00", end: "17:00"},
		{name: "start equals end", start: "10:00", end: "10:00", wantErr: true},
		{name: "start after end", start: "12:00", end: "10:00", wantErr: true},
		{name: "garbage start", start: "ten", end: "12:00", wantErr: true},
		{name: "garbage end", start: "10:00", end: "noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ParseWindow(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Less(t, w.Start, w.End)
		})
	}
}

func TestNewRequiresWindows(t *testing.T) {
	_, err := New(nil, nil, time.UTC)
	assert.Error(t, err)
}

func TestNewRejectsBadHoliday(t *testing.T) {
	w, err := ParseWindow("10:00", "12:00")
	require.NoError(t, err)

	_, err = New([]Window{w}, []string{"February 4th"}, time.UTC)
	assert.Error(t, err)
}

func TestIsWorkday(t *testing.T) {
	p := testPolicy(t)

	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{name: "regular monday", day: time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), want: true},
		{name: "regular friday", day: time.Date(2026, 2, 6, 9, 0, 0, 0, time.UTC), want: true},
		{name: "saturday", day: time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC), want: false},
		{name: "sunday", day: time.Date(2026, 2, 8, 9, 0, 0, 0, time.UTC), want: false},
		{name: "weekday holiday", day: time.Date(2026, 2, 4, 9, 0, 0, 0, time.UTC), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.IsWorkday(tt.day))
		})
	}
}

func TestFitsWindow(t *testing.T) {
	p := testPolicy(t)
	hour := time.Hour
	day := func(h, m int) time.Time {
		return time.Date(2026, 2, 2, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		start time.Time
		d     time.Duration
		want  bool
	}{
		{name: "first morning slot", start: day(10, 0), d: hour, want: true},
		{name: "second morning slot ends at window close", start: day(11, 0), d: hour, want: true},
		{name: "slot crossing morning close", start: day(11, 30), d: hour, want: false},
		{name: "slot in lunch gap", start: day(12, 0), d: hour, want: false},
		{name: "afternoon slot", start: day(14, 0), d: hour, want: true},
		{name: "last afternoon slot", start: day(16, 0), d: hour, want: true},
		{name: "slot crossing end of day", start: day(16, 30), d: hour, want: false},
		{name: "before business hours", start: day(9, 0), d: hour, want: false},
		{name: "thirty minute slot mid window", start: day(11, 30), d: 30 * time.Minute, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.FitsWindow(tt.start, tt.d))
		})
	}
}

func TestWindowStartEndOn(t *testing.T) {
	w, err := ParseWindow("14:00", "17:00")
	require.NoError(t, err)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC), w.StartOn(day))
	assert.Equal(t, time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC), w.EndOn(day))
}

func TestPolicyAccessors(t *testing.T) {
	p := testPolicy(t)
	assert.Equal(t, time.UTC, p.Location())
	assert.Len(t, p.Windows(), 2)
}

func TestFromConfig(t *testing.T) {
	cfg := config.InterviewConfig{
		DurationMinutes: 60,
		Timezone:        "Asia/Colombo",
		Windows: []config.WindowConfig{
			{Start: "10:00", End: "12:00"},
			{Start: "14:00", End: "17:00"},
		},
		Holidays: []string{"2026-01-01"},
	}

	p, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Colombo", p.Location().String())

	cfg.Timezone = "Mars/Olympus"
	_, err = FromConfig(cfg)
	assert.Error(t, err)
}
