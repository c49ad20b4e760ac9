package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"17:30:15", 1050, false}, // detik diabaikan
		{" 08:15 ", 495, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"0900", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDayStartAndMinutesOfDay(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 2026-03-10 01:30 UTC = 2026-03-10 08:30 WIB
	utc := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC)

	day := DayStart(utc, jakarta)
	assert.Equal(t, 2026, day.Year())
	assert.Equal(t, time.March, day.Month())
	assert.Equal(t, 10, day.Day())
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, jakarta, day.Location())

	assert.Equal(t, 8*60+30, MinutesOfDay(utc, jakarta))
	assert.Equal(t, 1*60+30, MinutesOfDay(utc, time.UTC))
}

func TestDayStart_MidnightBoundary(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 2026-03-10 18:00 UTC = 2026-03-11 01:00 WIB → hari kalender berbeda
	utc := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, DayStart(utc, time.UTC).Day())
	assert.Equal(t, 11, DayStart(utc, jakarta).Day())
}

func TestParseYMD(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	d, err := ParseYMD("2026-08-17", jakarta)
	require.NoError(t, err)
	assert.Equal(t, 17, d.Day())
	assert.Equal(t, time.August, d.Month())
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, jakarta, d.Location())

	_, err = ParseYMD("17-08-2026", jakarta)
	assert.Error(t, err)
}
