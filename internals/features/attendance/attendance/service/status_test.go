package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyOnCheckIn(t *testing.T) {
	classStart := 9 * 60 // 09:00
	threshold := 15

	tests := []struct {
		name     string
		checkIn  int
		expected Status
	}{
		{"sebelum jam mulai", 8*60 + 30, StatusPresent},
		{"tepat jam mulai", 9 * 60, StatusPresent},
		{"10 menit telat masih present", 9*60 + 10, StatusPresent},
		{"tepat di ambang threshold", 9*60 + 15, StatusPresent},
		{"satu menit lewat threshold", 9*60 + 16, StatusLate},
		{"sangat telat", 11 * 60, StatusLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyOnCheckIn(tt.checkIn, classStart, threshold)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifyOnCheckIn_ZeroThreshold(t *testing.T) {
	// threshold 0: telat semenit pun langsung late
	assert.Equal(t, StatusPresent, ClassifyOnCheckIn(9*60, 9*60, 0))
	assert.Equal(t, StatusLate, ClassifyOnCheckIn(9*60+1, 9*60, 0))
}

func TestReclassifyOnCheckOut(t *testing.T) {
	// kelas 09:00-17:00 → ambang half-day 240 menit
	halfDayThreshold := 240

	tests := []struct {
		name     string
		current  Status
		session  int
		expected Status
	}{
		{"present dengan sesi pendek turun jadi half-day", StatusPresent, 150, StatusHalfDay},
		{"late dengan sesi pendek turun jadi half-day", StatusLate, 100, StatusHalfDay},
		{"present dengan sesi penuh tetap present", StatusPresent, 450, StatusPresent},
		{"late dengan sesi penuh tetap late", StatusLate, 300, StatusLate},
		{"tepat di ambang tidak turun", StatusPresent, 240, StatusPresent},
		{"absent tidak pernah naik jadi half-day", StatusAbsent, 100, StatusAbsent},
		{"half-day tetap half-day", StatusHalfDay, 100, StatusHalfDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReclassifyOnCheckOut(tt.current, tt.session, halfDayThreshold)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPercentage(t *testing.T) {
	// late tetap dihitung hadir penuh, half-day setengah
	assert.Equal(t, 90, Percentage(15, 2, 3, 0))
	assert.Equal(t, 75, Percentage(1, 0, 0, 1)) // (1 + 0.5) / 2
	assert.Equal(t, 100, Percentage(10, 0, 0, 0))
	assert.Equal(t, 0, Percentage(0, 5, 0, 0))
	assert.Equal(t, 0, Percentage(0, 0, 0, 0))  // tanpa record sama sekali
	assert.Equal(t, 33, Percentage(0, 1, 0, 2)) // (0.5*2) / 3 = 33.3 → dibulatkan
}

func TestIsCanonicalStatus(t *testing.T) {
	for _, s := range CanonicalStatuses() {
		assert.True(t, IsCanonicalStatus(s), s)
	}
	assert.False(t, IsCanonicalStatus("holiday"))
	assert.False(t, IsCanonicalStatus("PRESENT"))
	assert.False(t, IsCanonicalStatus(""))
}
