// file: internals/features/attendance/attendance/service/status.go
package service

import "math"

// Status absensi. Empat nilai ini adalah satu-satunya yang kanonik;
// nilai lain di DB dianggap anomali data dan hanya diperbaiki lewat
// CleanupInvalidRecords (bukan ditolak saat request).
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

var canonicalStatuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusHalfDay}

func CanonicalStatuses() []string {
	out := make([]string, 0, len(canonicalStatuses))
	for _, s := range canonicalStatuses {
		out = append(out, string(s))
	}
	return out
}

func IsCanonicalStatus(s string) bool {
	switch Status(s) {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// ClassifyOnCheckIn menentukan status dari jam check-in:
// terlambat lebih dari threshold → late, selain itu present.
func ClassifyOnCheckIn(checkInMinutes, classStartMinutes, lateThresholdMinutes int) Status {
	if checkInMinutes-classStartMinutes > lateThresholdMinutes {
		return StatusLate
	}
	return StatusPresent
}

// ReclassifyOnCheckOut menurunkan status jadi half-day kalau durasi sesi
// kurang dari setengah durasi kelas. Aturan precedence: half-day menimpa
// present DAN late (sinyal kehadiran total lebih kuat dari jam datang),
// tapi tidak pernah menimpa absent.
func ReclassifyOnCheckOut(current Status, sessionMinutes, halfDayThresholdMinutes int) Status {
	if sessionMinutes < halfDayThresholdMinutes && current != StatusAbsent {
		return StatusHalfDay
	}
	return current
}

// Percentage = round(100 × (present + late + 0.5×halfDay) / total); 0 saat total 0.
func Percentage(present, absent, late, halfDay int) int {
	total := present + absent + late + halfDay
	if total == 0 {
		return 0
	}
	effective := float64(present+late) + 0.5*float64(halfDay)
	return int(math.Round(100 * effective / float64(total)))
}
