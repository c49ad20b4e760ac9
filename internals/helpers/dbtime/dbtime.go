// file: internals/helpers/dbtime/dbtime.go
package dbtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Paket kecil untuk aritmetika waktu absensi:
// "hari kalender" (kunci unik record absensi) dan "menit-dalam-hari"
// (perbandingan jam check-in vs jam kelas "HH:mm").

// DayStart membulatkan t ke tengah malam pada timezone lembaga.
func DayStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

// Today = hari kalender saat ini pada timezone lembaga.
func Today(loc *time.Location) time.Time {
	return DayStart(time.Now(), loc)
}

// MinutesOfDay mengembalikan menit sejak tengah malam (0..1439) pada timezone lembaga.
func MinutesOfDay(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	tt := t.In(loc)
	return tt.Hour()*60 + tt.Minute()
}

// ParseClock mengubah "HH:mm" (atau "HH:mm:ss", detik diabaikan) menjadi menit-dalam-hari.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("format jam tidak valid: %q (harus HH:mm)", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("jam tidak valid: %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("menit tidak valid: %q", s)
	}
	return h*60 + m, nil
}

// ParseYMD parse "2006-01-02" menjadi tengah malam pada timezone lembaga.
func ParseYMD(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("format tanggal tidak valid: %q (harus YYYY-MM-DD)", s)
	}
	return t, nil
}
