package dbtime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ErrInvalidDate dikembalikan untuk input tanggal yang tidak bisa diparse.
var ErrInvalidDate = errors.New("invalid date")

// CanonicalDate membuang jam & zona: tanggal kalender t (di lokasinya sendiri)
// sebagai UTC midnight. Hasilnya stabil walau timezone server berbeda.
func CanonicalDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddWeeks menambah n*7 hari pakai aritmetika hari (bukan AddDate bulan).
func AddWeeks(date time.Time, n int) time.Time {
	base := CanonicalDate(date)
	return base.Add(time.Duration(n) * 7 * 24 * time.Hour)
}

// WeeksBetween: jumlah minggu penuh dari a ke b (keduanya dikanonikkan).
func WeeksBetween(a, b time.Time) int {
	days := int(CanonicalDate(b).Sub(CanonicalDate(a)).Hours() / 24)
	return days / 7
}

// ParseDate parse "YYYY-MM-DD" → tanggal kanonik.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return CanonicalDate(t), nil
}

func FormatDate(t time.Time) string {
	return CanonicalDate(t).Format(DateLayout)
}

// MaxDate mengembalikan tanggal yang lebih akhir.
func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
