// file: internals/helpers/dbtime/tod.go
package dbtime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TODLayout: format jam rapat yang disimpan ("HH:MM").
const TODLayout = "15:04"

var ErrInvalidTime = errors.New("invalid time of day")

// NormalizeTOD validasi "HH:MM" 24 jam (dua digit jam & menit).
func NormalizeTOD(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidTime)
	}
	if len(s) != len(TODLayout) {
		return "", fmt.Errorf("%w: %q (want HH:MM)", ErrInvalidTime, s)
	}
	t, err := time.Parse(TODLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q (want HH:MM)", ErrInvalidTime, s)
	}
	return t.Format(TODLayout), nil
}

// Combine gabungkan tanggal kanonik + "HH:MM" di lokasi loc.
func Combine(date time.Time, tod string, loc *time.Location) (time.Time, error) {
	norm, err := NormalizeTOD(tod)
	if err != nil {
		return time.Time{}, err
	}
	t, _ := time.Parse(TODLayout, norm)
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc), nil
}
