// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Nama locals yang diisi middleware
const (
	LocTimezone = "app_timezone" // string, misal "Asia/Jakarta"
	LocLoc      = "app_loc"      // *time.Location
)

const DefaultTimezone = "Asia/Jakarta"

// Clock adalah sumber "sekarang" yang bisa di-inject (test pakai FixedClock).
type Clock interface {
	Now() time.Time
}

// SystemClock membaca jam sistem lalu dikonversi ke Location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock: jam yang bisa diatur manual, aman dipakai lintas goroutine.
type FixedClock struct {
	mu      sync.Mutex
	current time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{current: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance memajukan jam sebanyak d dan mengembalikan waktu terbaru.
func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// Today: tanggal kalender hari ini (menurut clock) dalam bentuk kanonik.
func Today(c Clock) time.Time {
	return CanonicalDate(c.Now())
}

// LoadLocation: nama timezone → *time.Location.
// Fallback: Asia/Jakarta, lalu UTC.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// GetLocation ambil *time.Location dari locals request:
// 1) c.Locals("app_loc") dari middleware
// 2) c.Locals("app_timezone") (string)
// 3) fallback Asia/Jakarta / UTC
func GetLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return time.UTC
	}
	if v := c.Locals(LocLoc); v != nil {
		if loc, ok := v.(*time.Location); ok && loc != nil {
			return loc
		}
	}
	if v := c.Locals(LocTimezone); v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			loc := LoadLocation(s)
			c.Locals(LocLoc, loc)
			return loc
		}
	}
	loc := LoadLocation("")
	c.Locals(LocLoc, loc)
	return loc
}
