// file: internals/helpers/auth/locals.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ============================================
   Locals Keys (diisi middleware JWT)
   ============================================ */

const (
	LocUserID           = "user_id"            // string
	LocRole             = "role"               // string
	LocOrganizerAreaIDs = "organizer_area_ids" // []string
	LocJWTClaims        = "jwt_claims"
)

// GetUserIDFromToken: 401 kalau belum login, 400 kalau format tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}
	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
	}
}

func GetRole(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocRole).(string); ok {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return ""
}

// GetOrganizerAreaIDs: id area yang boleh dikelola user. Entri rusak di-skip.
func GetOrganizerAreaIDs(c *fiber.Ctx) []uuid.UUID {
	out := make([]uuid.UUID, 0)
	switch t := c.Locals(LocOrganizerAreaIDs).(type) {
	case []uuid.UUID:
		return append(out, t...)
	case []string:
		for _, s := range t {
			if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil {
				out = append(out, id)
			}
		}
	}
	return out
}
