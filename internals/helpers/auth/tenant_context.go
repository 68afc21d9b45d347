// file: internals/helpers/auth/tenant_context.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"instituteku_backend/internals/constants"
)

/* ============================================
   Locals keys (auth middleware sets these)
   ============================================ */

const (
	LocUserID   = "user_id"   // string | uuid
	LocTenantID = "tenant_id" // string | uuid
	LocRole     = "role"      // string
	LocRoles    = "roles"     // []string (optional)
)

/* ============================================
   Extraction
   ============================================ */

// GetTenantIDFromToken returns the tenant id resolved by the auth
// middleware, or 403 when the request carries no tenant scope.
func GetTenantIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := localUUID(c, LocTenantID)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "Tenant ID missing")
	}
	return id, nil
}

func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := localUUID(c, LocUserID)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}

func localUUID(c *fiber.Ctx, key string) (uuid.UUID, bool) {
	switch v := c.Locals(key).(type) {
	case uuid.UUID:
		if v != uuid.Nil {
			return v, true
		}
	case string:
		if id, err := uuid.Parse(strings.TrimSpace(v)); err == nil {
			return id, true
		}
	}
	return uuid.Nil, false
}

/* ============================================
   Role guards
   ============================================ */

func currentRoles(c *fiber.Ctx) []string {
	out := make([]string, 0, 2)
	if s, ok := c.Locals(LocRole).(string); ok && s != "" {
		out = append(out, s)
	}
	switch t := c.Locals(LocRoles).(type) {
	case []string:
		out = append(out, t...)
	case []interface{}:
		for _, it := range t {
			if s, ok := it.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func hasAnyRole(c *fiber.Ctx, wanted []string) bool {
	for _, have := range currentRoles(c) {
		for _, w := range wanted {
			if strings.EqualFold(have, w) {
				return true
			}
		}
	}
	return false
}

func IsOwner(c *fiber.Ctx) bool { return hasAnyRole(c, []string{constants.RoleOwner}) }
func IsAdmin(c *fiber.Ctx) bool { return hasAnyRole(c, constants.AdminAndAbove) }
func IsStaff(c *fiber.Ctx) bool { return hasAnyRole(c, constants.StaffAndAbove) }
