package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/hiraya-ph/outage-watch/backend/internal/middleware"
)

// getUserIDFromContext extracts user ID from JWT claims placed on the
// context by the auth middleware; 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return 0
	}
	return claims.UserID
}
