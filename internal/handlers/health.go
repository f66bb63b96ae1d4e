package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

var startedAt = time.Now()

// Health reports liveness and uptime.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"uptime_s": int(time.Since(startedAt).Seconds()),
	})
}
