package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiraya-ph/outage-watch/backend/internal/outagecal"
	"github.com/hiraya-ph/outage-watch/backend/internal/repositories"
)

// CalendarHandler serves the outage history calendar
type CalendarHandler struct {
	reportRepository repositories.ReportRepository
	location         *time.Location
}

// NewCalendarHandler creates a new CalendarHandler. loc is the timezone
// days are bucketed in.
func NewCalendarHandler(reportRepo repositories.ReportRepository, loc *time.Location) *CalendarHandler {
	return &CalendarHandler{reportRepository: reportRepo, location: loc}
}

// RegisterCalendarRoutes registers calendar routes
func (h *CalendarHandler) RegisterCalendarRoutes(g *echo.Group) {
	g.GET("/calendar/:year/:month", h.Month)
	g.GET("/calendar/day/:date", h.Day)
}

// Month renders the grid for one month: per-day report counts and markers.
func (h *CalendarHandler) Month(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid year")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid month")
	}

	reports, err := h.reportRepository.GetVisibleReports()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, outagecal.BuildMonth(reports, year, month, h.location))
}

// Day lists the reports behind one calendar cell.
func (h *CalendarHandler) Day(c echo.Context) error {
	date, err := time.ParseInLocation("2006-01-02", c.Param("date"), h.location)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	reports, err := h.reportRepository.GetVisibleReports()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	matched := outagecal.ReportsOn(reports, date, h.location)
	return c.JSON(http.StatusOK, echo.Map{
		"date":    c.Param("date"),
		"reports": matched,
	})
}
