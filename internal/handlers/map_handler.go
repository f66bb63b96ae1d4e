package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hiraya-ph/outage-watch/backend/internal/geomap"
	"github.com/hiraya-ph/outage-watch/backend/internal/repositories"
)

// MapHandler serves map markers and forward geocoding
type MapHandler struct {
	announcementRepository repositories.AnnouncementRepository
	geocoder               *geomap.Geocoder
}

// NewMapHandler creates a new MapHandler
func NewMapHandler(announcementRepo repositories.AnnouncementRepository, geocoder *geomap.Geocoder) *MapHandler {
	return &MapHandler{
		announcementRepository: announcementRepo,
		geocoder:               geocoder,
	}
}

// RegisterMapRoutes registers map routes
func (h *MapHandler) RegisterMapRoutes(g *echo.Group) {
	g.GET("/map/markers", h.Markers)
	g.GET("/map/geocode", h.Geocode)
}

// Markers returns a geojson FeatureCollection of active outage locations.
// Coincident announcements are fanned out so each marker stays clickable.
func (h *MapHandler) Markers(c echo.Context) error {
	anns, err := h.announcementRepository.ListLocated()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, geomap.BuildMarkers(anns))
}

// Geocode resolves a free-text location to coordinates.
func (h *MapHandler) Geocode(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	result, err := h.geocoder.Search(c.Request().Context(), query)
	if err != nil {
		if errors.Is(err, geomap.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Location not found")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "Geocoding service unavailable")
	}
	return c.JSON(http.StatusOK, result)
}
