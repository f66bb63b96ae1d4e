package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
	"github.com/hiraya-ph/outage-watch/backend/internal/notifications"
	"github.com/hiraya-ph/outage-watch/backend/internal/realtime"
	"github.com/hiraya-ph/outage-watch/backend/internal/repositories"
)

// AnnouncementHandler handles outage announcement HTTP requests
type AnnouncementHandler struct {
	announcementRepository repositories.AnnouncementRepository
	hub                    *realtime.Hub
	dispatcher             *notifications.Dispatcher
}

// NewAnnouncementHandler creates a new AnnouncementHandler
func NewAnnouncementHandler(
	announcementRepo repositories.AnnouncementRepository,
	hub *realtime.Hub,
	dispatcher *notifications.Dispatcher,
) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementRepository: announcementRepo,
		hub:                    hub,
		dispatcher:             dispatcher,
	}
}

// RegisterPublicRoutes registers the read-only announcement routes
func (h *AnnouncementHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/announcements", h.List)
	g.GET("/announcements/:id", h.GetByID)
}

// RegisterAdminRoutes registers the announcement CRUD routes
func (h *AnnouncementHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/announcements", h.Create)
	g.PUT("/announcements/:id", h.Update)
	g.DELETE("/announcements/:id", h.Delete)
}

// List returns the dashboard feed. Filters compose: barangay narrows to a
// neighborhood (primary location or affected areas), q searches free text,
// status selects one lifecycle state, date pins one calendar day.
// Completed announcements are hidden unless include_completed or an
// explicit status asks for them.
func (h *AnnouncementHandler) List(c echo.Context) error {
	filter := models.AnnouncementFilter{
		Barangay:         c.QueryParam("barangay"),
		Query:            c.QueryParam("q"),
		Status:           c.QueryParam("status"),
		IncludeCompleted: c.QueryParam("include_completed") == "true",
	}
	if day := c.QueryParam("date"); day != "" {
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		filter.Day = &parsed
	}

	anns, err := h.announcementRepository.ListAnnouncements(filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, anns)
}

// GetByID returns one announcement.
func (h *AnnouncementHandler) GetByID(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	ann, err := h.announcementRepository.GetAnnouncementByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Announcement not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ann)
}

// Create publishes a new announcement, notifies live dashboards and starts
// push evaluation.
func (h *AnnouncementHandler) Create(c echo.Context) error {
	ann, err := h.bindAnnouncement(c)
	if err != nil {
		return err
	}

	if err := h.announcementRepository.CreateAnnouncement(ann); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.fanOut(realtime.ActionInsert, *ann)
	return c.JSON(http.StatusCreated, ann)
}

// Update rewrites an announcement. The refreshed updated_at gives the row
// a new version key, so subscribers see it as unread again and push
// eligibility resets.
func (h *AnnouncementHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	existing, err := h.announcementRepository.GetAnnouncementByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Announcement not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ann, err := h.bindAnnouncement(c)
	if err != nil {
		return err
	}
	ann.ID = id
	// Columns the edit form does not own survive the rewrite.
	ann.CreatedAt = existing.CreatedAt
	ann.ImageURLs = existing.ImageURLs

	if err := h.announcementRepository.UpdateAnnouncement(ann); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.fanOut(realtime.ActionUpdate, *ann)
	return c.JSON(http.StatusOK, ann)
}

// Delete removes an announcement and tells dashboards to drop it.
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	ann, err := h.announcementRepository.GetAnnouncementByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Announcement not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.announcementRepository.DeleteAnnouncement(id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.hub.Broadcast(realtime.ChangeEvent{
		Table:    "announcements",
		Action:   realtime.ActionDelete,
		Record:   echo.Map{"id": id},
		Barangay: ann.Barangay,
		Areas:    ann.AffectedAreas,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Announcement deleted"})
}

func (h *AnnouncementHandler) bindAnnouncement(c echo.Context) (*models.Announcement, error) {
	var req models.CreateAnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}

	ann := &models.Announcement{
		Feeder:        req.Feeder,
		Barangay:      req.Barangay,
		Cause:         req.Cause,
		Type:          req.Type,
		Status:        req.Status,
		Description:   req.Description,
		AffectedAreas: req.AffectedAreas,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}
	if req.ScheduledAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "scheduled_at must be an RFC3339 timestamp")
		}
		ann.ScheduledAt = &t
	}
	if req.Type == models.AnnouncementScheduled && ann.ScheduledAt == nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "scheduled announcements need scheduled_at")
	}
	if req.RestoredAt != nil {
		t, err := time.Parse(time.RFC3339, *req.RestoredAt)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "restored_at must be an RFC3339 timestamp")
		}
		ann.RestoredAt = &t
	}
	return ann, nil
}

func (h *AnnouncementHandler) fanOut(action string, ann models.Announcement) {
	h.hub.Broadcast(realtime.ChangeEvent{
		Table:    "announcements",
		Action:   action,
		Record:   ann,
		Barangay: ann.Barangay,
		Areas:    ann.AffectedAreas,
	})
	go h.dispatcher.DispatchAnnouncement(context.Background(), ann)
}
