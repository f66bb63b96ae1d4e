package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
	"github.com/hiraya-ph/outage-watch/backend/internal/notifications"
	"github.com/hiraya-ph/outage-watch/backend/internal/repositories"
)

// NotificationHandler serves the notification center
type NotificationHandler struct {
	announcementRepository repositories.AnnouncementRepository
	stateRepository        repositories.NotificationStateRepository
	deviceTokenRepository  repositories.DeviceTokenRepository
	userRepository         repositories.UserRepository
	profileRepository      repositories.ProfileRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	announcementRepo repositories.AnnouncementRepository,
	stateRepo repositories.NotificationStateRepository,
	tokenRepo repositories.DeviceTokenRepository,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
) *NotificationHandler {
	return &NotificationHandler{
		announcementRepository: announcementRepo,
		stateRepository:        stateRepo,
		deviceTokenRepository:  tokenRepo,
		userRepository:         userRepo,
		profileRepository:      profileRepo,
	}
}

// RegisterNotificationRoutes registers notification center routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.Feed)
	g.POST("/notifications/read", h.MarkRead)
	g.POST("/notifications/read-all", h.MarkAllRead)
	g.GET("/notifications/preferences", h.GetPreferences)
	g.PUT("/notifications/preferences", h.UpdatePreferences)
	g.POST("/notifications/devices", h.RegisterDevice)
}

// Feed returns the caller's notification list: non-completed announcements
// relevant to their barangay, urgent items pinned first, capped to the
// display window plus any unread overflow.
func (h *NotificationHandler) Feed(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	barangay, err := h.userBarangay(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	state, err := h.stateRepository.GetState(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	anns, err := h.announcementRepository.ListAnnouncements(models.AnnouncementFilter{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	feed := notifications.BuildFeed(anns, barangay, notifications.KeySet(state.ReadKeys), time.Now())
	unread := 0
	for _, it := range feed {
		if !it.Read {
			unread++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": feed, "unread": unread})
}

// MarkRead records the given version keys as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.stateRepository.AddReadKeys(c.Request().Context(), userID, req.Keys); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Marked as read"})
}

// MarkAllRead marks every currently visible feed item as read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	barangay, err := h.userBarangay(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	state, err := h.stateRepository.GetState(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	anns, err := h.announcementRepository.ListAnnouncements(models.AnnouncementFilter{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	feed := notifications.BuildFeed(anns, barangay, notifications.KeySet(state.ReadKeys), time.Now())
	keys := make([]string, 0, len(feed))
	for _, it := range feed {
		if !it.Read {
			keys = append(keys, it.Key)
		}
	}
	if len(keys) > 0 {
		if err := h.stateRepository.AddReadKeys(c.Request().Context(), userID, keys); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read", "marked": len(keys)})
}

// GetPreferences returns the caller's push opt-ins.
func (h *NotificationHandler) GetPreferences(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	state, err := h.stateRepository.GetState(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, state.Prefs)
}

// UpdatePreferences toggles push categories. Turning a category ON requires
// the client to attest a granted notification permission; turning OFF never
// does.
func (h *NotificationHandler) UpdatePreferences(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	state, err := h.stateRepository.GetState(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	prefs := state.Prefs

	enabling := (req.Scheduled != nil && *req.Scheduled && !prefs.Scheduled) ||
		(req.Unscheduled != nil && *req.Unscheduled && !prefs.Unscheduled)
	if enabling && !req.PermissionGranted {
		return echo.NewHTTPError(http.StatusBadRequest, "Enabling push requires notification permission")
	}

	if req.Scheduled != nil {
		prefs.Scheduled = *req.Scheduled
	}
	if req.Unscheduled != nil {
		prefs.Unscheduled = *req.Unscheduled
	}

	if err := h.stateRepository.SetPreferences(c.Request().Context(), userID, prefs); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, prefs)
}

// RegisterDevice stores an FCM registration token for the caller.
func (h *NotificationHandler) RegisterDevice(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.RegisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.deviceTokenRepository.RegisterToken(&models.DeviceToken{
		UserID: userID,
		Token:  req.Token,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Device registered"})
}

func (h *NotificationHandler) userBarangay(userID uint) (string, error) {
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	profile, err := h.profileRepository.GetProfile(userID)
	if err != nil {
		return "", err
	}
	return models.MergeAccount(user, profile).Barangay, nil
}
