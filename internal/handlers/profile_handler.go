package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
	"github.com/hiraya-ph/outage-watch/backend/internal/repositories"
	"github.com/hiraya-ph/outage-watch/backend/pkg/storage"
)

// ProfileHandler handles profile editor HTTP requests
type ProfileHandler struct {
	userRepository    repositories.UserRepository
	profileRepository repositories.ProfileRepository
	files             storage.FileStore
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	files storage.FileStore,
) *ProfileHandler {
	return &ProfileHandler{
		userRepository:    userRepo,
		profileRepository: profileRepo,
		files:             files,
	}
}

// RegisterProfileRoutes registers profile routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.Get)
	g.PUT("/profile", h.Update)
	g.POST("/profile/avatar", h.UploadAvatar)
}

// Get returns the merged account view used to prefill the editor.
func (h *ProfileHandler) Get(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	profile, err := h.profileRepository.GetProfile(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, models.MergeAccount(user, profile))
}

// Update applies profile edits in two steps: the diff against the current
// account is computed first, and a no-op edit returns before the password
// is ever checked. Real changes require the current password.
func (h *ProfileHandler) Update(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	profile, err := h.profileRepository.GetProfile(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	current := models.MergeAccount(user, profile)

	next := models.Profile{
		UserID:    userID,
		FirstName: pick(req.FirstName, current.FirstName),
		LastName:  pick(req.LastName, current.LastName),
		Mobile:    pick(req.Mobile, current.Mobile),
		Barangay:  pick(req.Barangay, current.Barangay),
	}
	if profile != nil {
		next.AvatarURL = profile.AvatarURL
	}

	fieldsChanged := next.FirstName != current.FirstName ||
		next.LastName != current.LastName ||
		next.Mobile != current.Mobile ||
		next.Barangay != current.Barangay
	passwordChange := req.NewPassword != ""

	if !fieldsChanged && !passwordChange {
		return c.JSON(http.StatusOK, echo.Map{"message": "No changes to save", "account": current})
	}

	// Step two: re-authenticate before anything is written.
	if req.CurrentPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Current password is required to save changes")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
	}

	if fieldsChanged {
		if err := h.profileRepository.UpsertProfile(&next); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	if passwordChange {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
		}
		user.Password = string(hashed)
		if err := h.userRepository.UpdateUser(user); err != nil {
			// Profile fields are already committed at this point; report the
			// partial failure instead of pretending nothing happened.
			return echo.NewHTTPError(http.StatusInternalServerError, "Profile saved but password change failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated",
		"account": models.MergeAccount(user, &next),
	})
}

// UploadAvatar replaces the caller's avatar image.
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if h.files == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "File uploads are not configured")
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is required")
	}
	if fh.Size > maxImageSizeBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("avatar exceeds the %d MiB limit", maxImageSizeBytes>>20))
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar must be an image")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read uploaded file")
	}
	defer src.Close()

	path := fmt.Sprintf("avatars/%d%s", userID, filepath.Ext(fh.Filename))
	if err := h.files.Upload(c.Request().Context(), path, contentType, src, true); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store avatar")
	}

	url := h.files.PublicURL(path)
	if err := h.profileRepository.SetAvatarURL(userID, url); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"avatar_url": url})
}

func pick(requested, current string) string {
	if requested != "" {
		return requested
	}
	return current
}
