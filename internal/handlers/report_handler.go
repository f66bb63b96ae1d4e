package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
	"github.com/hiraya-ph/outage-watch/backend/internal/ratelimit"
	"github.com/hiraya-ph/outage-watch/backend/internal/realtime"
	"github.com/hiraya-ph/outage-watch/backend/internal/repositories"
	"github.com/hiraya-ph/outage-watch/backend/internal/sentiment"
	"github.com/hiraya-ph/outage-watch/backend/pkg/queue"
	"github.com/hiraya-ph/outage-watch/backend/pkg/storage"
)

const (
	maxReportImages   = 3
	maxImageSizeBytes = 5 << 20
)

// ReportHandler handles outage report HTTP requests
type ReportHandler struct {
	reportRepository repositories.ReportRepository
	draftRepository  repositories.DraftRepository
	cooldown         *ratelimit.Cooldown
	files            storage.FileStore
	publisher        *queue.Publisher
	hub              *realtime.Hub
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(
	reportRepo repositories.ReportRepository,
	draftRepo repositories.DraftRepository,
	cooldown *ratelimit.Cooldown,
	files storage.FileStore,
	publisher *queue.Publisher,
	hub *realtime.Hub,
) *ReportHandler {
	return &ReportHandler{
		reportRepository: reportRepo,
		draftRepository:  draftRepo,
		cooldown:         cooldown,
		files:            files,
		publisher:        publisher,
		hub:              hub,
	}
}

// RegisterPublicRoutes registers unauthenticated report routes
func (h *ReportHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/reports", h.ListVisible)
}

// RegisterProtectedRoutes registers authenticated report routes
func (h *ReportHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/reports", h.Submit)
	g.GET("/reports/mine", h.MyReports)
	g.POST("/reports/:id/images", h.UploadImages)
	g.DELETE("/reports/:id", h.DeleteOwn)
	g.PUT("/reports/draft", h.SaveDraft)
	g.GET("/reports/draft", h.GetDraft)
	g.DELETE("/reports/draft", h.DeleteDraft)
}

// RegisterAdminRoutes registers the moderation queue routes
func (h *ReportHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/reports/pending", h.ListPending)
	g.POST("/reports/:id/approve", h.Approve)
	g.POST("/reports/:id/reject", h.Reject)
	g.PATCH("/reports/:id/status", h.UpdateStatus)
}

// ListVisible returns every report past moderation, newest first.
func (h *ReportHandler) ListVisible(c echo.Context) error {
	reports, err := h.reportRepository.GetVisibleReports()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reports)
}

// Submit accepts a new outage report. The cooldown gate runs before
// validation so rapid resubmission is rejected without touching storage,
// and the clock only starts once a submission actually lands.
func (h *ReportHandler) Submit(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if ok, wait := h.cooldown.Allow(userID); !ok {
		return echo.NewHTTPError(http.StatusTooManyRequests, echo.Map{
			"message":       "Please wait before submitting another report",
			"retry_after_s": int(wait.Seconds()) + 1,
		})
	}

	var req models.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !validCause(req.Cause) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("cause must be one of: %s", strings.Join(models.ReportCauses, ", ")))
	}

	startedAt, err := time.Parse(time.RFC3339, req.StartedAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "started_at must be an RFC3339 timestamp")
	}
	if startedAt.After(time.Now()) {
		return echo.NewHTTPError(http.StatusBadRequest, "started_at cannot be in the future")
	}

	report := &models.Report{
		UserID:       userID,
		Barangay:     req.Barangay,
		Cause:        req.Cause,
		Status:       models.ReportStatusPending,
		StartedAt:    startedAt,
		Description:  req.Description,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		AllowContact: req.AllowContact,
		ContactPhone: req.ContactPhone,
		Sentiment:    sentiment.Score(req.Description),
	}
	updated, err := h.reportRepository.UpsertPending(report)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.cooldown.MarkSuccess(userID)

	// A landed submission supersedes whatever was typed before it.
	if err := h.draftRepository.DeleteDraft(c.Request().Context(), userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("failed to discard report draft")
	}

	status := http.StatusCreated
	message := "Report submitted for review"
	if updated {
		status = http.StatusOK
		message = "Your open report for this outage was updated"
	}
	return c.JSON(status, echo.Map{"message": message, "report": report})
}

// MyReports returns the caller's reports regardless of moderation status.
func (h *ReportHandler) MyReports(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	reports, err := h.reportRepository.GetReportsByUser(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reports)
}

// UploadImages attaches up to three photos to the caller's report. The
// first failed file aborts the batch; URLs already attached stay attached.
func (h *ReportHandler) UploadImages(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if h.files == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "File uploads are not configured")
	}

	reportID, err := parseIDParam(c)
	if err != nil {
		return err
	}
	report, err := h.reportRepository.GetReportByID(reportID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if report.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only attach images to your own report")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Expected multipart form data")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No images provided")
	}
	if len(report.ImageURLs)+len(files) > maxReportImages {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("A report can carry at most %d images", maxReportImages))
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxImageSizeBytes {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("%s exceeds the %d MiB limit", fh.Filename, maxImageSizeBytes>>20))
		}
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s is not an image", fh.Filename))
		}

		src, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read uploaded file")
		}

		path := fmt.Sprintf("reports/%d/%s%s", report.ID, uuid.NewString(), filepath.Ext(fh.Filename))
		uploadErr := h.files.Upload(c.Request().Context(), path, contentType, src, false)
		src.Close()
		if uploadErr != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to store %s", fh.Filename))
		}

		url := h.files.PublicURL(path)
		if err := h.reportRepository.AppendImageURL(report.ID, url); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		urls = append(urls, url)
	}
	return c.JSON(http.StatusOK, echo.Map{"image_urls": urls})
}

// DeleteOwn removes the caller's own report.
func (h *ReportHandler) DeleteOwn(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	reportID, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.reportRepository.DeleteOwnReport(reportID, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Report deleted"})
}

// SaveDraft stores the whole in-progress form, replacing any previous
// draft. Drafts skip validation on purpose: half-typed input is the point.
func (h *ReportHandler) SaveDraft(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var draft models.ReportDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	draft.UserID = userID
	draft.SavedAt = time.Now()

	if err := h.draftRepository.SaveDraft(c.Request().Context(), &draft); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Draft saved", "saved_at": draft.SavedAt})
}

// GetDraft returns the caller's saved draft, 204 when there is none.
func (h *ReportHandler) GetDraft(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	draft, err := h.draftRepository.GetDraft(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if draft == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, draft)
}

// DeleteDraft discards the caller's saved draft.
func (h *ReportHandler) DeleteDraft(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if err := h.draftRepository.DeleteDraft(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Draft discarded"})
}

// ListPending returns the moderation queue.
func (h *ReportHandler) ListPending(c echo.Context) error {
	reports, err := h.reportRepository.GetPendingReports()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reports)
}

// Approve moves a pending report into the public feed, forwards it to the
// analysis queue and notifies live dashboards.
func (h *ReportHandler) Approve(c echo.Context) error {
	reportID, err := parseIDParam(c)
	if err != nil {
		return err
	}
	report, err := h.reportRepository.GetReportByID(reportID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if report.Status != models.ReportStatusPending {
		return echo.NewHTTPError(http.StatusConflict, "Report already moderated")
	}

	if err := h.reportRepository.UpdateStatus(reportID, models.ReportStatusReported); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	report.Status = models.ReportStatusReported

	if err := h.publisher.Publish(report); err != nil {
		log.WithError(err).WithField("report_id", reportID).Warn("failed to forward report to queue")
	}
	h.hub.Broadcast(realtime.ChangeEvent{
		Table:    "reports",
		Action:   realtime.ActionInsert,
		Record:   report,
		Barangay: report.Barangay,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Report approved", "report": report})
}

// Reject drops a pending report from the moderation queue.
func (h *ReportHandler) Reject(c echo.Context) error {
	reportID, err := parseIDParam(c)
	if err != nil {
		return err
	}
	report, err := h.reportRepository.GetReportByID(reportID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if report.Status != models.ReportStatusPending {
		return echo.NewHTTPError(http.StatusConflict, "Report already moderated")
	}
	if err := h.reportRepository.DeleteOwnReport(reportID, report.UserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Report rejected"})
}

// UpdateStatus advances an approved report through its lifecycle.
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	reportID, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status" validate:"required,oneof=reported ongoing completed"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	report, err := h.reportRepository.GetReportByID(reportID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.reportRepository.UpdateStatus(reportID, req.Status); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	report.Status = req.Status
	h.hub.Broadcast(realtime.ChangeEvent{
		Table:    "reports",
		Action:   realtime.ActionUpdate,
		Record:   report,
		Barangay: report.Barangay,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Report status updated", "report": report})
}

func validCause(cause string) bool {
	for _, c := range models.ReportCauses {
		if c == cause {
			return true
		}
	}
	return false
}

func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}
