package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
	"github.com/hiraya-ph/outage-watch/backend/internal/notifications"
	"github.com/hiraya-ph/outage-watch/backend/internal/realtime"
)

func newAnnouncementFixture() (*AnnouncementHandler, *stubAnnouncementRepo) {
	repo := &stubAnnouncementRepo{}
	dispatcher := notifications.NewDispatcher(nil, &stubUserRepo{}, &stubProfileRepo{}, &stubStateRepo{}, &stubTokenRepo{})
	return NewAnnouncementHandler(repo, realtime.NewHub(), dispatcher), repo
}

func TestCreateAnnouncement(t *testing.T) {
	h, repo := newAnnouncementFixture()

	body := `{"feeder":"F4","barangay":"Irisan","cause":"line maintenance","type":"scheduled",` +
		`"status":"reported","description":"Scheduled maintenance on feeder 4",` +
		`"scheduled_at":"2025-10-10T08:00:00Z","affected_areas":["Upper Irisan","Tacay Road"]}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/admin/announcements", body, 1)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(repo.anns) != 1 {
		t.Fatalf("expected one stored announcement, got %d", len(repo.anns))
	}
	if repo.anns[0].ScheduledAt == nil {
		t.Error("expected scheduled_at parsed and stored")
	}
	if len(repo.anns[0].AffectedAreas) != 2 {
		t.Errorf("expected affected areas stored, got %v", repo.anns[0].AffectedAreas)
	}
}

func TestCreateScheduledAnnouncementNeedsTime(t *testing.T) {
	h, repo := newAnnouncementFixture()

	body := `{"feeder":"F4","barangay":"Irisan","cause":"line maintenance","type":"scheduled",` +
		`"status":"reported","description":"Scheduled maintenance on feeder 4"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/admin/announcements", body, 1)
	if got := httpStatus(t, h.Create(c)); got != http.StatusBadRequest {
		t.Fatalf("expected 400 for a scheduled announcement without a time, got %d", got)
	}
	if len(repo.anns) != 0 {
		t.Errorf("invalid announcement must not be stored")
	}
}

func TestCreateAnnouncementRejectsBadType(t *testing.T) {
	h, _ := newAnnouncementFixture()

	body := `{"feeder":"F4","barangay":"Irisan","cause":"storm","type":"sometimes",` +
		`"status":"reported","description":"Bad type value"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/admin/announcements", body, 1)
	if got := httpStatus(t, h.Create(c)); got != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown type, got %d", got)
	}
}

func TestListRejectsMalformedDate(t *testing.T) {
	h, _ := newAnnouncementFixture()

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/announcements?date=10-03-2025", "", 0)
	if got := httpStatus(t, h.List(c)); got != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed date, got %d", got)
	}
}

func TestUpdatePreservesCreationDateAndImages(t *testing.T) {
	h, repo := newAnnouncementFixture()
	createdAt := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	repo.anns = []models.Announcement{{
		ID:          1,
		Feeder:      "F4",
		Barangay:    "Irisan",
		Cause:       "storm",
		Type:        models.AnnouncementUnscheduled,
		Status:      models.AnnouncementStatusReported,
		Description: "Original advisory",
		ImageURLs:   []string{"https://cdn.example.com/ann/1/a.jpg"},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}}

	body := `{"feeder":"F4","barangay":"Irisan","cause":"storm","type":"unscheduled",` +
		`"status":"ongoing","description":"Crews are on site now"}`
	c, rec := newTestContext(t, http.MethodPut, "/api/v1/admin/announcements/1", body, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	saved := repo.anns[0]
	if !saved.CreatedAt.Equal(createdAt) {
		t.Errorf("edit must keep created_at, got %v", saved.CreatedAt)
	}
	if len(saved.ImageURLs) != 1 {
		t.Errorf("edit must keep attached images, got %v", saved.ImageURLs)
	}
	if saved.Status != models.AnnouncementStatusOngoing || saved.Description != "Crews are on site now" {
		t.Errorf("edited fields not applied: %+v", saved)
	}
	if !saved.UpdatedAt.After(createdAt) {
		t.Error("edit must advance updated_at")
	}
}

func TestUpdateMissingAnnouncement(t *testing.T) {
	h, _ := newAnnouncementFixture()

	body := `{"feeder":"F4","barangay":"Irisan","cause":"storm","type":"unscheduled",` +
		`"status":"ongoing","description":"Edited text"}`
	c, _ := newTestContext(t, http.MethodPut, "/api/v1/admin/announcements/99", body, 1)
	c.SetParamNames("id")
	c.SetParamValues("99")
	if got := httpStatus(t, h.Update(c)); got != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing announcement, got %d", got)
	}
}
