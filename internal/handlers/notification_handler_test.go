package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
	"github.com/hiraya-ph/outage-watch/backend/internal/notifications"
)

func newNotificationFixture(anns []models.Announcement, state models.NotificationState) (*NotificationHandler, *stubStateRepo) {
	users := &stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Email: "resident@example.com", Barangay: "Irisan"},
	}}
	states := &stubStateRepo{state: state}
	h := NewNotificationHandler(
		&stubAnnouncementRepo{anns: anns},
		states,
		&stubTokenRepo{},
		users,
		&stubProfileRepo{},
	)
	return h, states
}

func TestFeedFiltersToUserBarangay(t *testing.T) {
	now := time.Now()
	anns := []models.Announcement{
		{ID: 1, Barangay: "Irisan Proper", Type: models.AnnouncementUnscheduled, UpdatedAt: now},
		{ID: 2, Barangay: "Loakan", Type: models.AnnouncementUnscheduled, UpdatedAt: now},
		{ID: 3, Barangay: "Camp 7", AffectedAreas: []string{"Upper Irisan"}, Type: models.AnnouncementUnscheduled, UpdatedAt: now},
	}
	h, _ := newNotificationFixture(anns, models.NotificationState{})

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/notifications", "", 1)
	if err := h.Feed(c); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}

	var resp struct {
		Items  []notifications.Item `json:"items"`
		Unread int                  `json:"unread"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode feed: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 relevant items, got %d", len(resp.Items))
	}
	for _, it := range resp.Items {
		if it.Announcement.ID == 2 {
			t.Error("announcement for another barangay leaked into the feed")
		}
	}
	if resp.Unread != 2 {
		t.Errorf("expected 2 unread, got %d", resp.Unread)
	}
}

func TestFeedExcludesCompletedAnnouncements(t *testing.T) {
	now := time.Now()
	anns := []models.Announcement{
		{ID: 1, Barangay: "Irisan", Status: models.AnnouncementStatusOngoing, Type: models.AnnouncementUnscheduled, UpdatedAt: now},
		{ID: 2, Barangay: "Irisan", Status: models.AnnouncementStatusCompleted, Type: models.AnnouncementUnscheduled, UpdatedAt: now},
	}
	h, _ := newNotificationFixture(anns, models.NotificationState{})

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/notifications", "", 1)
	if err := h.Feed(c); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}

	var resp struct {
		Items []notifications.Item `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode feed: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected the completed announcement excluded, got %d items", len(resp.Items))
	}
	if resp.Items[0].Announcement.ID != 1 {
		t.Errorf("wrong announcement survived: %d", resp.Items[0].Announcement.ID)
	}
}

func TestMarkAllReadCoversVisibleItems(t *testing.T) {
	now := time.Now()
	anns := []models.Announcement{
		{ID: 1, Barangay: "Irisan", Type: models.AnnouncementUnscheduled, UpdatedAt: now},
		{ID: 2, Barangay: "Irisan", Type: models.AnnouncementUnscheduled, UpdatedAt: now.Add(-time.Hour)},
	}
	readKey := notifications.VersionKey(anns[1])
	h, states := newNotificationFixture(anns, models.NotificationState{ReadKeys: []string{readKey}})

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/notifications/read-all", "", 1)
	if err := h.MarkAllRead(c); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// Only the one still-unread key gets appended.
	if len(states.state.ReadKeys) != 2 {
		t.Fatalf("expected 2 read keys after mark-all, got %d", len(states.state.ReadKeys))
	}
}

func TestUpdatePreferencesEnableNeedsPermission(t *testing.T) {
	h, states := newNotificationFixture(nil, models.NotificationState{})

	body := `{"scheduled":true}`
	c, _ := newTestContext(t, http.MethodPut, "/api/v1/notifications/preferences", body, 1)
	if got := httpStatus(t, h.UpdatePreferences(c)); got != http.StatusBadRequest {
		t.Fatalf("expected 400 when enabling without permission, got %d", got)
	}
	if states.state.Prefs.Scheduled {
		t.Error("preference must not flip without permission")
	}
}

func TestUpdatePreferencesEnableWithPermission(t *testing.T) {
	h, states := newNotificationFixture(nil, models.NotificationState{})

	body := `{"scheduled":true,"permission_granted":true}`
	c, rec := newTestContext(t, http.MethodPut, "/api/v1/notifications/preferences", body, 1)
	if err := h.UpdatePreferences(c); err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !states.state.Prefs.Scheduled {
		t.Error("expected scheduled push enabled")
	}
	if states.state.Prefs.Unscheduled {
		t.Error("unscheduled preference must stay off")
	}
}

func TestUpdatePreferencesDisableNeedsNoPermission(t *testing.T) {
	h, states := newNotificationFixture(nil, models.NotificationState{
		Prefs: models.PushPreferences{Scheduled: true, Unscheduled: true},
	})

	body := `{"unscheduled":false}`
	c, rec := newTestContext(t, http.MethodPut, "/api/v1/notifications/preferences", body, 1)
	if err := h.UpdatePreferences(c); err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if states.state.Prefs.Unscheduled {
		t.Error("expected unscheduled push disabled")
	}
	if !states.state.Prefs.Scheduled {
		t.Error("scheduled preference must be untouched")
	}
}
