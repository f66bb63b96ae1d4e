package handlers

import (
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

func newProfileFixture(t *testing.T) (*ProfileHandler, *stubUserRepo, *stubProfileRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}
	users := &stubUserRepo{users: map[uint]*models.User{
		1: {
			ID:        1,
			Email:     "resident@example.com",
			Password:  string(hash),
			FirstName: "Ana",
			LastName:  "Reyes",
			Mobile:    "09170000001",
			Barangay:  "Irisan",
		},
	}}
	profiles := &stubProfileRepo{}
	return NewProfileHandler(users, profiles, nil), users, profiles
}

func TestUpdateProfileNoChangesSkipsPasswordCheck(t *testing.T) {
	h, _, profiles := newProfileFixture(t)

	// Identical values and no password at all: must succeed without
	// re-authentication and without writing anything.
	body := `{"first_name":"Ana","last_name":"Reyes","mobile":"09170000001","barangay":"Irisan"}`
	c, rec := newTestContext(t, http.MethodPut, "/api/v1/profile", body, 1)
	if err := h.Update(c); err != nil {
		t.Fatalf("no-op update failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a no-op edit, got %d", rec.Code)
	}
	if profiles.upserts != 0 {
		t.Errorf("no-op edit must not write, got %d upserts", profiles.upserts)
	}
}

func TestUpdateProfileChangeRequiresCurrentPassword(t *testing.T) {
	h, _, profiles := newProfileFixture(t)

	body := `{"barangay":"Bakakeng Central"}`
	c, _ := newTestContext(t, http.MethodPut, "/api/v1/profile", body, 1)
	if got := httpStatus(t, h.Update(c)); got != http.StatusBadRequest {
		t.Fatalf("expected 400 without the current password, got %d", got)
	}
	if profiles.upserts != 0 {
		t.Errorf("rejected edit must not write, got %d upserts", profiles.upserts)
	}
}

func TestUpdateProfileRejectsWrongPassword(t *testing.T) {
	h, _, profiles := newProfileFixture(t)

	body := `{"barangay":"Bakakeng Central","current_password":"wrong"}`
	c, _ := newTestContext(t, http.MethodPut, "/api/v1/profile", body, 1)
	if got := httpStatus(t, h.Update(c)); got != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong password, got %d", got)
	}
	if profiles.upserts != 0 {
		t.Errorf("rejected edit must not write, got %d upserts", profiles.upserts)
	}
}

func TestUpdateProfileAppliesChanges(t *testing.T) {
	h, _, profiles := newProfileFixture(t)

	body := `{"barangay":"Bakakeng Central","current_password":"correct-horse"}`
	c, rec := newTestContext(t, http.MethodPut, "/api/v1/profile", body, 1)
	if err := h.Update(c); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if profiles.upserts != 1 {
		t.Fatalf("expected one profile write, got %d", profiles.upserts)
	}
	saved := profiles.profiles[1]
	if saved.Barangay != "Bakakeng Central" {
		t.Errorf("expected new barangay saved, got %q", saved.Barangay)
	}
	// Untouched fields keep their merged values.
	if saved.FirstName != "Ana" {
		t.Errorf("expected first name carried over, got %q", saved.FirstName)
	}
}

func TestUpdateProfilePasswordChange(t *testing.T) {
	h, users, _ := newProfileFixture(t)
	oldHash := users.users[1].Password

	body := `{"current_password":"correct-horse","new_password":"a-new-password"}`
	c, rec := newTestContext(t, http.MethodPut, "/api/v1/profile", body, 1)
	if err := h.Update(c); err != nil {
		t.Fatalf("password change failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if users.users[1].Password == oldHash {
		t.Error("expected the stored hash to change")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users.users[1].Password), []byte("a-new-password")); err != nil {
		t.Errorf("new password does not verify: %v", err)
	}
}
