package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestGetPageReturnsDescriptor(t *testing.T) {
	h := NewPageHandler()

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/pages/calendar", "", 0)
	c.SetParamNames("id")
	c.SetParamValues("calendar")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var page Page
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if page.ID != "calendar" || page.Path != "/calendar" {
		t.Errorf("unexpected descriptor: %+v", page)
	}
}

func TestGetUnknownPageIsNoOp(t *testing.T) {
	h := NewPageHandler()

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/pages/nope", "", 0)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unknown page must answer 204, got %d", rec.Code)
	}
}

func TestListPagesIsSortedAndComplete(t *testing.T) {
	h := NewPageHandler()

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/pages", "", 0)
	if err := h.List(c); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var pages []Page
	if err := json.Unmarshal(rec.Body.Bytes(), &pages); err != nil {
		t.Fatalf("failed to decode pages: %v", err)
	}
	if len(pages) != len(pageRegistry) {
		t.Fatalf("expected %d pages, got %d", len(pageRegistry), len(pages))
	}
	for i := 1; i < len(pages); i++ {
		if pages[i-1].ID > pages[i].ID {
			t.Fatalf("pages not sorted: %q before %q", pages[i-1].ID, pages[i].ID)
		}
	}
}
