package geomap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

func coord(v float64) *float64 { return &v }

func TestBuildMarkersSkipsTerminalAndUnlocated(t *testing.T) {
	anns := []models.Announcement{
		{ID: 1, Status: models.AnnouncementStatusOngoing, Latitude: coord(16.4), Longitude: coord(120.6)},
		{ID: 2, Status: models.AnnouncementStatusCompleted, Latitude: coord(16.4), Longitude: coord(120.6)},
		{ID: 3, Status: models.AnnouncementStatusReported},
	}

	fc := BuildMarkers(anns)
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(fc.Features))
	}
	if id, _ := fc.Features[0].PropertyInt("id"); id != 1 {
		t.Errorf("wrong announcement rendered: %v", fc.Features[0].Properties["id"])
	}
}

func TestCoincidentMarkersGetDistinctOffsets(t *testing.T) {
	var anns []models.Announcement
	for i := 0; i < 5; i++ {
		anns = append(anns, models.Announcement{
			ID: uint(i + 1), Status: models.AnnouncementStatusOngoing,
			Latitude: coord(16.402), Longitude: coord(120.596),
		})
	}

	fc := BuildMarkers(anns)
	if len(fc.Features) != 5 {
		t.Fatalf("expected 5 markers, got %d", len(fc.Features))
	}

	seen := make(map[[2]float64]bool)
	for _, f := range fc.Features {
		pt := [2]float64{f.Geometry.Point[0], f.Geometry.Point[1]}
		if seen[pt] {
			t.Fatalf("two markers share coordinates %v", pt)
		}
		seen[pt] = true
	}

	// Offsets are deterministic across rebuilds.
	again := BuildMarkers(anns)
	for i := range fc.Features {
		if fc.Features[i].Geometry.Point[0] != again.Features[i].Geometry.Point[0] {
			t.Fatal("marker offsets must be deterministic")
		}
	}
}

func TestOffsetFirstMarkerUnmoved(t *testing.T) {
	lat, lng := Offset(16.4, 120.6, 0)
	if lat != 16.4 || lng != 120.6 {
		t.Fatalf("index 0 must not move, got %v,%v", lat, lng)
	}
}

func TestMarkerColorByStatus(t *testing.T) {
	if MarkerColor(models.AnnouncementStatusOngoing) == MarkerColor(models.AnnouncementStatusReported) {
		t.Error("ongoing and reported must render distinct colors")
	}
	if MarkerColor("weird") == "" {
		t.Error("unknown status still needs a fallback color")
	}
}

func TestGeocoderSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Session Road" {
			t.Errorf("query = %q", got)
		}
		json.NewEncoder(w).Encode([]map[string]string{
			{"lat": "16.4119", "lon": "120.5960", "display_name": "Session Road, Baguio"},
		})
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL)
	res, err := g.Search(context.Background(), "Session Road")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Latitude != 16.4119 || res.Longitude != 120.5960 {
		t.Errorf("unexpected coordinates: %+v", res)
	}
}

func TestGeocoderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	if _, err := NewGeocoder(srv.URL).Search(context.Background(), "nowhere"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
