// Package geomap turns geolocated announcements into map marker payloads
// and forwards location searches to an external geocoder.
package geomap

import (
	"fmt"
	"math"

	geojson "github.com/paulmach/go.geojson"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

// Coincident markers are fanned out on a small circle so each stays
// individually clickable. Radius is in degrees, roughly 15 m.
const (
	offsetRadius = 0.00015
	offsetSlots  = 8
)

var statusColors = map[string]string{
	models.AnnouncementStatusOngoing:  "#d93025",
	models.AnnouncementStatusReported: "#f9ab00",
}

// MarkerColor encodes announcement status as a marker color.
func MarkerColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return "#5f6368"
}

// Offset returns the adjusted coordinates for the i-th marker rendered at
// the same point. The first marker stays put; later ones move to
// deterministic positions on concentric rings.
func Offset(lat, lng float64, index int) (float64, float64) {
	if index == 0 {
		return lat, lng
	}
	ring := (index-1)/offsetSlots + 1
	slot := (index - 1) % offsetSlots
	angle := 2 * math.Pi * float64(slot) / offsetSlots
	r := offsetRadius * float64(ring)
	return lat + r*math.Sin(angle), lng + r*math.Cos(angle)
}

// BuildMarkers renders one geojson feature per announcement that carries
// coordinates and a non-terminal status.
func BuildMarkers(anns []models.Announcement) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	seen := make(map[string]int)

	for _, a := range anns {
		if a.Latitude == nil || a.Longitude == nil {
			continue
		}
		if a.Status == models.AnnouncementStatusCompleted {
			continue
		}

		key := fmt.Sprintf("%.6f,%.6f", *a.Latitude, *a.Longitude)
		lat, lng := Offset(*a.Latitude, *a.Longitude, seen[key])
		seen[key]++

		f := geojson.NewPointFeature([]float64{lng, lat})
		f.SetProperty("id", a.ID)
		f.SetProperty("feeder", a.Feeder)
		f.SetProperty("barangay", a.Barangay)
		f.SetProperty("status", a.Status)
		f.SetProperty("type", a.Type)
		f.SetProperty("cause", a.Cause)
		f.SetProperty("color", MarkerColor(a.Status))
		fc.AddFeature(f)
	}
	return fc
}
