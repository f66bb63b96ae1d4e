// Package notifications computes per-user notification feeds over
// announcements: versioned identity, neighborhood relevance, the urgency
// pin, the capped display window, and push eligibility.
package notifications

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

// WindowSize caps the number of read items in the visible feed. Unread
// items are always shown regardless of position.
const WindowSize = 12

// Item is the notification view-model derived from one announcement
// version.
type Item struct {
	Announcement models.Announcement `json:"announcement"`
	Key          string              `json:"key"`
	Urgent       bool                `json:"urgent"`
	Read         bool                `json:"read"`
	YourArea     bool                `json:"your_area"`
}

// VersionKey gives each edit of an announcement its own identity: the same
// row with a newer updated_at produces a new, unread, push-eligible key.
func VersionKey(a models.Announcement) string {
	return fmt.Sprintf("%d:%d", a.ID, a.UpdatedAt.UnixMilli())
}

// Relevant reports whether an announcement concerns the user's barangay:
// the barangay is a substring of the primary location, or of any affected
// area. An unset barangay makes everything relevant.
func Relevant(barangay string, a models.Announcement) bool {
	if barangay == "" {
		return true
	}
	needle := strings.ToLower(barangay)
	if strings.Contains(strings.ToLower(a.Barangay), needle) {
		return true
	}
	for _, area := range a.AffectedAreas {
		if strings.Contains(strings.ToLower(area), needle) {
			return true
		}
	}
	return false
}

// Urgent marks scheduled announcements whose scheduled time is strictly in
// the future.
func Urgent(a models.Announcement, now time.Time) bool {
	return a.Type == models.AnnouncementScheduled &&
		a.ScheduledAt != nil && a.ScheduledAt.After(now)
}

// KeySet turns a stored key list into a membership set.
func KeySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// BuildFeed derives the visible notification list for one user: relevant
// announcements only, urgent items pinned first then newest-updated first,
// the first WindowSize items plus every unread item beyond that.
func BuildFeed(anns []models.Announcement, barangay string, read map[string]bool, now time.Time) []Item {
	items := make([]Item, 0, len(anns))
	for _, a := range anns {
		if !Relevant(barangay, a) {
			continue
		}
		key := VersionKey(a)
		items = append(items, Item{
			Announcement: a,
			Key:          key,
			Urgent:       Urgent(a, now),
			Read:         read[key],
			YourArea:     barangay != "" && strings.Contains(strings.ToLower(a.Barangay), strings.ToLower(barangay)),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Urgent != items[j].Urgent {
			return items[i].Urgent
		}
		return items[i].Announcement.UpdatedAt.After(items[j].Announcement.UpdatedAt)
	})

	visible := make([]Item, 0, len(items))
	for i, it := range items {
		if i < WindowSize || !it.Read {
			visible = append(visible, it)
		}
	}
	return visible
}

// PushEligible reports whether an item should be pushed to the user's
// devices: never pushed before under this version key, category opted in,
// and still unread.
func PushEligible(it Item, pushed map[string]bool, prefs models.PushPreferences) bool {
	if pushed[it.Key] || it.Read {
		return false
	}
	switch it.Announcement.Type {
	case models.AnnouncementScheduled:
		return prefs.Scheduled
	case models.AnnouncementUnscheduled:
		return prefs.Unscheduled
	default:
		return false
	}
}
