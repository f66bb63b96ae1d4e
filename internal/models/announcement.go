package models

import "time"

// Announcement types and statuses, administrator vocabulary.
const (
	AnnouncementScheduled   = "scheduled"
	AnnouncementUnscheduled = "unscheduled"

	AnnouncementStatusReported  = "reported"
	AnnouncementStatusOngoing   = "ongoing"
	AnnouncementStatusCompleted = "completed"
)

// Announcement is an administrator-authored outage/maintenance notice
// (PostgreSQL). Only admins mutate it; consumers read and subscribe.
// UpdatedAt doubles as the version discriminator for notification keys, so
// every mutation must stamp it.
type Announcement struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Feeder        string     `json:"feeder" gorm:"index"`
	Barangay      string     `json:"barangay" gorm:"index"`
	Cause         string     `json:"cause"`
	Type          string     `json:"type" gorm:"size:20;index"`
	Status        string     `json:"status" gorm:"size:20;index"`
	Description   string     `json:"description"`
	AffectedAreas []string   `json:"affected_areas" gorm:"serializer:json"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	RestoredAt    *time.Time `json:"restored_at,omitempty"`
	ImageURLs     []string   `json:"image_urls" gorm:"serializer:json"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"index"`
}

type CreateAnnouncementRequest struct {
	Feeder        string   `json:"feeder" validate:"required"`
	Barangay      string   `json:"barangay" validate:"required"`
	Cause         string   `json:"cause" validate:"required"`
	Type          string   `json:"type" validate:"required,oneof=scheduled unscheduled"`
	Status        string   `json:"status" validate:"required,oneof=reported ongoing completed"`
	Description   string   `json:"description" validate:"required"`
	AffectedAreas []string `json:"affected_areas"`
	Latitude      *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude" validate:"omitempty,longitude"`
	ScheduledAt   *string  `json:"scheduled_at"`
	RestoredAt    *string  `json:"restored_at"`
}

// AnnouncementFilter narrows the dashboard feed. Zero values mean "no
// constraint"; populated fields compose with logical AND.
type AnnouncementFilter struct {
	Barangay         string
	Query            string
	Status           string
	Day              *time.Time
	IncludeCompleted bool
}
