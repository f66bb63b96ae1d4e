package models

import "time"

// Report statuses. A report enters as pending, an administrator moves it
// through the rest of the lifecycle.
const (
	ReportStatusPending   = "pending"
	ReportStatusReported  = "reported"
	ReportStatusOngoing   = "ongoing"
	ReportStatusCompleted = "completed"
)

// Outage causes accepted from the report form.
var ReportCauses = []string{
	"damaged-transformer",
	"fallen-tree",
	"scheduled-maintenance",
	"storm-damage",
	"unknown",
}

// Report is a user-submitted outage claim (PostgreSQL). The partial unique
// index keeps at most one pending report per (user, barangay, cause); a
// resubmission of the same tuple updates the open row in place.
type Report struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"index;uniqueIndex:uniq_pending_report,where:status = 'pending'"`
	Barangay     string     `json:"barangay" gorm:"index;uniqueIndex:uniq_pending_report,where:status = 'pending'"`
	Cause        string     `json:"cause" gorm:"uniqueIndex:uniq_pending_report,where:status = 'pending'"`
	Status       string     `json:"status" gorm:"size:20;index;default:pending"`
	StartedAt    time.Time  `json:"started_at" gorm:"index"`
	Description  string     `json:"description"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	AllowContact bool       `json:"allow_contact"`
	ContactPhone string     `json:"contact_phone,omitempty"`
	Sentiment    int        `json:"sentiment"`
	ImageURLs    []string   `json:"image_urls" gorm:"serializer:json"`
	RestoredAt   *time.Time `json:"restored_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CreateReportRequest struct {
	Barangay     string   `json:"barangay" validate:"required"`
	StartedAt    string   `json:"started_at" validate:"required"`
	Cause        string   `json:"cause" validate:"required"`
	Description  string   `json:"description" validate:"required,min=10"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,longitude"`
	AllowContact bool     `json:"allow_contact"`
	ContactPhone string   `json:"contact_phone" validate:"omitempty,min=7,max=15"`
}

// ReportDraft is the whole-form snapshot persisted while the user types
// (MongoDB, one document per user).
type ReportDraft struct {
	UserID       uint     `json:"user_id" bson:"user_id"`
	Barangay     string   `json:"barangay" bson:"barangay"`
	StartedAt    string   `json:"started_at" bson:"started_at"`
	Cause        string   `json:"cause" bson:"cause"`
	Description  string   `json:"description" bson:"description"`
	Latitude     *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
	AllowContact bool     `json:"allow_contact" bson:"allow_contact"`
	ContactPhone string   `json:"contact_phone,omitempty" bson:"contact_phone,omitempty"`
	SavedAt      time.Time `json:"saved_at" bson:"saved_at"`
}
