package models

import "time"

// PushPreferences are the per-category push opt-ins. Both default to off;
// enabling a category requires a freshly granted browser permission
// attested by the client.
type PushPreferences struct {
	Scheduled   bool `json:"scheduled" bson:"scheduled"`
	Unscheduled bool `json:"unscheduled" bson:"unscheduled"`
}

// NotificationState is the per-user read/push bookkeeping (MongoDB, one
// document per user). Keys are announcement version keys, so an edited
// announcement shows up as a fresh unread item under a new key.
type NotificationState struct {
	UserID     uint            `json:"user_id" bson:"user_id"`
	ReadKeys   []string        `json:"read_keys" bson:"read_keys"`
	PushedKeys []string        `json:"pushed_keys" bson:"pushed_keys"`
	Prefs      PushPreferences `json:"prefs" bson:"prefs"`
	UpdatedAt  time.Time       `json:"updated_at" bson:"updated_at"`
}

// DeviceToken links a user to an FCM registration token (PostgreSQL).
type DeviceToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Token     string    `json:"token" gorm:"uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterDeviceRequest struct {
	Token string `json:"token" validate:"required"`
}

type MarkReadRequest struct {
	Keys []string `json:"keys" validate:"required,min=1"`
}

type UpdatePreferencesRequest struct {
	Scheduled         *bool `json:"scheduled"`
	Unscheduled       *bool `json:"unscheduled"`
	PermissionGranted bool  `json:"permission_granted"`
}

// OTPCode is a pending signup verification code (MongoDB, expires).
type OTPCode struct {
	Email     string    `json:"email" bson:"email"`
	Code      string    `json:"code" bson:"code"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}
