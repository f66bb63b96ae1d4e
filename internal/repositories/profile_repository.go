package repositories

import (
	"errors"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines the interface for profile record operations
type ProfileRepository interface {
	GetProfile(userID uint) (*models.Profile, error)
	UpsertProfile(profile *models.Profile) error
	SetAvatarURL(userID uint, url string) error
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// GetProfile returns the profile row, or nil when the user has none yet;
// callers merge a nil profile with auth metadata.
func (r *PostgresProfileRepository) GetProfile(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) UpsertProfile(profile *models.Profile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_name", "last_name", "mobile", "barangay", "updated_at",
		}),
	}).Create(profile).Error
}

func (r *PostgresProfileRepository) SetAvatarURL(userID uint, url string) error {
	return r.db.Model(&models.Profile{}).Where("user_id = ?", userID).Update("avatar_url", url).Error
}
