package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

// DeviceTokenRepository defines the interface for push device registrations
type DeviceTokenRepository interface {
	RegisterToken(token *models.DeviceToken) error
	GetTokensByUser(userID uint) ([]models.DeviceToken, error)
	ListAllTokens() ([]models.DeviceToken, error)
	DeleteToken(token string) error
}

// PostgresDeviceTokenRepository implements DeviceTokenRepository for PostgreSQL
type PostgresDeviceTokenRepository struct {
	db *gorm.DB
}

// NewPostgresDeviceTokenRepository creates a new PostgresDeviceTokenRepository
func NewPostgresDeviceTokenRepository(db *gorm.DB) *PostgresDeviceTokenRepository {
	return &PostgresDeviceTokenRepository{db: db}
}

// RegisterToken stores the token; re-registering the same token is a no-op.
func (r *PostgresDeviceTokenRepository) RegisterToken(token *models.DeviceToken) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoNothing: true,
	}).Create(token).Error
}

func (r *PostgresDeviceTokenRepository) GetTokensByUser(userID uint) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	if err := r.db.Where("user_id = ?", userID).Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *PostgresDeviceTokenRepository) ListAllTokens() ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	if err := r.db.Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteToken drops a registration FCM reports as stale.
func (r *PostgresDeviceTokenRepository) DeleteToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.DeviceToken{}).Error
}
