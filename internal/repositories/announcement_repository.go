package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

// AnnouncementRepository defines the interface for announcement operations
type AnnouncementRepository interface {
	CreateAnnouncement(a *models.Announcement) error
	UpdateAnnouncement(a *models.Announcement) error
	DeleteAnnouncement(id uint) error
	GetAnnouncementByID(id uint) (*models.Announcement, error)
	ListAnnouncements(filter models.AnnouncementFilter) ([]models.Announcement, error)
	ListLocated() ([]models.Announcement, error)
}

// PostgresAnnouncementRepository implements AnnouncementRepository for PostgreSQL
type PostgresAnnouncementRepository struct {
	db *gorm.DB
}

// NewPostgresAnnouncementRepository creates a new PostgresAnnouncementRepository
func NewPostgresAnnouncementRepository(db *gorm.DB) *PostgresAnnouncementRepository {
	return &PostgresAnnouncementRepository{db: db}
}

func (r *PostgresAnnouncementRepository) CreateAnnouncement(a *models.Announcement) error {
	return r.db.Create(a).Error
}

// announcementEditColumns are the columns an admin edit may rewrite.
// created_at and image_urls stay out of the list so an edit cannot zero
// them.
var announcementEditColumns = []string{
	"feeder", "barangay", "cause", "type", "status", "description",
	"affected_areas", "latitude", "longitude", "scheduled_at", "restored_at",
	"updated_at",
}

// UpdateAnnouncement rewrites the editable columns and stamps updated_at,
// which advances the notification version key.
func (r *PostgresAnnouncementRepository) UpdateAnnouncement(a *models.Announcement) error {
	a.UpdatedAt = time.Now()
	result := r.db.Model(a).Select(announcementEditColumns).Updates(a)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresAnnouncementRepository) DeleteAnnouncement(id uint) error {
	result := r.db.Delete(&models.Announcement{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresAnnouncementRepository) GetAnnouncementByID(id uint) (*models.Announcement, error) {
	var a models.Announcement
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAnnouncements applies the composed dashboard filters server-side and
// returns rows newest-updated first. Completed items are excluded unless
// asked for explicitly.
func (r *PostgresAnnouncementRepository) ListAnnouncements(filter models.AnnouncementFilter) ([]models.Announcement, error) {
	query := r.db.Model(&models.Announcement{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else if !filter.IncludeCompleted {
		query = query.Where("status <> ?", models.AnnouncementStatusCompleted)
	}

	if filter.Barangay != "" {
		like := "%" + filter.Barangay + "%"
		// affected_areas is a JSON array column; a text match covers
		// membership for the substring semantics the feed uses.
		query = query.Where("barangay ILIKE ? OR affected_areas::text ILIKE ?", like, like)
	}

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where(
			"barangay ILIKE ? OR feeder ILIKE ? OR type ILIKE ? OR cause ILIKE ? OR description ILIKE ? OR affected_areas::text ILIKE ?",
			like, like, like, like, like, like)
	}

	if filter.Day != nil {
		dayStart := time.Date(filter.Day.Year(), filter.Day.Month(), filter.Day.Day(), 0, 0, 0, 0, filter.Day.Location())
		query = query.Where("created_at >= ? AND created_at < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}

	var anns []models.Announcement
	if err := query.Order("updated_at DESC").Find(&anns).Error; err != nil {
		return nil, err
	}
	return anns, nil
}

// ListLocated returns announcements carrying coordinates, for the map view.
func (r *PostgresAnnouncementRepository) ListLocated() ([]models.Announcement, error) {
	var anns []models.Announcement
	if err := r.db.Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Order("updated_at DESC").Find(&anns).Error; err != nil {
		return nil, err
	}
	return anns, nil
}
