package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

const pgUniqueViolation = "23505"

// ReportRepository defines the interface for outage report operations
type ReportRepository interface {
	// UpsertPending inserts the report, or, when a pending report for the
	// same (user, barangay, cause) already exists, refreshes that row in
	// place. The returned flag is true when an existing row was updated.
	UpsertPending(report *models.Report) (bool, error)
	GetReportByID(id uint) (*models.Report, error)
	GetReportsByUser(userID uint) ([]models.Report, error)
	GetVisibleReports() ([]models.Report, error)
	GetPendingReports() ([]models.Report, error)
	UpdateStatus(id uint, status string) error
	AppendImageURL(id uint, url string) error
	DeleteOwnReport(id, userID uint) error
}

// PostgresReportRepository implements ReportRepository for PostgreSQL
type PostgresReportRepository struct {
	db *gorm.DB
}

// NewPostgresReportRepository creates a new PostgresReportRepository
func NewPostgresReportRepository(db *gorm.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *PostgresReportRepository) UpsertPending(report *models.Report) (bool, error) {
	err := r.db.Create(report).Error
	if err == nil {
		return false, nil
	}
	if !isUniqueViolation(err) {
		return false, err
	}

	// Same open ticket re-reported: refresh it instead of duplicating.
	var existing models.Report
	if err := r.db.Where("user_id = ? AND barangay = ? AND cause = ? AND status = ?",
		report.UserID, report.Barangay, report.Cause, models.ReportStatusPending).
		First(&existing).Error; err != nil {
		return false, err
	}

	updates := map[string]interface{}{
		"started_at":    report.StartedAt,
		"description":   report.Description,
		"latitude":      report.Latitude,
		"longitude":     report.Longitude,
		"sentiment":     report.Sentiment,
		"allow_contact": report.AllowContact,
		"contact_phone": report.ContactPhone,
	}
	if err := r.db.Model(&existing).Updates(updates).Error; err != nil {
		return false, err
	}
	*report = existing
	return true, nil
}

func (r *PostgresReportRepository) GetReportByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *PostgresReportRepository) GetReportsByUser(userID uint) ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.Where("user_id = ?", userID).
		Order("started_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// GetVisibleReports returns every report an admin has accepted, the set the
// calendar view buckets.
func (r *PostgresReportRepository) GetVisibleReports() ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.Where("status <> ?", models.ReportStatusPending).
		Order("started_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *PostgresReportRepository) GetPendingReports() ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.Where("status = ?", models.ReportStatusPending).
		Order("created_at ASC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *PostgresReportRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Report{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PostgresReportRepository) AppendImageURL(id uint, url string) error {
	report, err := r.GetReportByID(id)
	if err != nil {
		return err
	}
	report.ImageURLs = append(report.ImageURLs, url)
	return r.db.Model(report).Update("image_urls", report.ImageURLs).Error
}

func (r *PostgresReportRepository) DeleteOwnReport(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Report{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
