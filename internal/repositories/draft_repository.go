package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

// DraftRepository defines the interface for report draft snapshots
type DraftRepository interface {
	SaveDraft(ctx context.Context, draft *models.ReportDraft) error
	GetDraft(ctx context.Context, userID uint) (*models.ReportDraft, error)
	DeleteDraft(ctx context.Context, userID uint) error
}

// MongoDraftRepository implements DraftRepository for MongoDB
type MongoDraftRepository struct {
	collection *mongo.Collection
}

// NewMongoDraftRepository creates a new MongoDraftRepository
func NewMongoDraftRepository(db *mongo.Database) *MongoDraftRepository {
	return &MongoDraftRepository{collection: db.Collection("report_drafts")}
}

// SaveDraft snapshots the whole form; one draft per user, newest wins.
func (r *MongoDraftRepository) SaveDraft(ctx context.Context, draft *models.ReportDraft) error {
	draft.SavedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"user_id": draft.UserID}, draft, opts)
	return err
}

// GetDraft returns the user's draft, or nil when none is stored.
func (r *MongoDraftRepository) GetDraft(ctx context.Context, userID uint) (*models.ReportDraft, error) {
	var draft models.ReportDraft
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&draft)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *MongoDraftRepository) DeleteDraft(ctx context.Context, userID uint) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}
