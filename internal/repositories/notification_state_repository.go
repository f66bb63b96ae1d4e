package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

// NotificationStateRepository defines the interface for per-user read/push
// bookkeeping
type NotificationStateRepository interface {
	GetState(ctx context.Context, userID uint) (*models.NotificationState, error)
	AddReadKeys(ctx context.Context, userID uint, keys []string) error
	AddPushedKey(ctx context.Context, userID uint, key string) error
	SetPreferences(ctx context.Context, userID uint, prefs models.PushPreferences) error
}

// MongoNotificationStateRepository implements NotificationStateRepository
// for MongoDB
type MongoNotificationStateRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationStateRepository creates a new MongoNotificationStateRepository
func NewMongoNotificationStateRepository(db *mongo.Database) *MongoNotificationStateRepository {
	return &MongoNotificationStateRepository{collection: db.Collection("notification_state")}
}

// GetState returns the user's state document, or an empty default when the
// user has never touched notifications.
func (r *MongoNotificationStateRepository) GetState(ctx context.Context, userID uint) (*models.NotificationState, error) {
	var state models.NotificationState
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&state)
	if err == mongo.ErrNoDocuments {
		return &models.NotificationState{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *MongoNotificationStateRepository) AddReadKeys(ctx context.Context, userID uint, keys []string) error {
	update := bson.M{
		"$addToSet": bson.M{"read_keys": bson.M{"$each": keys}},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, opts)
	return err
}

// AddPushedKey records that a version key was pushed, so the same version
// never pushes twice.
func (r *MongoNotificationStateRepository) AddPushedKey(ctx context.Context, userID uint, key string) error {
	update := bson.M{
		"$addToSet": bson.M{"pushed_keys": key},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, opts)
	return err
}

func (r *MongoNotificationStateRepository) SetPreferences(ctx context.Context, userID uint, prefs models.PushPreferences) error {
	update := bson.M{
		"$set": bson.M{"prefs": prefs, "updated_at": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, opts)
	return err
}
