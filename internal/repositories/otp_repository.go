package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

// OTPRepository defines the interface for signup verification codes
type OTPRepository interface {
	SaveCode(ctx context.Context, email, code string, ttl time.Duration) error
	ConsumeCode(ctx context.Context, email, code string) (bool, error)
}

// MongoOTPRepository implements OTPRepository for MongoDB
type MongoOTPRepository struct {
	collection *mongo.Collection
}

// NewMongoOTPRepository creates a new MongoOTPRepository
func NewMongoOTPRepository(db *mongo.Database) *MongoOTPRepository {
	return &MongoOTPRepository{collection: db.Collection("otp_codes")}
}

// SaveCode stores the code for the address, replacing any earlier one.
func (r *MongoOTPRepository) SaveCode(ctx context.Context, email, code string, ttl time.Duration) error {
	doc := models.OTPCode{Email: email, Code: code, ExpiresAt: time.Now().Add(ttl)}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"email": email}, doc, opts)
	return err
}

// ConsumeCode checks and deletes the code; expired or wrong codes fail
// without side effects.
func (r *MongoOTPRepository) ConsumeCode(ctx context.Context, email, code string) (bool, error) {
	var stored models.OTPCode
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&stored)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored.Code != code || time.Now().After(stored.ExpiresAt) {
		return false, nil
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"email": email})
	return err == nil, err
}
