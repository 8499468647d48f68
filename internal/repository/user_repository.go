package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/ticketbot/internal/codec"
	"github.com/spec-kit/ticketbot/internal/domain"
	"github.com/spec-kit/ticketbot/internal/observability"
	"github.com/spec-kit/ticketbot/internal/persistence"
)

// UserRepository persists user language profiles.
type UserRepository interface {
	Upsert(ctx context.Context, profile domain.UserProfile) error
	GetByID(ctx context.Context, userID int64) (domain.UserProfile, error)
}

type userRepository struct {
	coll    *mongo.Collection
	metrics *observability.Metrics
}

// NewUserRepository instantiates repository.
func NewUserRepository(db *mongo.Database, metrics *observability.Metrics) UserRepository {
	return &userRepository{coll: db.Collection(persistence.UsersCollection), metrics: metrics}
}

func (r *userRepository) Upsert(ctx context.Context, profile domain.UserProfile) error {
	filter := bson.D{{Key: codec.FieldUserID, Value: profile.UserID}}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, filter, codec.EncodeUserProfile(profile), opts); err != nil {
		return fmt.Errorf("upsert user %d: %w", profile.UserID, err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (domain.UserProfile, error) {
	doc, err := findOne(ctx, r.coll, bson.D{{Key: codec.FieldUserID, Value: userID}})
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("get user %d: %w", userID, err)
	}
	profile, err := codec.DecodeUserProfile(doc)
	if err != nil {
		recordDecodeFailure(r.metrics, r.coll.Name(), err)
		return domain.UserProfile{}, fmt.Errorf("get user %d: %w", userID, err)
	}
	return profile, nil
}
