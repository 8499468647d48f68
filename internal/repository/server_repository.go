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

// ServerRepository persists per-guild configuration.
type ServerRepository interface {
	Upsert(ctx context.Context, cfg domain.ServerConfig) error
	GetByID(ctx context.Context, serverID int64) (domain.ServerConfig, error)
}

type serverRepository struct {
	coll    *mongo.Collection
	metrics *observability.Metrics
}

// NewServerRepository instantiates repository.
func NewServerRepository(db *mongo.Database, metrics *observability.Metrics) ServerRepository {
	return &serverRepository{coll: db.Collection(persistence.ServersCollection), metrics: metrics}
}

func (r *serverRepository) Upsert(ctx context.Context, cfg domain.ServerConfig) error {
	filter := bson.D{{Key: codec.FieldServerID, Value: cfg.ServerID}}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, filter, codec.EncodeServerConfig(cfg), opts); err != nil {
		return fmt.Errorf("upsert server %d: %w", cfg.ServerID, err)
	}
	return nil
}

func (r *serverRepository) GetByID(ctx context.Context, serverID int64) (domain.ServerConfig, error) {
	doc, err := findOne(ctx, r.coll, bson.D{{Key: codec.FieldServerID, Value: serverID}})
	if err != nil {
		return domain.ServerConfig{}, fmt.Errorf("get server %d: %w", serverID, err)
	}
	cfg, err := codec.DecodeServerConfig(doc)
	if err != nil {
		recordDecodeFailure(r.metrics, r.coll.Name(), err)
		return domain.ServerConfig{}, fmt.Errorf("get server %d: %w", serverID, err)
	}
	return cfg, nil
}
