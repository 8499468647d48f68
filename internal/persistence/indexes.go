package persistence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketbot/internal/codec"
)

// Collection names.
const (
	TicketsCollection = "tickets"
	ServersCollection = "servers"
	UsersCollection   = "users"
)

// collectionIndexes lists the indexes each collection needs.
var collectionIndexes = map[string][]mongo.IndexModel{
	TicketsCollection: {
		{
			Keys:    bson.D{{Key: codec.FieldTicketID, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("ticket_id_unique"),
		},
		{
			Keys:    bson.D{{Key: codec.FieldServerID, Value: 1}, {Key: codec.FieldUserID, Value: 1}},
			Options: options.Index().SetName("server_user"),
		},
		{
			Keys:    bson.D{{Key: codec.FieldServerID, Value: 1}, {Key: codec.FieldStatus, Value: 1}},
			Options: options.Index().SetName("server_status"),
		},
	},
	ServersCollection: {
		{
			Keys:    bson.D{{Key: codec.FieldServerID, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("server_id_unique"),
		},
	},
	UsersCollection: {
		{
			Keys:    bson.D{{Key: codec.FieldUserID, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_id_unique"),
		},
	},
}

// EnsureIndexes creates the indexes the repositories query by.
// Creating an index that already exists is a no-op on the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no mongo database available; skipping indexes")
		return nil
	}

	for _, name := range []string{TicketsCollection, ServersCollection, UsersCollection} {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, collectionIndexes[name])
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		logger.Info("indexes ensured", zap.String("collection", name), zap.Strings("indexes", created))
	}
	return nil
}
