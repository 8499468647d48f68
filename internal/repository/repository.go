package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/ticketbot/internal/codec"
	"github.com/spec-kit/ticketbot/internal/observability"
)

// ErrDuplicate is returned when a unique index rejects an insert.
var ErrDuplicate = errors.New("record already exists")

// findOne loads a single raw document; mongo.ErrNoDocuments when absent.
func findOne(ctx context.Context, coll *mongo.Collection, filter bson.D) (bson.D, error) {
	var doc bson.D
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// findAll decodes every matching document with decode, in cursor order.
// A document that fails to decode aborts the whole read.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.D, opts []*options.FindOptions, decode func(bson.D) (T, error), metrics *observability.Metrics) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := []T{}
	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		item, err := decode(doc)
		if err != nil {
			recordDecodeFailure(metrics, coll.Name(), err)
			return nil, err
		}
		result = append(result, item)
	}
	return result, cursor.Err()
}

func recordDecodeFailure(metrics *observability.Metrics, collection string, err error) {
	var decodeErr *codec.DecodeError
	if errors.As(err, &decodeErr) {
		metrics.RecordDecodeFailure(collection)
	}
}

func mapWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
