// File: internal/proxy/mongo_store.go
package proxy

import (
	"context"
	"fmt"

	platformmongo "servicehub_backend/internal/platform/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStore implements Store against the shared document-store client.
type mongoStore struct {
	provider *platformmongo.Provider
}

// NewMongoStore creates a Store backed by the shared client provider.
func NewMongoStore(provider *platformmongo.Provider) Store {
	return &mongoStore{provider: provider}
}

func (s *mongoStore) Find(ctx context.Context, db, coll string, filter bson.M, opts *FindOptions) ([]bson.M, error) {
	database, err := s.provider.Database(ctx, db)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find()
	if opts != nil {
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
		if opts.Skip > 0 {
			findOpts.SetSkip(opts.Skip)
		}
		if opts.Sort != nil {
			findOpts.SetSort(opts.Sort)
		}
		if opts.Projection != nil {
			findOpts.SetProjection(opts.Projection)
		}
	}

	cursor, err := database.Collection(coll).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *mongoStore) Count(ctx context.Context, db, coll string, filter bson.M) (int64, error) {
	database, err := s.provider.Database(ctx, db)
	if err != nil {
		return 0, err
	}
	return database.Collection(coll).CountDocuments(ctx, filter)
}

func (s *mongoStore) InsertMany(ctx context.Context, db, coll string, docs []bson.M) ([]string, error) {
	database, err := s.provider.Database(ctx, db)
	if err != nil {
		return nil, err
	}

	payload := make([]interface{}, len(docs))
	for i, d := range docs {
		payload[i] = d
	}
	result, err := database.Collection(coll).InsertMany(ctx, payload)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(result.InsertedIDs))
	for i, id := range result.InsertedIDs {
		ids[i] = insertedIDString(id)
	}
	return ids, nil
}

// insertedIDString renders a driver-echoed inserted id as a string. Callers
// may supply their own _id of any type and the driver echoes it verbatim, so
// the value must round-trip; a fabricated id would point at nothing.
func insertedIDString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (s *mongoStore) UpdateMany(ctx context.Context, db, coll string, filter, update bson.M, opts *UpdateOptions) (*UpdateResult, error) {
	database, err := s.provider.Database(ctx, db)
	if err != nil {
		return nil, err
	}

	updateOpts := options.Update()
	if opts != nil && opts.Upsert {
		updateOpts.SetUpsert(true)
	}

	result, err := database.Collection(coll).UpdateMany(ctx, filter, update, updateOpts)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{
		ModifiedCount: result.ModifiedCount,
		UpsertedCount: result.UpsertedCount,
	}, nil
}

func (s *mongoStore) DeleteMany(ctx context.Context, db, coll string, filter bson.M) (int64, error) {
	database, err := s.provider.Database(ctx, db)
	if err != nil {
		return 0, err
	}
	result, err := database.Collection(coll).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.provider.Ping(ctx)
}
