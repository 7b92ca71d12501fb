package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultCollection = "kv"

// KVStore keeps each key as one document of a collection.
type KVStore struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewKVStore(db *mongo.Database, log *logger.Logger) *KVStore {
	return &KVStore{
		collection: db.Collection(defaultCollection),
		logger:     log,
	}
}

func (r *KVStore) Load(ctx context.Context, key string) (string, bool, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		r.logger.Debug("KVStore.Load: key not found", "key", key)
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("KVStore.Load: FindOne failed", "key", key, "error", err.Error())
		return "", false, fmt.Errorf("find %q: %w", key, err)
	}
	return doc.Value, true, nil
}

func (r *KVStore) Save(ctx context.Context, key, value string) error {
	doc := kvDocument{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		r.logger.Error("KVStore.Save: ReplaceOne failed", "key", key, "error", err.Error())
		return fmt.Errorf("upsert %q: %w", key, err)
	}
	return nil
}

func (r *KVStore) Remove(ctx context.Context, key string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		r.logger.Error("KVStore.Remove: DeleteOne failed", "key", key, "error", err.Error())
		return fmt.Errorf("delete %q: %w", key, err)
	}
	r.logger.Debug("KVStore.Remove: key removed", "key", key, "deleted", res.DeletedCount)
	return nil
}
