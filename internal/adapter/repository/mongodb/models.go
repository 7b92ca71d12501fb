package mongodb

import "time"

// kvDocument holds one key of the board in the kv collection.
type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}
