package sessions

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps the key/value map as fields of a single document.
type MongoStore struct {
	col *mongo.Collection
	id  string
}

func NewMongoStore(col *mongo.Collection, id string) *MongoStore {
	if id == "" {
		id = "prefs"
	}
	return &MongoStore{col: col, id: id}
}

func (m *MongoStore) Save(ctx context.Context, key, value string) error {
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, bson.M{"_id": m.id}, bson.M{"$set": bson.M{key: value}}, opts)
	return err
}

func (m *MongoStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc bson.M
	if err := m.col.FindOne(ctx, bson.M{"_id": m.id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", false, nil
		}
		return "", false, err
	}
	v, ok := doc[key].(string)
	return v, ok, nil
}

func (m *MongoStore) Clear(ctx context.Context) error {
	_, err := m.col.DeleteOne(ctx, bson.M{"_id": m.id})
	return err
}
