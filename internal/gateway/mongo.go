package gateway

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTables keeps each table in a collection of the same name. Documents
// hold the row columns as top-level fields.
type MongoTables struct {
	db *mongo.Database
}

func NewMongoTables(db *mongo.Database) *MongoTables {
	return &MongoTables{db: db}
}

func (m *MongoTables) Insert(ctx context.Context, table string, v interface{}) error {
	r, err := toRow(v)
	if err != nil {
		return err
	}
	if _, err := m.db.Collection(table).InsertOne(ctx, bson.M(r)); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (m *MongoTables) Select(ctx context.Context, q Query, dest interface{}) error {
	opts := options.Find().SetProjection(mongoProjection(q.Columns))
	cur, err := m.db.Collection(q.Table).Find(ctx, mongoFilter(q.Filters), opts)
	if err != nil {
		return fmt.Errorf("select from %s: %w", q.Table, err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return fmt.Errorf("select from %s: %w", q.Table, err)
	}
	rows := make([]row, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, row(d))
	}
	return decodeRows(rows, dest)
}

func (m *MongoTables) Update(ctx context.Context, q Query, patch interface{}) error {
	if len(q.Filters) == 0 {
		return ErrUnfilteredUpdate
	}
	p, err := toRow(patch)
	if err != nil {
		return err
	}
	if _, err := m.db.Collection(q.Table).UpdateMany(ctx, mongoFilter(q.Filters), bson.M{"$set": bson.M(p)}); err != nil {
		return fmt.Errorf("update %s: %w", q.Table, err)
	}
	return nil
}

func mongoFilter(filters []Filter) bson.M {
	f := bson.M{}
	for _, flt := range filters {
		f[flt.Column] = flt.Value
	}
	return f
}

// mongoProjection never returns _id so rows look the same as from the REST API.
func mongoProjection(cols []string) bson.M {
	p := bson.M{"_id": 0}
	for _, c := range cols {
		p[c] = 1
	}
	return p
}

var _ TableBackend = (*MongoTables)(nil)
