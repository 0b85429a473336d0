package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildInsert(t *testing.T) {
	sql, args := buildInsert("Reservations", row{"user_id": "u1", "date": "2030-01-02", "reason": nil})
	require.Equal(t, `INSERT INTO "Reservations" ("date", "reason", "user_id") VALUES ($1, $2, $3)`, sql)
	require.Equal(t, []interface{}{"2030-01-02", nil, "u1"}, args)
}

func TestBuildSelect(t *testing.T) {
	sql, args := buildSelect(Query{Table: "Reservations", Columns: []string{"reason"}, Filters: []Filter{{Column: "reservation_id", Value: "r1"}}})
	require.Equal(t, `SELECT coalesce(json_agg(t), '[]'::json) FROM (SELECT "reason" FROM "Reservations" WHERE "reservation_id" = $1) t`, sql)
	require.Equal(t, []interface{}{"r1"}, args)

	sql, args = buildSelect(Query{Table: "Reservations"})
	require.Equal(t, `SELECT coalesce(json_agg(t), '[]'::json) FROM (SELECT * FROM "Reservations") t`, sql)
	require.Empty(t, args)
}

func TestBuildUpdate(t *testing.T) {
	q := Query{Table: "Reservations", Filters: []Filter{{Column: "reservation_id", Value: "r1"}, {Column: "reason", Value: nil}}}
	sql, args := buildUpdate(q, row{"is_accepted": false, "reason": "closed"})
	require.Equal(t, `UPDATE "Reservations" SET "is_accepted" = $1, "reason" = $2 WHERE "reservation_id" = $3 AND "reason" IS NULL`, sql)
	require.Equal(t, []interface{}{false, "closed", "r1"}, args)
}

func TestMongoFilterAndProjection(t *testing.T) {
	f := mongoFilter([]Filter{{Column: "user_id", Value: "u1"}})
	require.Equal(t, bson.M{"user_id": "u1"}, f)
	require.Equal(t, bson.M{"_id": 0, "reason": 1}, mongoProjection([]string{"reason"}))
	require.Equal(t, bson.M{"_id": 0}, mongoProjection(nil))
}
