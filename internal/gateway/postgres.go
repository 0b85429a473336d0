package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxConn is the part of *pgxpool.Pool used here.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresTables reads and writes the backend's Postgres tables directly,
// bypassing the REST layer. Row level security does not apply on this path.
type PostgresTables struct {
	conn pgxConn
}

func NewPostgresTables(conn pgxConn) *PostgresTables {
	return &PostgresTables{conn: conn}
}

func (p *PostgresTables) Insert(ctx context.Context, table string, v interface{}) error {
	r, err := toRow(v)
	if err != nil {
		return err
	}
	sql, args := buildInsert(table, r)
	if _, err := p.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (p *PostgresTables) Select(ctx context.Context, q Query, dest interface{}) error {
	sql, args := buildSelect(q)
	var raw []byte
	if err := p.conn.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return fmt.Errorf("select from %s: %w", q.Table, err)
	}
	return decodeJSONRows(raw, dest)
}

func (p *PostgresTables) Update(ctx context.Context, q Query, patch interface{}) error {
	if len(q.Filters) == 0 {
		return ErrUnfilteredUpdate
	}
	r, err := toRow(patch)
	if err != nil {
		return err
	}
	sql, args := buildUpdate(q, r)
	if _, err := p.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update %s: %w", q.Table, err)
	}
	return nil
}

func ident(name string) string { return pgx.Identifier{name}.Sanitize() }

func buildInsert(table string, r row) (string, []interface{}) {
	keys := sortedKeys(r)
	cols := make([]string, len(keys))
	marks := make([]string, len(keys))
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		cols[i] = ident(k)
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = r[k]
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", ident(table), strings.Join(cols, ", "), strings.Join(marks, ", ")), args
}

// buildSelect aggregates the result into one JSON array so rows decode the
// same way as REST responses.
func buildSelect(q Query) (string, []interface{}) {
	cols := "*"
	if len(q.Columns) > 0 {
		quoted := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			quoted[i] = ident(c)
		}
		cols = strings.Join(quoted, ", ")
	}
	where, args := buildWhere(q.Filters, 1)
	inner := fmt.Sprintf("SELECT %s FROM %s%s", cols, ident(q.Table), where)
	return fmt.Sprintf("SELECT coalesce(json_agg(t), '[]'::json) FROM (%s) t", inner), args
}

func buildUpdate(q Query, patch row) (string, []interface{}) {
	keys := sortedKeys(patch)
	sets := make([]string, len(keys))
	args := make([]interface{}, 0, len(keys)+len(q.Filters))
	for i, k := range keys {
		sets[i] = fmt.Sprintf("%s = $%d", ident(k), i+1)
		args = append(args, patch[k])
	}
	where, wargs := buildWhere(q.Filters, len(keys)+1)
	return fmt.Sprintf("UPDATE %s SET %s%s", ident(q.Table), strings.Join(sets, ", "), where), append(args, wargs...)
}

func buildWhere(filters []Filter, first int) (string, []interface{}) {
	if len(filters) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(filters))
	args := make([]interface{}, 0, len(filters))
	n := first
	for _, f := range filters {
		if f.Value == nil {
			conds = append(conds, ident(f.Column)+" IS NULL")
			continue
		}
		conds = append(conds, fmt.Sprintf("%s = $%d", ident(f.Column), n))
		args = append(args, f.Value)
		n++
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var _ TableBackend = (*PostgresTables)(nil)
