// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// SQLite stores documents as JSON in a single table keyed by (collection, id).
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens path, runs migrations and returns the document database.
func NewSQLite(path string) (*SQLite, error) {
	db, err := NewDB(path, DefaultDBConfig())
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Collection implements Database.
func (s *SQLite) Collection(name string) Collection {
	return &sqliteCollection{db: s.db, name: name}
}

// Ping implements Database.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements Database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Backend implements Database.
func (s *SQLite) Backend() string { return "sqlite" }

type sqliteCollection struct {
	db   *sql.DB
	name string
}

func jsonPath(field string) string {
	return "'$." + field + "'"
}

func fieldExpr(field string) string {
	if field == FieldID {
		return "id"
	}
	return "json_extract(data, " + jsonPath(field) + ")"
}

// where renders f as a SQL condition scoped to the collection.
func (c *sqliteCollection) where(f Filter) (string, []any, error) {
	clauses := []string{"collection = ?"}
	args := []any{c.name}

	for _, cond := range f {
		if err := ValidField(cond.Field); err != nil {
			return "", nil, err
		}

		expr := fieldExpr(cond.Field)
		param := "?"
		var arg any

		switch v := cond.Value.(type) {
		case time.Time:
			expr = "julianday(" + expr + ")"
			param = "julianday(?)"
			arg = v.UTC().Format(time.RFC3339Nano)
		case bool:
			if v {
				arg = 1
			} else {
				arg = 0
			}
		default:
			arg = v
		}

		var op string
		switch cond.Op {
		case OpEq:
			op = "IS"
		case OpNe:
			op = "IS NOT"
		case OpGte:
			op = ">="
		case OpLt:
			op = "<"
		default:
			return "", nil, fmt.Errorf("unsupported operator %d", cond.Op)
		}

		clauses = append(clauses, expr+" "+op+" "+param)
		args = append(args, arg)
	}

	return strings.Join(clauses, " AND "), args, nil
}

// orderBy renders the sort. Dates sort chronologically through julianday;
// other values (where julianday yields NULL) sort by their raw JSON value.
func orderBy(sorts []Sort) (string, error) {
	if len(sorts) == 0 {
		return " ORDER BY rowid", nil
	}
	parts := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		if err := ValidField(s.Field); err != nil {
			return "", err
		}
		expr := fieldExpr(s.Field)
		if s.Field != FieldID {
			expr = "CASE WHEN json_type(data, " + jsonPath(s.Field) + ") = 'text' " +
				"THEN coalesce(julianday(" + expr + "), " + expr + ") ELSE " + expr + " END"
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, expr+" "+dir)
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func (c *sqliteCollection) Find(ctx context.Context, q Query, out any) error {
	where, args, err := c.where(q.Filter)
	if err != nil {
		return err
	}
	order, err := orderBy(q.Sort)
	if err != nil {
		return err
	}

	query := "SELECT data FROM documents WHERE " + where + order
	if q.Limit > 0 || q.Skip > 0 {
		limit := q.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, q.Skip)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying %s: %w", c.name, err)
	}
	defer func() { _ = rows.Close() }()

	var buf strings.Builder
	buf.WriteByte('[')
	n := 0
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("scanning %s: %w", c.name, err)
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(data)
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s: %w", c.name, err)
	}
	buf.WriteByte(']')

	if err := json.Unmarshal([]byte(buf.String()), out); err != nil {
		return fmt.Errorf("decoding %s: %w", c.name, err)
	}
	return nil
}

func (c *sqliteCollection) FindOne(ctx context.Context, q Query, out any) error {
	where, args, err := c.where(q.Filter)
	if err != nil {
		return err
	}
	order, err := orderBy(q.Sort)
	if err != nil {
		return err
	}

	var data string
	err = c.db.QueryRowContext(ctx, "SELECT data FROM documents WHERE "+where+order+" LIMIT 1", args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoDocuments
	}
	if err != nil {
		return fmt.Errorf("querying %s: %w", c.name, err)
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("decoding %s: %w", c.name, err)
	}
	return nil
}

func (c *sqliteCollection) Insert(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s document: %w", c.name, err)
	}

	_, err = c.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, data) VALUES (?, ?, json_set(?, '$._id', ?))",
		c.name, id, string(data), id)
	if err != nil {
		return fmt.Errorf("inserting into %s: %w", c.name, err)
	}
	return nil
}

// setExpr renders the json_set call applying set to the data column.
func setExpr(set map[string]any) (string, []any, error) {
	if len(set) == 0 {
		return "", nil, errors.New("empty update")
	}
	var b strings.Builder
	b.WriteString("json_set(data")
	args := make([]any, 0, len(set))
	for _, k := range slices.Sorted(maps.Keys(set)) {
		if err := ValidField(k); err != nil {
			return "", nil, err
		}
		v, err := json.Marshal(set[k])
		if err != nil {
			return "", nil, fmt.Errorf("encoding field %s: %w", k, err)
		}
		b.WriteString(", " + jsonPath(k) + ", json(?)")
		args = append(args, string(v))
	}
	b.WriteString(")")
	return b.String(), args, nil
}

func (c *sqliteCollection) UpdateOne(ctx context.Context, f Filter, set map[string]any) (int64, error) {
	expr, setArgs, err := setExpr(set)
	if err != nil {
		return 0, err
	}
	where, args, err := c.where(f)
	if err != nil {
		return 0, err
	}

	query := "UPDATE documents SET data = " + expr +
		" WHERE rowid = (SELECT rowid FROM documents WHERE " + where + " ORDER BY rowid LIMIT 1)"
	res, err := c.db.ExecContext(ctx, query, append(setArgs, args...)...)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", c.name, err)
	}
	return res.RowsAffected()
}

func (c *sqliteCollection) UpdateMany(ctx context.Context, f Filter, set map[string]any) (int64, error) {
	expr, setArgs, err := setExpr(set)
	if err != nil {
		return 0, err
	}
	where, args, err := c.where(f)
	if err != nil {
		return 0, err
	}

	res, err := c.db.ExecContext(ctx, "UPDATE documents SET data = "+expr+" WHERE "+where, append(setArgs, args...)...)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", c.name, err)
	}
	return res.RowsAffected()
}

func (c *sqliteCollection) DeleteOne(ctx context.Context, f Filter) (int64, error) {
	where, args, err := c.where(f)
	if err != nil {
		return 0, err
	}

	query := "DELETE FROM documents WHERE rowid = (SELECT rowid FROM documents WHERE " + where + " ORDER BY rowid LIMIT 1)"
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", c.name, err)
	}
	return res.RowsAffected()
}

func (c *sqliteCollection) Count(ctx context.Context, f Filter) (int64, error) {
	where, args, err := c.where(f)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE "+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", c.name, err)
	}
	return n, nil
}

func (c *sqliteCollection) Distinct(ctx context.Context, field string, f Filter) ([]string, error) {
	if err := ValidField(field); err != nil {
		return nil, err
	}
	where, args, err := c.where(f)
	if err != nil {
		return nil, err
	}

	expr := fieldExpr(field)
	query := "SELECT DISTINCT " + expr + " AS v FROM documents WHERE " + where +
		" AND json_type(data, " + jsonPath(field) + ") = 'text' AND " + expr + " <> '' ORDER BY v"
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying distinct %s.%s: %w", c.name, field, err)
	}
	defer func() { _ = rows.Close() }()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning distinct %s.%s: %w", c.name, field, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (c *sqliteCollection) CountByHour(ctx context.Context, field string, f Filter) ([]HourCount, error) {
	if err := ValidField(field); err != nil {
		return nil, err
	}
	where, args, err := c.where(f)
	if err != nil {
		return nil, err
	}

	bucket := "strftime('%Y-%m-%dT%H:00:00Z', " + fieldExpr(field) + ")"
	query := "SELECT " + bucket + " AS hour, COUNT(*) FROM documents WHERE " + where +
		" AND " + bucket + " IS NOT NULL GROUP BY hour ORDER BY hour"
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("grouping %s by hour: %w", c.name, err)
	}
	defer func() { _ = rows.Close() }()

	counts := []HourCount{}
	for rows.Next() {
		var (
			hour string
			n    int64
		)
		if err := rows.Scan(&hour, &n); err != nil {
			return nil, fmt.Errorf("scanning hourly %s: %w", c.name, err)
		}
		t, err := time.Parse(time.RFC3339, hour)
		if err != nil {
			return nil, fmt.Errorf("parsing hour %q: %w", hour, err)
		}
		counts = append(counts, HourCount{Hour: t, Count: n})
	}
	return counts, rows.Err()
}

func (c *sqliteCollection) CountByValue(ctx context.Context, field string, f Filter, limit int) ([]ValueCount, error) {
	if err := ValidField(field); err != nil {
		return nil, err
	}
	where, args, err := c.where(f)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = -1
	}
	query := "SELECT coalesce(" + fieldExpr(field) + ", '') AS v, COUNT(*) AS n FROM documents WHERE " + where +
		" GROUP BY v ORDER BY n DESC, v ASC LIMIT ?"
	rows, err := c.db.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("grouping %s by %s: %w", c.name, field, err)
	}
	defer func() { _ = rows.Close() }()

	counts := []ValueCount{}
	for rows.Next() {
		var vc ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, fmt.Errorf("scanning %s counts: %w", c.name, err)
		}
		counts = append(counts, vc)
	}
	return counts, rows.Err()
}
