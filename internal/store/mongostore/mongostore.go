// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mongostore implements store.Database on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/olegiv/folio-go/internal/store"
)

const hourFormat = "%Y-%m-%dT%H:00:00Z"

// Database wraps a MongoDB database.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri and selects database name.
// An unreachable server is logged and does not fail startup; the driver
// reconnects on demand.
func Open(ctx context.Context, uri, name string, logger *slog.Logger) (*Database, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(5 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Warn("mongodb not reachable at startup, continuing", "error", err)
	} else {
		logger.Info("connected to mongodb", "database", name)
	}

	return &Database{client: client, db: client.Database(name)}, nil
}

// Collection implements store.Database.
func (d *Database) Collection(name string) store.Collection {
	return &collection{coll: d.db.Collection(name)}
}

// Ping implements store.Database.
func (d *Database) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// Close implements store.Database.
func (d *Database) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

// Backend implements store.Database.
func (d *Database) Backend() string { return "mongo" }

type collection struct {
	coll *mongo.Collection
}

var operators = map[store.Op]string{
	store.OpEq:  "$eq",
	store.OpNe:  "$ne",
	store.OpGte: "$gte",
	store.OpLt:  "$lt",
}

// toBSON converts a filter. Conditions on the same field are merged.
func toBSON(f store.Filter) (bson.M, error) {
	m := bson.M{}
	for _, c := range f {
		if err := store.ValidField(c.Field); err != nil {
			return nil, err
		}
		op, ok := operators[c.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported operator %d", c.Op)
		}
		v := c.Value
		if t, isTime := v.(time.Time); isTime {
			v = t.UTC()
		}
		ops, _ := m[c.Field].(bson.M)
		if ops == nil {
			ops = bson.M{}
			m[c.Field] = ops
		}
		ops[op] = v
	}
	return m, nil
}

func toSort(sorts []store.Sort) bson.D {
	d := make(bson.D, 0, len(sorts)+1)
	for _, s := range sorts {
		dir := 1
		if s.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: s.Field, Value: dir})
	}
	return append(d, bson.E{Key: store.FieldID, Value: 1})
}

func (c *collection) Find(ctx context.Context, q store.Query, out any) error {
	filter, err := toBSON(q.Filter)
	if err != nil {
		return err
	}

	opts := options.Find().SetSort(toSort(q.Sort))
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("querying %s: %w", c.coll.Name(), err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decoding %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *collection) FindOne(ctx context.Context, q store.Query, out any) error {
	filter, err := toBSON(q.Filter)
	if err != nil {
		return err
	}

	err = c.coll.FindOne(ctx, filter, options.FindOne().SetSort(toSort(q.Sort))).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNoDocuments
	}
	if err != nil {
		return fmt.Errorf("querying %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *collection) Insert(ctx context.Context, id string, doc any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s document: %w", c.coll.Name(), err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("encoding %s document: %w", c.coll.Name(), err)
	}
	m[store.FieldID] = id

	if _, err := c.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("inserting into %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *collection) UpdateOne(ctx context.Context, f store.Filter, set map[string]any) (int64, error) {
	filter, err := toBSON(f)
	if err != nil {
		return 0, err
	}
	res, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", c.coll.Name(), err)
	}
	return res.MatchedCount, nil
}

func (c *collection) UpdateMany(ctx context.Context, f store.Filter, set map[string]any) (int64, error) {
	filter, err := toBSON(f)
	if err != nil {
		return 0, err
	}
	res, err := c.coll.UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", c.coll.Name(), err)
	}
	return res.MatchedCount, nil
}

func (c *collection) DeleteOne(ctx context.Context, f store.Filter) (int64, error) {
	filter, err := toBSON(f)
	if err != nil {
		return 0, err
	}
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", c.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

func (c *collection) Count(ctx context.Context, f store.Filter) (int64, error) {
	filter, err := toBSON(f)
	if err != nil {
		return 0, err
	}
	n, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", c.coll.Name(), err)
	}
	return n, nil
}

func (c *collection) Distinct(ctx context.Context, field string, f store.Filter) ([]string, error) {
	if err := store.ValidField(field); err != nil {
		return nil, err
	}
	filter, err := toBSON(f)
	if err != nil {
		return nil, err
	}

	var raw []any
	if err := c.coll.Distinct(ctx, field, filter).Decode(&raw); err != nil {
		return nil, fmt.Errorf("querying distinct %s.%s: %w", c.coll.Name(), field, err)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	return values, nil
}

func (c *collection) aggregate(ctx context.Context, pipeline bson.A, out any) error {
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregating %s: %w", c.coll.Name(), err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decoding %s aggregate: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *collection) CountByHour(ctx context.Context, field string, f store.Filter) ([]store.HourCount, error) {
	if err := store.ValidField(field); err != nil {
		return nil, err
	}
	filter, err := toBSON(f)
	if err != nil {
		return nil, err
	}

	pipeline := bson.A{
		bson.M{"$match": filter},
		bson.M{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   hourFormat,
				"date":     "$" + field,
				"timezone": "UTC",
			}},
			"count": bson.M{"$sum": 1},
		}},
		bson.M{"$sort": bson.M{"_id": 1}},
	}

	var rows []struct {
		Hour  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := c.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}

	counts := make([]store.HourCount, 0, len(rows))
	for _, r := range rows {
		t, err := time.Parse(time.RFC3339, r.Hour)
		if err != nil {
			return nil, fmt.Errorf("parsing hour %q: %w", r.Hour, err)
		}
		counts = append(counts, store.HourCount{Hour: t, Count: r.Count})
	}
	return counts, nil
}

func (c *collection) CountByValue(ctx context.Context, field string, f store.Filter, limit int) ([]store.ValueCount, error) {
	if err := store.ValidField(field); err != nil {
		return nil, err
	}
	filter, err := toBSON(f)
	if err != nil {
		return nil, err
	}

	pipeline := bson.A{
		bson.M{"$match": filter},
		bson.M{"$group": bson.M{
			"_id":   bson.M{"$ifNull": bson.A{"$" + field, ""}},
			"count": bson.M{"$sum": 1},
		}},
		bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.M{"$limit": limit})
	}

	var rows []struct {
		Value string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := c.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}

	counts := make([]store.ValueCount, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, store.ValueCount{Value: r.Value, Count: r.Count})
	}
	return counts, nil
}
