// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storetest holds behaviour checks shared by every store.Database backend.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio-go/internal/store"
)

// Doc is the document shape used by the suite.
type Doc struct {
	ID        string    `json:"_id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Category  string    `json:"category" bson:"category"`
	Published bool      `json:"published" bson:"published"`
	Order     int       `json:"order" bson:"order"`
	When      time.Time `json:"when" bson:"when"`
}

// Run exercises db. Each subtest uses its own collection name so backends
// do not need to be reset between them.
func Run(t *testing.T, db store.Database) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 15, 0, 0, time.UTC)

	seed := func(t *testing.T, coll store.Collection) []Doc {
		t.Helper()
		docs := []Doc{
			{Title: "c", Category: "portrait", Published: true, Order: 3, When: base},
			{Title: "a", Category: "street", Published: true, Order: 1, When: base.Add(10 * time.Minute)},
			{Title: "b", Category: "portrait", Published: false, Order: 2, When: base.Add(70 * time.Minute)},
			{Title: "d", Category: "", Published: true, Order: 4, When: base.Add(3 * time.Hour)},
		}
		for i := range docs {
			docs[i].ID = store.NewID()
			require.NoError(t, coll.Insert(ctx, docs[i].ID, docs[i]))
		}
		return docs
	}

	t.Run("find filters and sorts", func(t *testing.T) {
		coll := db.Collection("suite_find")
		seed(t, coll)

		var got []Doc
		err := coll.Find(ctx, store.Query{
			Filter: store.Filter{store.Eq("published", true)},
			Sort:   []store.Sort{{Field: "order"}},
		}, &got)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"a", "c", "d"}, titles(got))

		got = nil
		err = coll.Find(ctx, store.Query{
			Filter: store.Filter{store.Eq("category", "portrait")},
			Sort:   []store.Sort{{Field: "order", Desc: true}},
		}, &got)
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b"}, titles(got))
	})

	t.Run("find skip and limit", func(t *testing.T) {
		coll := db.Collection("suite_page")
		seed(t, coll)

		var got []Doc
		err := coll.Find(ctx, store.Query{Sort: []store.Sort{{Field: "order"}}, Skip: 1, Limit: 2}, &got)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, titles(got))

		got = nil
		err = coll.Find(ctx, store.Query{Sort: []store.Sort{{Field: "order"}}, Skip: 3}, &got)
		require.NoError(t, err)
		assert.Equal(t, []string{"d"}, titles(got))
	})

	t.Run("find sorts by time", func(t *testing.T) {
		coll := db.Collection("suite_time_sort")
		seed(t, coll)

		var got []Doc
		err := coll.Find(ctx, store.Query{Sort: []store.Sort{{Field: "when", Desc: true}}}, &got)
		require.NoError(t, err)
		assert.Equal(t, []string{"d", "b", "a", "c"}, titles(got))
	})

	t.Run("find one", func(t *testing.T) {
		coll := db.Collection("suite_find_one")
		docs := seed(t, coll)

		var got Doc
		require.NoError(t, coll.FindOne(ctx, store.Query{Filter: store.Filter{store.Eq(store.FieldID, docs[1].ID)}}, &got))
		assert.Equal(t, "a", got.Title)
		assert.True(t, got.When.Equal(docs[1].When))

		err := coll.FindOne(ctx, store.Query{Filter: store.Filter{store.Eq(store.FieldID, store.NewID())}}, &got)
		assert.True(t, errors.Is(err, store.ErrNoDocuments), "err = %v", err)
	})

	t.Run("update one and many", func(t *testing.T) {
		coll := db.Collection("suite_update")
		docs := seed(t, coll)

		n, err := coll.UpdateOne(ctx, store.Filter{store.Eq(store.FieldID, docs[0].ID)}, map[string]any{"title": "", "order": 9})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		var got Doc
		require.NoError(t, coll.FindOne(ctx, store.Query{Filter: store.Filter{store.Eq(store.FieldID, docs[0].ID)}}, &got))
		assert.Equal(t, "", got.Title)
		assert.Equal(t, 9, got.Order)

		n, err = coll.UpdateOne(ctx, store.Filter{store.Eq(store.FieldID, store.NewID())}, map[string]any{"title": "x"})
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)

		n, err = coll.UpdateMany(ctx, store.Filter{
			store.Eq("published", true),
			store.Ne(store.FieldID, docs[1].ID),
		}, map[string]any{"published": false})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		count, err := coll.Count(ctx, store.Filter{store.Eq("published", true)})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("delete one", func(t *testing.T) {
		coll := db.Collection("suite_delete")
		docs := seed(t, coll)

		n, err := coll.DeleteOne(ctx, store.Filter{store.Eq(store.FieldID, docs[2].ID)})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		n, err = coll.DeleteOne(ctx, store.Filter{store.Eq(store.FieldID, docs[2].ID)})
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)

		count, err := coll.Count(ctx, nil)
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)
	})

	t.Run("count with time range", func(t *testing.T) {
		coll := db.Collection("suite_range")
		seed(t, coll)

		n, err := coll.Count(ctx, store.Filter{
			store.Gte("when", base.Add(5*time.Minute)),
			store.Lt("when", base.Add(2*time.Hour)),
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("distinct", func(t *testing.T) {
		coll := db.Collection("suite_distinct")
		seed(t, coll)

		cats, err := coll.Distinct(ctx, "category", nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"portrait", "street"}, cats)
	})

	t.Run("count by hour", func(t *testing.T) {
		coll := db.Collection("suite_hourly")
		seed(t, coll)

		buckets, err := coll.CountByHour(ctx, "when", store.Filter{store.Gte("when", base)})
		require.NoError(t, err)
		require.Len(t, buckets, 3)
		assert.True(t, buckets[0].Hour.Equal(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
		assert.EqualValues(t, 2, buckets[0].Count)
		assert.True(t, buckets[1].Hour.Equal(time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)))
		assert.EqualValues(t, 1, buckets[1].Count)
		assert.True(t, buckets[2].Hour.Equal(time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)))
	})

	t.Run("count by value", func(t *testing.T) {
		coll := db.Collection("suite_by_value")
		seed(t, coll)

		counts, err := coll.CountByValue(ctx, "category", nil, 2)
		require.NoError(t, err)
		require.Len(t, counts, 2)
		assert.Equal(t, store.ValueCount{Value: "portrait", Count: 2}, counts[0])
		assert.EqualValues(t, 1, counts[1].Count)
	})

	t.Run("rejects unsafe field names", func(t *testing.T) {
		coll := db.Collection("suite_fields")
		_, err := coll.Count(ctx, store.Filter{store.Eq("x') OR 1=1 --", 1)})
		assert.Error(t, err)
	})
}

func titles(docs []Doc) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Title)
	}
	return out
}
