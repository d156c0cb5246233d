// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olegiv/folio-go/internal/store"
)

var errStoreDown = errors.New("store down")

// failingDB is a store.Database whose collections fail every call.
type failingDB struct{}

func (failingDB) Collection(string) store.Collection { return failingCollection{} }
func (failingDB) Ping(context.Context) error         { return errStoreDown }
func (failingDB) Close() error                       { return nil }
func (failingDB) Backend() string                    { return "failing" }

type failingCollection struct{}

func (failingCollection) Find(context.Context, store.Query, any) error    { return errStoreDown }
func (failingCollection) FindOne(context.Context, store.Query, any) error { return errStoreDown }
func (failingCollection) Insert(context.Context, string, any) error       { return errStoreDown }
func (failingCollection) UpdateOne(context.Context, store.Filter, map[string]any) (int64, error) {
	return 0, errStoreDown
}
func (failingCollection) UpdateMany(context.Context, store.Filter, map[string]any) (int64, error) {
	return 0, errStoreDown
}
func (failingCollection) DeleteOne(context.Context, store.Filter) (int64, error) {
	return 0, errStoreDown
}
func (failingCollection) Count(context.Context, store.Filter) (int64, error) { return 0, errStoreDown }
func (failingCollection) Distinct(context.Context, string, store.Filter) ([]string, error) {
	return nil, errStoreDown
}
func (failingCollection) CountByHour(context.Context, string, store.Filter) ([]store.HourCount, error) {
	return nil, errStoreDown
}
func (failingCollection) CountByValue(context.Context, string, store.Filter, int) ([]store.ValueCount, error) {
	return nil, errStoreDown
}

// setNow pins timeNow for the duration of the test.
func setNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}

func ptr[T any](v T) *T { return &v }

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
