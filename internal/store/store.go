// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides the document collections behind the content API.
//
// Documents are keyed by UUID strings. Two backends implement Database:
// SQLite JSON documents (the default, see NewSQLite) and MongoDB (package
// mongostore). Both honour the same filter, sort and aggregation semantics.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/folio-go/internal/model"
)

// ErrNoDocuments is returned by FindOne when nothing matches.
var ErrNoDocuments = errors.New("no documents in result")

// Collection names.
const (
	Profiles        = "profiles"
	PhotoProjects   = "photo_projects"
	VideoProjects   = "video_projects"
	EditProjects    = "edit_projects"
	ContactMessages = "contact_messages"
	Analytics       = "analytics"
)

// FieldID is the document key field.
const FieldID = "_id"

// Op is a comparison operator.
type Op int

// Supported operators.
const (
	OpEq Op = iota
	OpNe
	OpGte
	OpLt
)

// Cond is one field comparison. Value may be a string, bool, integer or time.Time.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Filter is a conjunction of conditions. An empty filter matches everything.
type Filter []Cond

// Eq matches documents whose field equals v.
func Eq(field string, v any) Cond { return Cond{Field: field, Op: OpEq, Value: v} }

// Ne matches documents whose field differs from v.
func Ne(field string, v any) Cond { return Cond{Field: field, Op: OpNe, Value: v} }

// Gte matches documents whose field is at least v.
func Gte(field string, v any) Cond { return Cond{Field: field, Op: OpGte, Value: v} }

// Lt matches documents whose field is below v.
func Lt(field string, v any) Cond { return Cond{Field: field, Op: OpLt, Value: v} }

// Sort orders results by one field.
type Sort struct {
	Field string
	Desc  bool
}

// Query selects documents.
type Query struct {
	Filter Filter
	Sort   []Sort
	Skip   int64
	// Limit of 0 means no limit.
	Limit int64
}

// HourCount is one bucket of CountByHour.
type HourCount struct {
	Hour  time.Time
	Count int64
}

// ValueCount is one bucket of CountByValue.
type ValueCount struct {
	Value string
	Count int64
}

// Collection is a set of JSON documents of one kind.
type Collection interface {
	// Find decodes matching documents into out, which must point to a slice.
	Find(ctx context.Context, q Query, out any) error
	// FindOne decodes the first matching document into out or returns ErrNoDocuments.
	FindOne(ctx context.Context, q Query, out any) error
	Insert(ctx context.Context, id string, doc any) error
	// UpdateOne sets fields on the first matching document and returns the match count.
	UpdateOne(ctx context.Context, f Filter, set map[string]any) (int64, error)
	// UpdateMany sets fields on every matching document and returns the match count.
	UpdateMany(ctx context.Context, f Filter, set map[string]any) (int64, error)
	DeleteOne(ctx context.Context, f Filter) (int64, error)
	Count(ctx context.Context, f Filter) (int64, error)
	// Distinct returns the distinct non-empty string values of field.
	Distinct(ctx context.Context, field string, f Filter) ([]string, error)
	// CountByHour groups matching documents by the UTC hour of a time field,
	// in chronological order.
	CountByHour(ctx context.Context, field string, f Filter) ([]HourCount, error)
	// CountByValue groups matching documents by field, largest groups first.
	CountByValue(ctx context.Context, field string, f Filter, limit int) ([]ValueCount, error)
}

// Database is an open document store.
type Database interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close() error
	// Backend names the implementation ("sqlite" or "mongo").
	Backend() string
}

// NewID returns a fresh document key.
func NewID() string {
	return uuid.NewString()
}

// ParseID validates a document key supplied by a client.
func ParseID(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidID, s)
	}
	return u.String(), nil
}

var fieldPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidField reports whether name can be used as a field name.
func ValidField(name string) error {
	if !fieldPattern.MatchString(name) {
		return fmt.Errorf("invalid field name %q", name)
	}
	return nil
}
