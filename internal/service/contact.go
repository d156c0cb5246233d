// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/validation"
)

// ContactService stores messages from the public contact form.
type ContactService struct {
	coll   store.Collection
	logger *slog.Logger
}

// NewContactService creates a ContactService.
func NewContactService(db store.Database, logger *slog.Logger) *ContactService {
	return &ContactService{coll: db.Collection(store.ContactMessages), logger: logger}
}

// Create sanitizes and stores a message. The message is always unread and
// stamped with the server time.
func (s *ContactService) Create(ctx context.Context, msg model.ContactMessage) (model.ContactMessage, error) {
	msg.Name = stripMarkup(msg.Name)
	msg.Email = stripMarkup(msg.Email)
	msg.Message = stripMarkup(msg.Message)
	if err := validation.Struct(&msg); err != nil {
		return model.ContactMessage{}, err
	}

	msg.ID = store.NewID()
	msg.CreatedAt = timeNow()
	msg.Read = false
	if err := s.coll.Insert(ctx, msg.ID, &msg); err != nil {
		return model.ContactMessage{}, storeError("create contact message", err)
	}
	s.logger.Info("contact message created", "id", msg.ID)
	return msg, nil
}

// List returns messages newest first. With readOnly set only read messages
// are returned.
func (s *ContactService) List(ctx context.Context, readOnly bool, skip, limit int64) ([]model.ContactMessage, error) {
	params, err := ListParams{Skip: skip, Limit: limit}.normalize()
	if err != nil {
		return nil, err
	}

	var filter store.Filter
	if readOnly {
		filter = store.Filter{store.Eq("read", true)}
	}

	msgs := []model.ContactMessage{}
	err = s.coll.Find(ctx, store.Query{
		Filter: filter,
		Sort:   []store.Sort{{Field: "created_at", Desc: true}},
		Skip:   params.Skip,
		Limit:  params.Limit,
	}, &msgs)
	if err != nil {
		return nil, storeError("list contact messages", err)
	}
	return msgs, nil
}

// Get returns one message.
func (s *ContactService) Get(ctx context.Context, id string) (model.ContactMessage, error) {
	var msg model.ContactMessage
	key, err := store.ParseID(id)
	if err != nil {
		return msg, err
	}
	if err := s.coll.FindOne(ctx, store.Query{Filter: byID(key)}, &msg); err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return msg, fmt.Errorf("message %s: %w", key, model.ErrNotFound)
		}
		return msg, storeError("get contact message", err)
	}
	return msg, nil
}

// MarkRead flags a message as read. Marking a read message again succeeds.
func (s *ContactService) MarkRead(ctx context.Context, id string) error {
	key, err := store.ParseID(id)
	if err != nil {
		return err
	}
	n, err := s.coll.UpdateOne(ctx, byID(key), map[string]any{"read": true})
	if err != nil {
		return storeError("mark contact message read", err)
	}
	if n == 0 {
		return fmt.Errorf("message %s: %w", key, model.ErrNotFound)
	}
	return nil
}

// Delete removes a message.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	key, err := store.ParseID(id)
	if err != nil {
		return err
	}
	n, err := s.coll.DeleteOne(ctx, byID(key))
	if err != nil {
		return storeError("delete contact message", err)
	}
	if n == 0 {
		return fmt.Errorf("message %s: %w", key, model.ErrNotFound)
	}
	s.logger.Info("contact message deleted", "id", key)
	return nil
}
