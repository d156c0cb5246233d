// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the portfolio content gateway and the visit
// analytics aggregator on top of store.Database.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/folio-go/internal/model"
)

// Mockable for tests.
var timeNow = func() time.Time { return time.Now().UTC() }

// storeError marks err as a store failure so handlers can tell it apart from
// domain errors.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(model.ErrStoreUnavailable, err))
}
