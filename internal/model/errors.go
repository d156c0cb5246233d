// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the portfolio documents and the errors shared across layers.
package model

import (
	"errors"
	"fmt"
)

// Domain errors. Handlers translate these into HTTP status codes.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidID        = fmt.Errorf("%w: malformed identifier", ErrInvalidInput)
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)
