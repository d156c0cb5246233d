// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name" validate:"required,max=200"`
	Email     string    `json:"email" bson:"email" validate:"required,email,max=254"`
	Message   string    `json:"message" bson:"message" validate:"required,max=10000"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Read      bool      `json:"read" bson:"read"`
}
