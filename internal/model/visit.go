// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Device types derived from the user agent.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// VisitEvent is one recorded page view. Events are append-only.
type VisitEvent struct {
	ID        string    `json:"_id" bson:"_id"`
	Page      string    `json:"page" bson:"page"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	UserAgent string    `json:"user_agent" bson:"user_agent"`
	IP        string    `json:"ip" bson:"ip"`
	Referrer  string    `json:"referrer" bson:"referrer"`
	Browser   string    `json:"browser,omitempty" bson:"browser,omitempty"`
	OS        string    `json:"os,omitempty" bson:"os,omitempty"`
	Device    string    `json:"device,omitempty" bson:"device,omitempty"`
	Country   string    `json:"country,omitempty" bson:"country,omitempty"`
}

// HourlyCount is the number of visits in one UTC hour.
type HourlyCount struct {
	Hour  time.Time `json:"hour"`
	Time  string    `json:"time"`
	Count int64     `json:"visitors"`
}

// PageCount is the number of visits to one page.
type PageCount struct {
	Page  string `json:"page"`
	Count int64  `json:"visits"`
}

// VisitSummary holds visit totals for fixed periods.
type VisitSummary struct {
	Today int64 `json:"today"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
	Total int64 `json:"total"`
}

// VisitStats is the dashboard payload.
type VisitStats struct {
	Hourly   []HourlyCount `json:"hourly"`
	Summary  VisitSummary  `json:"summary"`
	TopPages []PageCount   `json:"topPages"`
}
