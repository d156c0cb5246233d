// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenEmptyPathDisablesLookups(t *testing.T) {
	l, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if l.Enabled() {
		t.Error("Enabled() = true, want false")
	}
	if got := l.Country("8.8.8.8"); got != "" {
		t.Errorf("Country(public) = %q, want empty", got)
	}
	if err := l.Reload(); err != nil {
		t.Errorf("Reload: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	if err == nil {
		t.Fatal("expected error for missing database")
	}
	if l == nil || l.Enabled() {
		t.Error("expected a usable disabled lookup")
	}
}

func TestOpenInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mmdb")
	if err := os.WriteFile(path, []byte("not a maxmind database"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for invalid database")
	}
}

func TestCountryLocalAndInvalid(t *testing.T) {
	var l Lookup

	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", CountryLocal},
		{"::1", CountryLocal},
		{"10.1.2.3", CountryLocal},
		{"172.16.0.9", CountryLocal},
		{"192.168.1.1", CountryLocal},
		{"fd00::1", CountryLocal},
		{"not-an-ip", ""},
		{"", ""},
		{"1.1.1.1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := l.Country(tt.ip); got != tt.want {
				t.Errorf("Country(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		})
	}
}
