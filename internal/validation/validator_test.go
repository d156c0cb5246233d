// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import (
	"errors"
	"testing"
)

type loginRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	Kind     *string `json:"kind" validate:"omitnil,oneof=a b"`
	Name     string  `json:"name" validate:"max=5"`
}

func TestStruct(t *testing.T) {
	bad := "c"
	tests := []struct {
		name       string
		req        loginRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  loginRequest{Email: "a@x.com", Password: "pw"},
		},
		{
			name:       "missing fields",
			req:        loginRequest{},
			wantFields: []string{"email", "password"},
		},
		{
			name:       "bad email",
			req:        loginRequest{Email: "nope", Password: "pw"},
			wantFields: []string{"email"},
		},
		{
			name:       "oneof and max",
			req:        loginRequest{Email: "a@x.com", Password: "pw", Kind: &bad, Name: "toolong"},
			wantFields: []string{"kind", "name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.req)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *Error", err)
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Errorf("fields = %v, want %v", verr.Fields, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if verr.Fields[f] == "" {
					t.Errorf("missing message for %q in %v", f, verr.Fields)
				}
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "b is required", "a": "a is required"}}
	if got, want := err.Error(), "a is required; b is required"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
