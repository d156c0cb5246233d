// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth verifies the single admin identity and issues and validates
// its HS256 access tokens.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier errors.
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
)

// TokenType is the token type reported to clients.
const TokenType = "bearer"

// Mockable for tests.
var timeNow = time.Now

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Identity is the configured admin account. Password may be plaintext or an
// Argon2id hash produced by HashPassword.
type Identity struct {
	Email    string
	Password string
}

// Verifier authenticates the admin and manages access tokens.
type Verifier struct {
	admin  Identity
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewVerifier creates a verifier. secret must be at least 32 bytes for HS256.
func NewVerifier(admin Identity, secret, issuer string, ttl time.Duration) *Verifier {
	return &Verifier{
		admin:  admin,
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Authenticate checks the credentials and issues a token.
// Wrong email and wrong password return the same error.
func (v *Verifier) Authenticate(email, password string) (Token, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(v.admin.Email)) == 1
	passwordOK := v.checkPassword(password)
	if !emailOK || !passwordOK {
		return Token{}, ErrInvalidCredentials
	}
	return v.Issue(v.admin.Email)
}

func (v *Verifier) checkPassword(password string) bool {
	if IsPasswordHash(v.admin.Password) {
		ok, err := CheckPassword(password, v.admin.Password)
		return err == nil && ok
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(v.admin.Password)) == 1
}

// Issue signs a token for subject.
func (v *Verifier) Issue(subject string) (Token, error) {
	now := timeNow()
	exp := now.Add(v.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{
		AccessToken: signed,
		TokenType:   TokenType,
		ExpiresAt:   exp.UTC().Truncate(time.Second),
	}, nil
}

// Validate verifies signature, expiry, issuer and subject and returns the
// admin email. Every failure is reported as ErrInvalidToken.
func (v *Verifier) Validate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(timeNow),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if subtle.ConstantTimeCompare([]byte(claims.Subject), []byte(v.admin.Email)) != 1 {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
