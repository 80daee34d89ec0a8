// Package common defines shared constants and sentinel errors used across
// the client and server layers of DropWatch. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors caught before any network call.
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")

	// Token lifecycle errors.
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrMalformedToken = errors.New("malformed token")

	// OTP / reset-code errors.
	ErrCodeExpired   = errors.New("code expired")
	ErrCodeMismatch  = errors.New("incorrect code")
	ErrCodeNotIssued = errors.New("no code was requested")
)
