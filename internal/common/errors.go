// Package common defines shared constants and sentinel errors used across
// client and server layers of cloudvault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorAlreadyExists = errors.New("already exists")

	// Validation of request payloads and secret shapes.
	ErrorValidation = errors.New("validation error")

	// Reset gate: primary account password did not match.
	ErrorWrongCredential = errors.New("wrong credential")

	// Vault unlock: candidate secret mismatched or stored blob undecryptable.
	ErrorCredentialMismatch = errors.New("incorrect password or PIN")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken        = errors.New("invalid token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
