// Package common defines shared constants and sentinel errors used across
// storysync components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorStorage  = errors.New("storage failure")

	// Payload codec errors.
	ErrorDecode = errors.New("malformed payload")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential relay errors.
	ErrAuthUnavailable = errors.New("auth token unavailable")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
