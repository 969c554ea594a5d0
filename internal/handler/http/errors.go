// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when looking up the
// campaign token. Callers can match against them with [errors.Is].
var (
	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but cannot be split into at least two space-separated
	// parts (i.e. the token value is missing entirely).
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when neither the "auth" query parameter nor
	// the "Authorization" header carries a token.
	ErrEmptyToken = errors.New("missing auth token")

	// ErrTokenExpired is returned for a well-signed token past its expiry.
	ErrTokenExpired = errors.New("auth token expired")

	// ErrInvalidToken is returned for a token that fails verification.
	ErrInvalidToken = errors.New("invalid auth token")
)

// Request errors reported by the tree handlers.
var (
	ErrNotJSONPath    = errors.New("path must end with .json")
	ErrInvalidBody    = errors.New("invalid data; couldn't parse JSON object, array, or value")
	ErrPatchNotObject = errors.New("patch body must be a JSON object")
	ErrNoStreaming    = errors.New("streaming is not supported")
)
