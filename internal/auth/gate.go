// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

// Package auth guards the ingestion endpoint with a shared secret.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// APIKeyQueryParam is the query parameter accepted when no bearer header is sent.
const APIKeyQueryParam = "api_key"

// ErrEmptySecret is returned when a Gate is built without a shared secret.
var ErrEmptySecret = errors.New("shared secret must not be empty")

// Gate admits callers that present the configured shared secret.
//
// There are no identities or roles: a request either carries the secret or it
// does not. Both sides are hashed to fixed-size digests before a constant-time
// comparison so the secret's length does not leak through timing.
type Gate struct {
	digest [blake2b.Size256]byte
}

// NewGate creates a Gate for secret.
func NewGate(secret string) (*Gate, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Gate{digest: blake2b.Sum256([]byte(secret))}, nil
}

// Authorize reports whether credential equals the shared secret.
// An empty credential is always denied.
func (g *Gate) Authorize(credential string) bool {
	if credential == "" {
		return false
	}
	sum := blake2b.Sum256([]byte(credential))
	return subtle.ConstantTimeCompare(sum[:], g.digest[:]) == 1
}

// CredentialFromRequest returns the bearer token from the Authorization header,
// falling back to the api_key query parameter when the header is absent or
// not a bearer token.
func CredentialFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1]
		}
	}
	return r.URL.Query().Get(APIKeyQueryParam)
}
