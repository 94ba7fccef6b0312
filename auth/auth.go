// Package auth abstracts the external identity provider behind two small
// interfaces so handlers and the repository can be tested without it.
package auth

import (
	"os"
	"strings"
)

// RoleAdmin is the role every mutating project operation requires.
const RoleAdmin = "admin"

// Verifier resolves a bearer token to a user ID. An empty string means the
// token is unknown.
type Verifier interface {
	VerifyToken(token string) (userID string)
}

// RoleChecker answers capability checks. The repository re-verifies roles on
// every mutating call, independent of any check the transport layer made.
type RoleChecker interface {
	HasRole(userID, role string) bool
}

// EnvTokenAuth is the default implementation backed by the ADMIN_TOKENS
// environment variable: a comma-separated list of token:userID pairs whose
// users all carry the admin role.
type EnvTokenAuth struct {
	tokens map[string]string
}

// NewEnvTokenAuth parses ADMIN_TOKENS (or the given value when non-empty).
func NewEnvTokenAuth(raw string) *EnvTokenAuth {
	if raw == "" {
		raw = os.Getenv("ADMIN_TOKENS")
	}
	tokens := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		tokens[parts[0]] = parts[1]
	}
	return &EnvTokenAuth{tokens: tokens}
}

func (a *EnvTokenAuth) VerifyToken(token string) string {
	return a.tokens[token]
}

func (a *EnvTokenAuth) HasRole(userID, role string) bool {
	if role != RoleAdmin || userID == "" {
		return false
	}
	for _, id := range a.tokens {
		if id == userID {
			return true
		}
	}
	return false
}
