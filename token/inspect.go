package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Info is the client-relevant subset of an access token's claims.
type Info struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Inspect parses raw as a JWT without verifying its signature and returns the
// claims the client cares about. ok is false when raw is not a parseable JWT;
// the token remains usable as an opaque bearer string either way.
func Inspect(raw string) (Info, bool) {
	parser := jwt.NewParser()

	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return Info{}, false
	}

	info := Info{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}

// CapTTL returns the shorter of ttl and the remaining lifetime of raw's exp
// claim. Tokens without a readable exp claim keep the configured ttl.
func CapTTL(raw string, ttl time.Duration, now time.Time) time.Duration {
	info, ok := Inspect(raw)
	if !ok || info.ExpiresAt.IsZero() {
		return ttl
	}

	remaining := info.ExpiresAt.Sub(now)
	if remaining <= 0 {
		// Already expired server-side; persist briefly so the gateway's 401
		// path, not storage, decides what happens next.
		return time.Minute
	}
	if remaining < ttl {
		return remaining
	}
	return ttl
}
