// Package id generates opaque identifiers for entities and connections.
package id

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a 26-character lowercase base32 identifier.
//
// The underlying bytes are a random UUIDv4 (version and variant bits set), so
// ids remain compatible with tooling that expects UUID-shaped randomness while
// staying URL- and filename-safe.
func NewID() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	raw[6] = (raw[6] & 0x0F) | 0x40 // version 4
	raw[8] = (raw[8] & 0x3F) | 0x80 // RFC 4122 variant

	return strings.ToLower(encoding.EncodeToString(raw)), nil
}

// MustNewID returns a new identifier, panicking if the random source fails.
// Use only at startup or in tests.
func MustNewID() string {
	id, err := NewID()
	if err != nil {
		panic(fmt.Sprintf("must new id: %v", err))
	}
	return id
}
