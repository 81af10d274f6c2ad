// Package storage defines the session persistence contract. The world state
// only needs "snapshot characters in / characters out"; the backing format is
// the store's concern. Connections, control mappings, and combat state are
// never persisted.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/duality-table/internal/game"
)

// ErrNotFound indicates a requested save is missing.
var ErrNotFound = errors.New("save not found")

// SaveInfo describes one saved session.
type SaveInfo struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SavedAt        time.Time `json:"saved_at"`
	CharacterCount int       `json:"character_count"`
}

// Store persists character snapshots between sessions.
type Store interface {
	// SaveSession writes a named snapshot and returns its metadata.
	SaveSession(ctx context.Context, name string, records []game.CharacterRecord) (SaveInfo, error)
	// ListSessions returns all saves, newest first.
	ListSessions(ctx context.Context) ([]SaveInfo, error)
	// LoadSession returns the character records of a save.
	LoadSession(ctx context.Context, id string) ([]game.CharacterRecord, error)
	// Close releases the underlying resources.
	Close() error
}
