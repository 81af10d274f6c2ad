// Package sqlite provides a SQLite-backed session store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/duality-table/internal/game"
	"github.com/louisbranch/duality-table/internal/platform/id"
	"github.com/louisbranch/duality-table/internal/storage"
)

// Store implements storage.Store on a SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and initializes the schema.
// WAL mode keeps concurrent save and list calls from tripping over each
// other.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := path + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_saved_at ON sessions(saved_at);

	CREATE TABLE IF NOT EXISTS session_characters (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		character_id TEXT NOT NULL,
		name TEXT NOT NULL,
		class TEXT NOT NULL,
		ancestry TEXT NOT NULL,
		agility INTEGER NOT NULL,
		strength INTEGER NOT NULL,
		finesse INTEGER NOT NULL,
		instinct INTEGER NOT NULL,
		presence INTEGER NOT NULL,
		knowledge INTEGER NOT NULL,
		hp_current INTEGER NOT NULL,
		hp_max INTEGER NOT NULL,
		stress_current INTEGER NOT NULL,
		stress_max INTEGER NOT NULL,
		hope_current INTEGER NOT NULL,
		hope_max INTEGER NOT NULL,
		evasion INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		color TEXT NOT NULL,
		is_npc INTEGER NOT NULL,
		level INTEGER NOT NULL,
		PRIMARY KEY (session_id, ord)
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// SaveSession implements storage.Store.
func (s *Store) SaveSession(ctx context.Context, name string, records []game.CharacterRecord) (storage.SaveInfo, error) {
	saveID, err := id.NewID()
	if err != nil {
		return storage.SaveInfo{}, fmt.Errorf("generate save id: %w", err)
	}
	savedAt := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.SaveInfo{}, fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, name, saved_at) VALUES (?, ?, ?)`,
		saveID, name, savedAt.Unix(),
	); err != nil {
		return storage.SaveInfo{}, fmt.Errorf("insert session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO session_characters (
			session_id, ord, character_id, name, class, ancestry,
			agility, strength, finesse, instinct, presence, knowledge,
			hp_current, hp_max, stress_current, stress_max,
			hope_current, hope_max, evasion, x, y, color, is_npc, level
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return storage.SaveInfo{}, fmt.Errorf("prepare character insert: %w", err)
	}
	defer stmt.Close()

	for ord, rec := range records {
		a := rec.Attributes
		if _, err := stmt.ExecContext(ctx,
			saveID, ord, rec.ID, rec.Name, rec.Class, rec.Ancestry,
			a[0], a[1], a[2], a[3], a[4], a[5],
			rec.HPCurrent, rec.HPMax, rec.StressCurrent, rec.StressMax,
			rec.HopeCurrent, rec.HopeMax, rec.Evasion, rec.X, rec.Y,
			rec.Color, rec.IsNPC, rec.Level,
		); err != nil {
			return storage.SaveInfo{}, fmt.Errorf("insert character %s: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.SaveInfo{}, fmt.Errorf("commit save: %w", err)
	}

	return storage.SaveInfo{
		ID:             saveID,
		Name:           name,
		SavedAt:        savedAt,
		CharacterCount: len(records),
	}, nil
}

// ListSessions implements storage.Store.
func (s *Store) ListSessions(ctx context.Context) ([]storage.SaveInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.saved_at, COUNT(c.character_id)
		FROM sessions s
		LEFT JOIN session_characters c ON c.session_id = s.id
		GROUP BY s.id
		ORDER BY s.saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var saves []storage.SaveInfo
	for rows.Next() {
		var info storage.SaveInfo
		var savedAt int64
		if err := rows.Scan(&info.ID, &info.Name, &savedAt, &info.CharacterCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.SavedAt = time.Unix(savedAt, 0).UTC()
		saves = append(saves, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return saves, nil
}

// LoadSession implements storage.Store.
func (s *Store) LoadSession(ctx context.Context, saveID string) ([]game.CharacterRecord, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sessions WHERE id = ?`, saveID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("look up session: %w", err)
	}
	if exists == 0 {
		return nil, storage.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT character_id, name, class, ancestry,
			agility, strength, finesse, instinct, presence, knowledge,
			hp_current, hp_max, stress_current, stress_max,
			hope_current, hope_max, evasion, x, y, color, is_npc, level
		FROM session_characters
		WHERE session_id = ?
		ORDER BY ord`, saveID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", saveID, err)
	}
	defer rows.Close()

	var records []game.CharacterRecord
	for rows.Next() {
		var rec game.CharacterRecord
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Class, &rec.Ancestry,
			&rec.Attributes[0], &rec.Attributes[1], &rec.Attributes[2],
			&rec.Attributes[3], &rec.Attributes[4], &rec.Attributes[5],
			&rec.HPCurrent, &rec.HPMax, &rec.StressCurrent, &rec.StressMax,
			&rec.HopeCurrent, &rec.HopeMax, &rec.Evasion, &rec.X, &rec.Y,
			&rec.Color, &rec.IsNPC, &rec.Level,
		); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate characters: %w", err)
	}
	return records, nil
}

// Close implements storage.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ storage.Store = (*Store)(nil)
