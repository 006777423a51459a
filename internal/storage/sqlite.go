// Package storage provides SQLite-based persistence for frame captures and
// play sessions. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Capture is one composed frame saved from a running scene.
type Capture struct {
	ID        int64
	SceneID   string
	Frame     uint64 // Frame number the capture was taken at
	Entry     int    // Dialogue entries read so far
	Screen    string // Plain-text picture, one row per line
	CreatedAt time.Time
}

// Session records one run of a scene.
type Session struct {
	ID        int64
	SceneID   string
	User      string
	Frames    uint64 // Frames presented
	Entries   int    // Dialogue entries read
	EndReason string // "quit", "disconnect", "error"
	Duration  int    // Seconds
	CreatedAt time.Time
}

// SceneStats aggregates the sessions of one scene.
type SceneStats struct {
	SceneID    string
	Sessions   int
	Frames     int64
	MaxEntries int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS captures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id TEXT NOT NULL,
			frame INTEGER NOT NULL,
			entry INTEGER NOT NULL DEFAULT 0,
			screen TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_captures_scene_id ON captures(scene_id);

		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id TEXT NOT NULL,
			user TEXT NOT NULL DEFAULT '',
			frames INTEGER NOT NULL DEFAULT 0,
			entries INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_scene_id ON sessions(scene_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveCapture stores a frame capture and returns its ID.
func (s *Store) SaveCapture(c Capture) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO captures (scene_id, frame, entry, screen) VALUES (?, ?, ?, ?)",
		c.SceneID, int64(c.Frame), c.Entry, c.Screen,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save capture: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Captures returns the newest captures of a scene, or of every scene when
// sceneID is empty.
func (s *Store) Captures(sceneID string, limit int) ([]Capture, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scene_id, frame, entry, screen, created_at
		 FROM captures
		 WHERE ? = '' OR scene_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		sceneID, sceneID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query captures: %w", err)
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		c, err := scanCapture(rows)
		if err != nil {
			return nil, err
		}
		captures = append(captures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return captures, nil
}

// CaptureByID returns one capture, or nil if there is none with that ID.
func (s *Store) CaptureByID(id int64) (*Capture, error) {
	row := s.db.QueryRow(
		`SELECT id, scene_id, frame, entry, screen, created_at
		 FROM captures
		 WHERE id = ?`,
		id,
	)

	c, err := scanCapture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// RecordSession stores the outcome of a scene run and returns its ID.
func (s *Store) RecordSession(sess Session) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions (scene_id, user, frames, entries, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.SceneID, sess.User, int64(sess.Frames), sess.Entries, sess.EndReason, sess.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions returns the newest sessions across all scenes.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scene_id, user, frames, entries, end_reason, duration_secs, created_at
		 FROM sessions
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var frames int64
		var createdAt any
		if err := rows.Scan(
			&sess.ID,
			&sess.SceneID,
			&sess.User,
			&frames,
			&sess.Entries,
			&sess.EndReason,
			&sess.Duration,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.Frames = uint64(frames)
		sess.CreatedAt = parseTime(createdAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// GetSceneStats aggregates every session of a scene.
func (s *Store) GetSceneStats(sceneID string) (*SceneStats, error) {
	stats := &SceneStats{SceneID: sceneID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(frames), 0), COALESCE(MAX(entries), 0), MAX(created_at)
		 FROM sessions WHERE scene_id = ?`,
		sceneID,
	).Scan(&stats.Sessions, &stats.Frames, &stats.MaxEntries, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// ClearCaptures deletes all captures of a scene.
func (s *Store) ClearCaptures(sceneID string) error {
	_, err := s.db.Exec("DELETE FROM captures WHERE scene_id = ?", sceneID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear captures: %w", err)
	}
	return nil
}

// DeleteCapture deletes one capture. Deleting a missing capture is not an error.
func (s *Store) DeleteCapture(id int64) error {
	if _, err := s.db.Exec("DELETE FROM captures WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete capture %d: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCapture(row scanner) (Capture, error) {
	var c Capture
	var frame int64
	var createdAt any
	if err := row.Scan(&c.ID, &c.SceneID, &frame, &c.Entry, &c.Screen, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	c.Frame = uint64(frame)
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
