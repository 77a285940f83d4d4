// Package storage provides SQLite-based persistence for finished games and
// saved sessions. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
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

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02 15:04:05.000000000"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// GameRecord is one game as seen by the scoring layer.
type GameRecord struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"maxTile"`
	Won       bool      `json:"won"`
	Moves     int       `json:"moves"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}

// Duration returns how long the game lasted.
func (r GameRecord) Duration() time.Duration {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Stats contains aggregated statistics over all recorded games.
type Stats struct {
	GamesPlayed int
	GamesWon    int
	TotalScore  int
	BestScore   int
	LastPlayed  time.Time
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

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
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
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			score INTEGER NOT NULL DEFAULT 0,
			max_tile INTEGER NOT NULL DEFAULT 0,
			won INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_games_score ON games(score DESC);
		CREATE INDEX IF NOT EXISTS idx_games_ended_at ON games(ended_at DESC);

		CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
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

// SaveGame inserts a game or updates the record with the same ID.
func (s *Store) SaveGame(rec GameRecord) error {
	if rec.ID == "" {
		return errors.New("storage: cannot save game: empty id")
	}

	_, err := s.db.Exec(
		`INSERT INTO games (id, score, max_tile, won, moves, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   score = excluded.score,
		   max_tile = excluded.max_tile,
		   won = excluded.won,
		   moves = excluded.moves,
		   started_at = excluded.started_at,
		   ended_at = excluded.ended_at`,
		rec.ID, rec.Score, rec.MaxTile, rec.Won, rec.Moves,
		formatTime(rec.StartedAt), formatTime(rec.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game: %w", err)
	}
	return nil
}

// Game retrieves a game by ID. Returns nil if it does not exist.
func (s *Store) Game(id string) (*GameRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, score, max_tile, won, moves, started_at, ended_at
		 FROM games WHERE id = ?`,
		id,
	)

	rec, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game: %w", err)
	}
	return &rec, nil
}

// RecentGames retrieves the most recently ended games, newest first.
func (s *Store) RecentGames(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryGames(
		`SELECT id, score, max_tile, won, moves, started_at, ended_at
		 FROM games
		 ORDER BY ended_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
}

// TopGames retrieves the highest scoring games.
func (s *Store) TopGames(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryGames(
		`SELECT id, score, max_tile, won, moves, started_at, ended_at
		 FROM games
		 ORDER BY score DESC, ended_at ASC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryGames(query string, args ...any) ([]GameRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		games = append(games, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return games, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGame(sc scanner) (GameRecord, error) {
	var rec GameRecord
	var startedAt, endedAt any
	if err := sc.Scan(&rec.ID, &rec.Score, &rec.MaxTile, &rec.Won, &rec.Moves, &startedAt, &endedAt); err != nil {
		return GameRecord{}, err
	}
	rec.StartedAt = parseTime(startedAt)
	rec.EndedAt = parseTime(endedAt)
	return rec, nil
}

// BestScore returns the highest recorded score.
// Returns 0 if no games exist.
func (s *Store) BestScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM games").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// Stats retrieves aggregated statistics over all recorded games.
func (s *Store) Stats() (Stats, error) {
	var stats Stats
	var lastPlayed sql.NullString

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(SUM(score), 0), COALESCE(MAX(score), 0), MAX(ended_at)
		 FROM games`,
	).Scan(&stats.GamesPlayed, &stats.GamesWon, &stats.TotalScore, &stats.BestScore, &lastPlayed)
	if err != nil {
		return Stats{}, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	if lastPlayed.Valid {
		stats.LastPlayed = parseTime(lastPlayed.String)
	}
	return stats, nil
}

// PruneGames deletes all but the keep most recent games.
// Returns the number of deleted records.
func (s *Store) PruneGames(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := s.db.Exec(
		`DELETE FROM games WHERE id NOT IN (
			SELECT id FROM games ORDER BY ended_at DESC, rowid DESC LIMIT ?
		)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prune games: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	return int(n), nil
}

// ClearGames deletes all recorded games.
func (s *Store) ClearGames() error {
	if _, err := s.db.Exec("DELETE FROM games"); err != nil {
		return fmt.Errorf("storage: cannot clear games: %w", err)
	}
	return nil
}

// SaveState stores a serialized session under slot, replacing any previous one.
func (s *Store) SaveState(slot string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO saves (slot, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		slot, string(data), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save state %s: %w", slot, err)
	}
	return nil
}

// LoadState returns the session stored under slot. Returns nil if the slot is empty.
func (s *Store) LoadState(slot string) ([]byte, error) {
	var data string
	err := s.db.QueryRow("SELECT state FROM saves WHERE slot = ?", slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load state %s: %w", slot, err)
	}
	return []byte(data), nil
}

// DeleteState removes the session stored under slot.
func (s *Store) DeleteState(slot string) error {
	if _, err := s.db.Exec("DELETE FROM saves WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete state %s: %w", slot, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime handles both time.Time and string column values.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v.UTC()
	case string:
		for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	case []byte:
		return parseTime(string(v))
	}
	return time.Time{}
}
