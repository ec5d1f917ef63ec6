// Package persistence saves and restores cities: the JSON snapshot codec, file
// save slots, and a SQLite archive of saves, events, and per-turn statistics.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/citysim/internal/engine"
)

// DB wraps a SQLite connection for the city archive.
type DB struct {
	conn *sqlx.DB
}

// SavedCity describes one archived save.
type SavedCity struct {
	Name    string `db:"name"`
	SaveID  string `db:"save_id"`
	Turn    uint64 `db:"turn"`
	SavedAt string `db:"saved_at"`
}

// TurnStats is one row of per-turn history.
type TurnStats struct {
	Turn       uint64  `db:"turn" json:"turn"`
	Treasury   float64 `db:"treasury" json:"treasury"`
	Population int     `db:"population" json:"population"`
	Happiness  int     `db:"happiness" json:"happiness"`
	GDP        float64 `db:"gdp" json:"gdp"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cities (
		name TEXT PRIMARY KEY,
		save_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		snapshot_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		city TEXT NOT NULL,
		turn INTEGER NOT NULL,
		kind INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turn_stats (
		city TEXT NOT NULL,
		turn INTEGER NOT NULL,
		treasury REAL NOT NULL,
		population INTEGER NOT NULL,
		happiness INTEGER NOT NULL,
		gdp REAL NOT NULL,
		PRIMARY KEY (city, turn)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_city_turn ON events(city, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveCity archives the city's snapshot under its name, replacing any older
// save. The save ID is assigned on the first save and kept afterwards.
func (db *DB) SaveCity(city *engine.City) (string, error) {
	data, err := Encode(city)
	if err != nil {
		return "", fmt.Errorf("encode city: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var saveID string
	err = tx.Get(&saveID, "SELECT save_id FROM cities WHERE name = ?", city.Name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		saveID = uuid.NewString()
	case err != nil:
		return "", err
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO cities
		(name, save_id, turn, snapshot_json, saved_at)
		VALUES (?, ?, ?, ?, ?)`,
		city.Name, saveID, city.Turn, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert city %q: %w", city.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	slog.Info("city archived", "city", city.Name, "save_id", saveID, "turn", city.Turn)
	return saveID, nil
}

// LoadCity restores the archived city with the given name.
func (db *DB) LoadCity(name string) (*engine.City, error) {
	var raw string
	err := db.conn.Get(&raw, "SELECT snapshot_json FROM cities WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: city %q", ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return Decode([]byte(raw))
}

// ListCities returns every archived save ordered by name.
func (db *DB) ListCities() ([]SavedCity, error) {
	var cities []SavedCity
	err := db.conn.Select(&cities, "SELECT name, save_id, turn, saved_at FROM cities ORDER BY name")
	return cities, err
}

// SaveEvents appends events for a city.
func (db *DB) SaveEvents(city string, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (city, turn, kind, category, description) VALUES (?, ?, ?, ?, ?)",
			city, e.Turn, int(e.Kind), e.Category, e.Description,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent events for a city, newest first.
func (db *DB) RecentEvents(city string, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT turn, kind, description, category FROM events WHERE city = ? ORDER BY id DESC LIMIT ?",
		city, limit,
	)
	return events, err
}

// RecordTurn stores the city's headline figures for its current turn.
func (db *DB) RecordTurn(city *engine.City) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO turn_stats
		(city, turn, treasury, population, happiness, gdp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		city.Name, city.Turn, city.Treasury, city.Population, city.Happiness, city.Economy.GDP,
	)
	return err
}

// StatsHistory returns up to limit of the latest turns for a city, oldest first.
func (db *DB) StatsHistory(city string, limit int) ([]TurnStats, error) {
	var rows []TurnStats
	err := db.conn.Select(&rows, `SELECT turn, treasury, population, happiness, gdp FROM (
		SELECT turn, treasury, population, happiness, gdp FROM turn_stats
		WHERE city = ? ORDER BY turn DESC LIMIT ?
	) ORDER BY turn ASC`, city, limit)
	return rows, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}
