package selection

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS selections (
    name TEXT PRIMARY KEY,
    selected BOOLEAN NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore keeps selections in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create selections table: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database location.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Get(name string) (bool, bool) {
	var selected bool
	err := s.db.QueryRow(`SELECT selected FROM selections WHERE name = ?`, name).Scan(&selected)
	if err != nil {
		// sql.ErrNoRows and read failures both fall back to the default.
		return false, false
	}
	return selected, true
}

func (s *SQLiteStore) Set(name string, selected bool) error {
	_, err := s.db.Exec(`
		INSERT INTO selections (name, selected, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET selected = excluded.selected, updated_at = CURRENT_TIMESTAMP`,
		name, selected,
	)
	if err != nil {
		return fmt.Errorf("failed to store selection for %s: %w", name, err)
	}
	return nil
}

// All returns every stored selection.
func (s *SQLiteStore) All() (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT name, selected FROM selections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var name string
		var selected bool
		if err := rows.Scan(&name, &selected); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		result[name] = selected
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read selections: %w", err)
	}
	return result, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
