package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"treedit/internal/domain"
	"treedit/internal/ports"
)

const schemaVersion = "1"

// Store implements ports.SessionStore using SQLite. It remembers, per
// document, which containers were expanded and where the cursor was.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Ensure Store implements SessionStore
var _ ports.SessionStore = (*Store)(nil)

// Open opens or creates the state database in stateDir.
// An empty stateDir uses $XDG_DATA_HOME/treedit.
func Open(stateDir string) (*Store, error) {
	dbPath := databasePath(stateDir)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS documents (
			doc_path TEXT PRIMARY KEY,
			cursor TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS expanded (
			doc_path TEXT NOT NULL REFERENCES documents(doc_path) ON DELETE CASCADE,
			path TEXT NOT NULL,
			PRIMARY KEY (doc_path, path)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.dbPath
}

// databasePath returns the path for the SQLite database
func databasePath(stateDir string) string {
	if stateDir == "" {
		// XDG data directory
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, _ := os.UserHomeDir()
			dataHome = filepath.Join(home, ".local", "share")
		}
		stateDir = filepath.Join(dataHome, "treedit")
	}
	return filepath.Join(stateDir, "state.db")
}

// migrate drops stored state written by an older schema
func (s *Store) migrate() error {
	var version string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if version == schemaVersion {
		return nil
	}
	if version != "" {
		if _, err := s.db.Exec(`DELETE FROM expanded; DELETE FROM documents;`); err != nil {
			return err
		}
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	return err
}

// Load returns the stored state for a document, or nil if there is none.
// Paths that no longer parse are skipped; the session prunes the rest.
func (s *Store) Load(docPath string) (*ports.ViewState, error) {
	key, err := documentKey(docPath)
	if err != nil {
		return nil, err
	}

	var cursor string
	err = s.db.QueryRow(`SELECT cursor FROM documents WHERE doc_path = ?`, key).Scan(&cursor)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &ports.ViewState{}
	if p, err := domain.ParsePath(cursor); err == nil {
		state.Cursor = p
	}

	rows, err := s.db.Query(`SELECT path FROM expanded WHERE doc_path = ? ORDER BY path`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		if p, err := domain.ParsePath(text); err == nil {
			state.Expanded = append(state.Expanded, p)
		}
	}
	return state, rows.Err()
}

// Save replaces the stored state for a document in one transaction
func (s *Store) Save(docPath string, state ports.ViewState) error {
	key, err := documentKey(docPath)
	if err != nil {
		return err
	}

	tx, err := s.beginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.upsertDocument(key, state.Cursor); err != nil {
		return fmt.Errorf("failed to store cursor: %w", err)
	}
	if err := tx.clearExpanded(key); err != nil {
		return fmt.Errorf("failed to clear expansion state: %w", err)
	}
	for _, p := range state.Expanded {
		if err := tx.insertExpanded(key, p); err != nil {
			return fmt.Errorf("failed to store expansion state: %w", err)
		}
	}
	return tx.Commit()
}

// Forget removes everything stored for a document
func (s *Store) Forget(docPath string) error {
	key, err := documentKey(docPath)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		DELETE FROM expanded WHERE doc_path = ?;
		DELETE FROM documents WHERE doc_path = ?;
	`, key, key)
	return err
}

func documentKey(docPath string) (string, error) {
	abs, err := filepath.Abs(docPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", docPath, err)
	}
	return abs, nil
}
