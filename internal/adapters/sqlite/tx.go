package sqlite

import (
	"database/sql"

	"treedit/internal/domain"
)

// stateTx groups the writes for one document's view state
type stateTx struct {
	tx *sql.Tx
}

func (s *Store) beginTx() (*stateTx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	return &stateTx{tx: tx}, nil
}

// upsertDocument inserts or updates the document row and its cursor
func (t *stateTx) upsertDocument(docPath string, cursor domain.Path) error {
	_, err := t.tx.Exec(`
		INSERT INTO documents (doc_path, cursor) VALUES (?, ?)
		ON CONFLICT(doc_path) DO UPDATE SET cursor = excluded.cursor
	`, docPath, cursor.String())
	return err
}

// clearExpanded removes all expanded paths of a document
func (t *stateTx) clearExpanded(docPath string) error {
	_, err := t.tx.Exec(`DELETE FROM expanded WHERE doc_path = ?`, docPath)
	return err
}

// insertExpanded adds one expanded path
func (t *stateTx) insertExpanded(docPath string, p domain.Path) error {
	_, err := t.tx.Exec(`
		INSERT OR IGNORE INTO expanded (doc_path, path) VALUES (?, ?)
	`, docPath, p.String())
	return err
}

// Commit commits the transaction
func (t *stateTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *stateTx) Rollback() error {
	return t.tx.Rollback()
}
