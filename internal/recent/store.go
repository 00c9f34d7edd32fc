// Package recent remembers which documents were opened or saved lately.
package recent

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/strrl/mdwriter/internal/db"
	"github.com/strrl/mdwriter/pkg/models"
)

const queryTimeout = 5 * time.Second

const schema = `
	CREATE TABLE IF NOT EXISTS recent_documents (
		path        VARCHAR PRIMARY KEY,
		name        VARCHAR NOT NULL,
		last_opened TIMESTAMP NOT NULL,
		open_count  INTEGER NOT NULL,
		last_action VARCHAR NOT NULL
	)
`

// Store is a DuckDB backed list of recent documents.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the store at dsn, creating the table if needed. An empty dsn
// keeps everything in memory.
func Open(dsn string) (*Store, error) {
	database, err := db.Open(dsn)
	if err != nil {
		return nil, err
	}
	if _, err := database.Exec(schema); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create recent_documents table: %w", err)
	}
	return &Store{db: database, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Touch records that path was just loaded or saved.
func (s *Store) Touch(ctx context.Context, path, action string) error {
	if path == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE recent_documents
		SET last_opened = ?, open_count = open_count + 1, last_action = ?
		WHERE path = ?
	`, now, action, path)
	if err != nil {
		return fmt.Errorf("failed to update recent document: %w", err)
	}

	updated, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if updated == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO recent_documents (path, name, last_opened, open_count, last_action)
			VALUES (?, ?, ?, 1, ?)
		`, path, filepath.Base(path), now, action)
		if err != nil {
			return fmt.Errorf("failed to insert recent document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recent document: %w", err)
	}
	return nil
}

// List returns up to limit documents, most recent first.
func (s *Store) List(ctx context.Context, limit int) ([]models.RecentDocument, error) {
	if limit <= 0 {
		limit = 20
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, name, last_opened, open_count, last_action
		FROM recent_documents
		ORDER BY last_opened DESC, path
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute recent documents query: %w", err)
	}
	defer rows.Close()

	var docs []models.RecentDocument
	for rows.Next() {
		var doc models.RecentDocument
		if err := rows.Scan(&doc.Path, &doc.Name, &doc.LastOpened, &doc.OpenCount, &doc.LastAction); err != nil {
			return nil, fmt.Errorf("failed to scan recent document: %w", err)
		}
		doc.LastOpened = doc.LastOpened.Local()
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recent documents: %w", err)
	}
	return docs, nil
}

// Forget removes path from the list. It reports whether path was there.
func (s *Store) Forget(ctx context.Context, path string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM recent_documents WHERE path = ?`, path)
	if err != nil {
		return false, fmt.Errorf("failed to forget recent document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n > 0, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_documents`); err != nil {
		return fmt.Errorf("failed to clear recent documents: %w", err)
	}
	return nil
}
