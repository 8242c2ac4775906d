package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Document stores one named blob in the documents table. Each Replace is a
// single upsert statement, so readers see either the old or the new content.
type Document struct {
	db   *DB
	name string
}

// NewDocument returns the document called name.
func NewDocument(db *DB, name string) *Document {
	return &Document{db: db, name: name}
}

// Exists reports whether the document row is present.
func (d *Document) Exists(ctx context.Context) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE name = ?`, d.name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check document: %w", err)
	}
	return count > 0, nil
}

// Read returns the stored content.
func (d *Document) Read(ctx context.Context) ([]byte, error) {
	var content []byte
	err := d.db.QueryRowContext(ctx,
		`SELECT content FROM documents WHERE name = ?`, d.name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %q: %w", d.name, errNoDocument)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return content, nil
}

// Replace overwrites the document content.
func (d *Document) Replace(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO documents (name, content, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at
	`
	if _, err := d.db.ExecContext(ctx, query, d.name, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
