package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks docsite/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DocumentStore defines the interface for search document storage operations.
type DocumentStore interface {
	// ReplaceAll atomically replaces the stored search index with docs.
	ReplaceAll(ctx context.Context, docs []DocumentRecord) error
	// Search returns up to limit documents whose title or content contains
	// query, case-insensitively, in index order.
	Search(ctx context.Context, query string, limit int) ([]DocumentRecord, error)
	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}

// DocumentRepo provides methods for search document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// ReplaceAll deletes every stored document and inserts docs in one transaction.
func (r *DocumentRepo) ReplaceAll(ctx context.Context, docs []DocumentRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM search_documents"); err != nil {
		return fmt.Errorf("failed to clear search documents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO search_documents (build_id, position, level, page_title, title, content) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, d := range docs {
		if _, err := stmt.ExecContext(ctx, d.BuildID, d.Position, d.Level, d.PageTitle, d.Title, d.Content); err != nil {
			return fmt.Errorf("failed to insert search document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit search documents: %w", err)
	}
	return nil
}

// Search returns up to limit documents whose title or content contains query.
// An empty query matches every document.
func (r *DocumentRepo) Search(ctx context.Context, query string, limit int) ([]DocumentRecord, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	rows, err := r.db.QueryContext(ctx,
		`SELECT build_id, position, level, page_title, title, content FROM search_documents
		 WHERE lower(title) LIKE ? ESCAPE '\' OR lower(content) LIKE ? ESCAPE '\'
		 ORDER BY position LIMIT ?`,
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query search documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []DocumentRecord
	for rows.Next() {
		var d DocumentRecord
		if err := rows.Scan(&d.BuildID, &d.Position, &d.Level, &d.PageTitle, &d.Title, &d.Content); err != nil {
			return nil, fmt.Errorf("failed to scan search document: %w", err)
		}
		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// Count returns the number of stored documents.
func (r *DocumentRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count search documents: %w", err)
	}
	return n, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
