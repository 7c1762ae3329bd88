package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_page_store.go -package=mocks docsite/internal/storage PageStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// PageStore defines the interface for page storage operations.
type PageStore interface {
	// GetByURL gets a page by URL. Returns nil and ErrNotFound if not found.
	GetByURL(ctx context.Context, url string) (*PageRecord, error)
	// Upsert inserts or updates a page and reports whether its hash changed.
	Upsert(ctx context.Context, page *PageRecord) (bool, error)
	// Prune deletes every page whose URL is not in keep.
	Prune(ctx context.Context, keep []string) (int64, error)
}

// PageRepo provides methods for page operations.
// It implements the PageStore interface.
type PageRepo struct {
	db *sql.DB
}

// NewPageRepo creates a new PageRepo.
func NewPageRepo(db *sql.DB) *PageRepo {
	return &PageRepo{db: db}
}

// GetByURL gets a page by URL. Returns nil and ErrNotFound if not found.
func (r *PageRepo) GetByURL(ctx context.Context, url string) (*PageRecord, error) {
	var page PageRecord
	var updatedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, url, rel_path, title, hash, updated_at FROM pages WHERE url = ?",
		url,
	).Scan(&page.ID, &page.URL, &page.RelPath, &page.Title, &page.Hash, &updatedAtStr)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query page: %w", err)
	}

	page.UpdatedAt, err = time.Parse("2006-01-02 15:04:05", updatedAtStr)
	if err != nil {
		// Try alternative format (SQLite might use different format)
		page.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
		}
	}

	return &page, nil
}

// Upsert inserts a new page or updates an existing one, keeping the ID of an
// existing row. It reports true for new pages and pages whose hash changed.
func (r *PageRepo) Upsert(ctx context.Context, page *PageRecord) (bool, error) {
	existing, err := r.GetByURL(ctx, page.URL)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("failed to check existing page: %w", err)
	}

	changed := existing == nil || existing.Hash != page.Hash
	if existing != nil {
		page.ID = existing.ID
	} else if page.ID == "" {
		page.ID = uuid.New().String()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO pages (id, url, rel_path, title, hash, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (url) DO UPDATE SET
		 rel_path = excluded.rel_path, title = excluded.title, hash = excluded.hash,
		 updated_at = CASE WHEN pages.hash = excluded.hash THEN pages.updated_at ELSE CURRENT_TIMESTAMP END`,
		page.ID, page.URL, page.RelPath, page.Title, page.Hash,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert page: %w", err)
	}

	return changed, nil
}

// Prune deletes every page whose URL is not in keep and returns the number of
// deleted rows.
func (r *PageRepo) Prune(ctx context.Context, keep []string) (int64, error) {
	query := "DELETE FROM pages"
	args := make([]any, 0, len(keep))
	if len(keep) > 0 {
		query += " WHERE url NOT IN (?" + strings.Repeat(", ?", len(keep)-1) + ")"
		for _, url := range keep {
			args = append(args, url)
		}
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to prune pages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned pages: %w", err)
	}
	return n, nil
}
