// Package search answers substring queries over posts. The index lives in an
// in-memory SQLite database that is rebuilt whenever content is reloaded.
package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	_ "modernc.org/sqlite"
)

// ErrQueryTooShort is returned for queries below the minimum length.
var ErrQueryTooShort = errors.New("search: query too short")

// Document is a post as the index sees it.
type Document struct {
	ID      string
	Title   string
	Summary string
	Body    string
	Tags    []string
	Date    time.Time
}

// Hit is a single search result.
type Hit struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Index is a rebuildable full-text projection of the post set.
type Index struct {
	db *sql.DB
}

// NewIndex opens an empty in-memory index.
func NewIndex() (*Index, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("search: open index: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(`
CREATE TABLE docs (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    tags TEXT NOT NULL, -- JSON array
    date INTEGER NOT NULL,
    title_norm TEXT NOT NULL,
    summary_norm TEXT NOT NULL,
    tags_norm TEXT NOT NULL,
    body_norm TEXT NOT NULL
);
`); err != nil {
		db.Close()
		return nil, fmt.Errorf("search: create schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database.
func (i *Index) Close() error {
	return i.db.Close()
}

// Rebuild replaces the indexed documents atomically.
func (i *Index) Rebuild(ctx context.Context, docs []Document) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("search: begin rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM docs`); err != nil {
		return fmt.Errorf("search: clear index: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO docs (id, title, tags, date, title_norm, summary_norm, tags_norm, body_norm) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("search: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		tags, err := json.Marshal(lo.Compact(d.Tags))
		if err != nil {
			return fmt.Errorf("search: encode tags of %s: %w", d.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			d.ID, d.Title, string(tags), d.Date.Unix(),
			normalize(d.Title), normalize(d.Summary), normalize(strings.Join(d.Tags, "\n")), normalize(d.Body),
		); err != nil {
			return fmt.Errorf("search: index %s: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("search: commit rebuild: %w", err)
	}
	return nil
}

// Query returns up to limit documents whose title, summary, tags or body
// contain q, ignoring case. Title matches come first, then newer posts.
// The result is never nil.
func (i *Index) Query(ctx context.Context, q string, limit int) ([]Hit, error) {
	needle := normalize(q)
	hits := []Hit{}
	if needle == "" || limit <= 0 {
		return hits, nil
	}
	rows, err := i.db.QueryContext(ctx, `
SELECT id, title, tags FROM docs
WHERE instr(title_norm, ?1) > 0
   OR instr(summary_norm, ?1) > 0
   OR instr(tags_norm, ?1) > 0
   OR instr(body_norm, ?1) > 0
ORDER BY instr(title_norm, ?1) > 0 DESC, date DESC, id ASC
LIMIT ?2`, needle, limit)
	if err != nil {
		return nil, fmt.Errorf("search: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h Hit
		var tags string
		if err := rows.Scan(&h.ID, &h.Title, &tags); err != nil {
			return nil, fmt.Errorf("search: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &h.Tags); err != nil {
			return nil, fmt.Errorf("search: decode tags of %s: %w", h.ID, err)
		}
		if h.Tags == nil {
			h.Tags = []string{}
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: query: %w", err)
	}
	return hits, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
