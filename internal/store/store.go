// Package store persists path documents in SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/roadweaver/internal/config"
	"github.com/Faultbox/roadweaver/internal/document"
	"github.com/Faultbox/roadweaver/internal/logger"
)

var (
	ErrNotFound    = errors.New("path not found")
	ErrInvalidName = errors.New("path name must not be empty")
)

// stampLayout is fixed width so stamps sort as text in time order.
const stampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatStamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

func parseStamp(s string) (time.Time, error) {
	t, err := time.Parse(stampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad updated_at %q: %w", s, err)
	}
	return t, nil
}

// Summary describes a stored path without decoding it.
type Summary struct {
	Name      string
	Anchors   int
	Closed    bool
	UpdatedAt time.Time
}

// Store saves and loads path documents by name.
type Store interface {
	Save(ctx context.Context, doc *document.Document) error
	Load(ctx context.Context, name string) (*document.Document, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// Open connects to the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   *SQLStore
		err error
	)
	switch cfg.Driver {
	case "sqlite", "":
		s, err = OpenSQLite(cfg.Path)
	case "postgres":
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		s, err = OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SQLStore implements Store over database/sql. The two backends share the
// schema and differ only in placeholder syntax.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// DB exposes the underlying handle.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLStore) Close() error { return s.db.Close() }

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Save inserts or replaces the document stored under doc.Name.
func (s *SQLStore) Save(ctx context.Context, doc *document.Document) error {
	if strings.TrimSpace(doc.Name) == "" {
		return ErrInvalidName
	}
	path, err := doc.Path()
	if err != nil {
		return err
	}
	body, err := document.Encode(doc)
	if err != nil {
		return err
	}
	now := formatStamp(time.Now())
	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO paths (name, body, anchors, closed, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			body = excluded.body,
			anchors = excluded.anchors,
			closed = excluded.closed,
			updated_at = excluded.updated_at`),
		doc.Name, string(body), path.AnchorCount(), doc.Closed, now)
	if err != nil {
		return fmt.Errorf("save %q: %w", doc.Name, err)
	}
	logger.Named("store").Debug("saved path",
		zap.String("name", doc.Name), zap.String("driver", s.dialect), zap.Int("bytes", len(body)))
	return nil
}

// Load returns the document stored under name.
func (s *SQLStore) Load(ctx context.Context, name string) (*document.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT body FROM paths WHERE name = ?`), name).Scan(&body)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	case err != nil:
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	return document.Decode([]byte(body))
}

// List returns all stored paths, most recently updated first.
func (s *SQLStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, anchors, closed, updated_at FROM paths ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}
	defer rows.Close()

	var list []Summary
	for rows.Next() {
		var sum Summary
		var updated string
		if err := rows.Scan(&sum.Name, &sum.Anchors, &sum.Closed, &updated); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		if sum.UpdatedAt, err = parseStamp(updated); err != nil {
			return nil, fmt.Errorf("path %q: %w", sum.Name, err)
		}
		list = append(list, sum)
	}
	return list, rows.Err()
}

// Delete removes the path stored under name.
func (s *SQLStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM paths WHERE name = ?`), name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
