package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/roadweaver/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	version int
	name    string
	sql     string
}

func loadMigrations() ([]migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	var list []migration
	for _, e := range entries {
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			continue
		}
		v, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version prefix", e.Name())
		}
		data, err := migrationsFS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, err
		}
		list = append(list, migration{version: v, name: e.Name(), sql: string(data)})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].version < list[j].version })
	return list, nil
}

// SchemaVersion returns the number of the newest embedded migration.
func SchemaVersion() int {
	list, err := loadMigrations()
	if err != nil || len(list) == 0 {
		return 0
	}
	return list[len(list)-1].version
}

// migrate brings the schema up to the newest embedded migration, one
// transaction per step. It never downgrades.
func (s *SQLStore) migrate(ctx context.Context) error {
	log := logger.Named("store")
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		id      INTEGER PRIMARY KEY CHECK (id = 1),
		version INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	cur, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	list, err := loadMigrations()
	if err != nil {
		return err
	}
	for _, m := range list {
		if m.version <= cur {
			continue
		}
		if err := s.apply(ctx, m, cur == 0 && m == list[0]); err != nil {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
		log.Info("applied migration", zap.String("name", m.name), zap.String("driver", s.dialect))
		cur = m.version
	}
	return nil
}

func (s *SQLStore) schemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_version WHERE id = 1`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func (s *SQLStore) apply(ctx context.Context, m migration, first bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return err
	}
	q := `UPDATE schema_version SET version = ? WHERE id = 1`
	if first {
		q = `INSERT INTO schema_version (id, version) VALUES (1, ?)`
	}
	if _, err := tx.ExecContext(ctx, s.rebind(q), m.version); err != nil {
		return err
	}
	return tx.Commit()
}
