// internal/configstore/sqlite.go
package configstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/chedoparti/clubsched/internal/pricing"
	"github.com/chedoparti/clubsched/internal/schedule"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps configuration blobs in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
	notifier
}

// NewSQLite opens (creating if necessary) the database at filename and applies
// embedded migrations.
func NewSQLite(filename string) (*SQLiteStore, error) {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("error opening store database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error running store migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create migrate source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) getBlob(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM config_blobs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *SQLiteStore) setBlob(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config_blobs (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`,
		key, string(data),
	)
	return err
}

func (s *SQLiteStore) LoadSchedule(ctx context.Context) (schedule.InstitutionSchedule, error) {
	return loadScheduleBlob(ctx, s)
}

func (s *SQLiteStore) SaveSchedule(ctx context.Context, sched schedule.InstitutionSchedule) error {
	if err := saveScheduleBlob(ctx, s, sched); err != nil {
		return err
	}
	s.notify(sched)
	return nil
}

func (s *SQLiteStore) LoadPricing(ctx context.Context) (pricing.Config, error) {
	return loadPricingBlob(ctx, s)
}

func (s *SQLiteStore) SavePricing(ctx context.Context, cfg pricing.Config) error {
	return savePricingBlob(ctx, s, cfg)
}

func (s *SQLiteStore) OnScheduleChanged(fn func(schedule.InstitutionSchedule)) func() {
	return s.subscribe(fn)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
