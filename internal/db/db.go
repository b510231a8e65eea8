package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/tempo/internal/apperr"
	"github.com/balkashynov/tempo/internal/clock"
	"github.com/balkashynov/tempo/internal/models"
)

// Store owns the database handle and the clock every write is stamped with.
type Store struct {
	db    *gorm.DB
	clock clock.Clock
	log   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source. Defaults to UTC wall time.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// Open sets up the database connection and runs migrations
func Open(dbPath string, opts ...Option) (*Store, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	gdb, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // Quiet by default
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// A single connection serializes writers; sqlite allows one anyway.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	s := &Store{
		db:    gdb,
		clock: clock.NewZoned(nil),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// dsn stores times as "2006-01-02 15:04:05.999999999-07:00" so the offset
// survives a round trip.
func dsn(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
}

// migrate creates/updates the database schema
func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(
		&models.Project{},
		&models.Session{},
	); err != nil {
		return err
	}

	if err := s.backfillNameKeys(); err != nil {
		return err
	}

	stmts := []string{
		`DROP INDEX IF EXISTS idx_projects_name_nocase`,
		// names are unique regardless of case
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_name_key ON projects(name_key)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects(created_at)`,
		// at most one running session across every project
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_single_active ON sessions(is_active) WHERE is_active = 1`,
	}
	for _, stmt := range stmts {
		if err := s.db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

// backfillNameKeys fills name_key for rows written before the column existed.
func (s *Store) backfillNameKeys() error {
	var projects []models.Project
	if err := s.db.Where("name_key = ''").Find(&projects).Error; err != nil {
		return err
	}
	for _, p := range projects {
		err := s.db.Model(&models.Project{}).
			Where("id = ?", p.ID).
			Update("name_key", nameKey(p.Name)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// internal converts anything that is not already a coded error into an
// Internal one and logs the cause.
func (s *Store) internal(ctx context.Context, err error, op string) error {
	var coded *apperr.Error
	if errors.As(err, &coded) {
		return err
	}
	s.log.ErrorContext(ctx, "store operation failed", "op", op, "error", err)
	return apperr.Internal(err, op)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
