// Package store persists generated populations so a run can be listed,
// reloaded and re-rendered later. SQLite (file or in-memory) and Postgres
// are supported through gorm.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/litescript/ls-stellar/internal/logging"
)

// MemoryDSN opens a shared in-memory SQLite database.
const MemoryDSN = "file::memory:?cache=shared"

const createBatchSize = 2000

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Store wraps the database connection.
type Store struct {
	db     *gorm.DB
	logger *logging.Logger
}

// dialectorFor picks the driver from the DSN. postgres:// and postgresql://
// URLs go to Postgres; anything else is a SQLite path or URI. An empty DSN
// is the shared in-memory database.
func dialectorFor(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	case dsn == "":
		return sqlite.Open(MemoryDSN)
	default:
		return sqlite.Open(dsn)
	}
}

// Open connects to the database and migrates the schema.
func Open(dsn string, log *logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Discard()
	}

	dialector := dialectorFor(dsn)
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        createBatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialector.Name(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if dialector.Name() == "sqlite" {
		// Every pooled connection to an in-memory database sees a fresh one.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialector.Name(), err)
	}

	if err := db.AutoMigrate(&Run{}, &StarRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	log.Debug("Opened %s run store", dialector.Name())
	return &Store{db: db, logger: log.With("component", "store")}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun stores a run and all of its stars in one transaction.
func (s *Store) SaveRun(ctx context.Context, in RunInput) (*Run, error) {
	run, err := newRun(in)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Stars").Create(run).Error; err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if len(run.Stars) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(run.Stars, createBatchSize).Error; err != nil {
			return fmt.Errorf("insert stars: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Saved run %s with %d stars", run.ID, len(run.Stars))
	return run, nil
}

// LoadRun returns a run with its stars in insertion order.
func (s *Store) LoadRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Preload("Stars", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	return &run, nil
}

// Runs lists the most recent runs without their stars. A limit of zero or
// less returns all runs.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var runs []Run
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run and its stars.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", id).Delete(&StarRecord{}).Error; err != nil {
			return fmt.Errorf("delete stars: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&Run{})
		if res.Error != nil {
			return fmt.Errorf("delete run: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil
	})
}

// decodeParams unmarshals the stored generator settings.
func decodeParams(raw []byte) (RunParams, error) {
	var p RunParams
	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("decode run params: %w", err)
	}
	return p, nil
}
