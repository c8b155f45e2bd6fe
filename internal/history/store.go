package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type implStore struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite ledger at path.
func Open(ctx context.Context, path string) (Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying db: %w", err)
	}
	// Concurrent talkers share one writer.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&runModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &implStore{db: db}, nil
}

// Record inserts run and sets its ID.
func (s *implStore) Record(ctx context.Context, run *Run) error {
	m := toModel(*run)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	run.ID = m.ID
	return nil
}

// Recent returns the latest runs, newest first.
func (s *implStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	var models []runModel
	q := s.db.WithContext(ctx).Order("started_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return fromModels(models), nil
}

// ForDay returns the runs started on day's calendar date, oldest first.
func (s *implStore) ForDay(ctx context.Context, day time.Time) ([]Run, error) {
	var models []runModel
	err := s.db.WithContext(ctx).
		Where("day = ?", dayKey(day)).
		Order("started_at ASC").Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list runs for %s: %w", dayKey(day), err)
	}
	return fromModels(models), nil
}

func (s *implStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying db: %w", err)
	}
	return sqlDB.Close()
}

func fromModels(models []runModel) []Run {
	runs := make([]Run, 0, len(models))
	for _, m := range models {
		runs = append(runs, fromModel(m))
	}
	return runs
}
