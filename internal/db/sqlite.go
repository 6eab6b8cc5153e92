package db

import (
  "fmt"
  "os"
  "path/filepath"

  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/listenbank/listenbank-backend/internal/pkg/logger"
  "github.com/listenbank/listenbank-backend/internal/types"
)

type SQLiteService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSQLiteService(path string, log *logger.Logger) (*SQLiteService, error) {
  serviceLog := log.With("service", "SQLiteService")

  if dir := filepath.Dir(path); dir != "." && dir != "" {
    if err := os.MkdirAll(dir, 0o755); err != nil {
      return nil, fmt.Errorf("create database directory %s: %w", dir, err)
    }
  }

  serviceLog.Info("Opening sqlite database", "path", path)
  gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Warn),
  })
  if err != nil {
    serviceLog.Error("Failed to open sqlite database", "error", err)
    return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
  }

  return &SQLiteService{db: gdb, log: serviceLog}, nil
}

func (s *SQLiteService) AutoMigrateAll() error {
  s.log.Info("Auto migrating sqlite tables...")
  if err := s.db.AutoMigrate(
    &types.ListeningQuestion{},
  ); err != nil {
    s.log.Error("Auto migration failed for sqlite tables", "error", err)
    return err
  }
  return nil
}

func (s *SQLiteService) DB() *gorm.DB {
  return s.db
}
