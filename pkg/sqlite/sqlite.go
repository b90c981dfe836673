package sqlite

import (
	"fmt"
	"strings"

	"golang-stock-watchlist/pkg/postgres"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds the settings for a file backed SQLite database.
type Config struct {
	Path     string
	LogLevel string
}

// NewDB opens (and creates if needed) the SQLite database at cfg.Path.
// Journal mode WAL with a 5s busy timeout.
func NewDB(cfg Config) (*postgres.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	dsn := cfg.Path
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_journal_mode=WAL&_busy_timeout=5000"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(postgres.ParseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return &postgres.DB{DB: db}, nil
}
