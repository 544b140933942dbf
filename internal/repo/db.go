// Package repo persists the catalog and stored scout replies in SQLite
// through GORM. Queries take a context so the OpenTelemetry plugin can attach
// their spans to the calling request.
package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-keynexus/internal/domain"
)

// ErrNotFound aliases gorm.ErrRecordNotFound so callers can match either.
var ErrNotFound = gorm.ErrRecordNotFound

// Connection pool limits. SQLite serializes writers anyway.
const (
	maxOpenConns    = 10
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 30 * time.Minute
)

var pragmas = []string{
	"synchronous=NORMAL",
	"foreign_keys=ON",
	"busy_timeout=5000",
}

// OpenSQLite opens or creates the database at path, which may be a file path,
// a "file:" URI or ":memory:". On-disk databases use WAL journaling.
func OpenSQLite(path string) (*gorm.DB, error) {
	memory := isMemoryDSN(path)
	if !memory {
		// sqlite reports a missing directory as "out of memory" on some platforms.
		if dir := filepath.Dir(path); dir != "." {
			if _, err := os.Stat(dir); err != nil {
				return nil, err
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("install tracing: %w", err)
	}

	set := pragmas
	if !memory {
		set = append([]string{"journal_mode=WAL"}, pragmas...)
	}
	for _, p := range set {
		if err := db.Exec("PRAGMA " + p).Error; err != nil {
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxOpenConns)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	if !memory {
		// a shared-cache memory database vanishes with its last connection
		sqlDB.SetConnMaxLifetime(connMaxLifetime)
	}
	return db, nil
}

func isMemoryDSN(path string) bool {
	return path == ":memory:" || (strings.HasPrefix(path, "file:") && strings.Contains(path, "mode=memory"))
}

// AutoMigrate creates or updates the products and idempotency tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Product{}, &domain.StoredReply{})
}

// Ping checks that the database answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
