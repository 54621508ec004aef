// Package store persists trades and daily closes with gorm, in postgres or in a sqlite file.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/etnz/folio/config"
)

// DB is an open database handle. It must be released with Close.
type DB struct {
	Gorm *gorm.DB
	SQL  *sql.DB
}

// Open connects to the database selected by cfg.DSN.
func Open(cfg config.DBConfig) (*DB, error) {
	gcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	dialector, memory, err := dialectorFor(cfg.DSN)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, err
	}

	sqldb, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	if memory {
		// Every connection to ":memory:" is a distinct database.
		sqldb.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 && !memory {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &DB{Gorm: gdb, SQL: sqldb}, nil
}

func dialectorFor(dsn string) (d gorm.Dialector, memory bool, err error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return nil, false, fmt.Errorf("empty database dsn")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return postgres.Open(dsn), false, nil
	case dsn == ":memory:":
		return sqlite.Open(dsn), true, nil
	default:
		path := strings.TrimPrefix(dsn, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, false, fmt.Errorf("creating database folder: %w", err)
			}
		}
		return sqlite.Open(dsn), false, nil
	}
}

// Close releases the connections of db.
func Close(db *DB) error {
	if db == nil || db.SQL == nil {
		return nil
	}
	return db.SQL.Close()
}

// Ping checks the database is reachable.
func Ping(db *DB) error {
	if db == nil || db.SQL == nil {
		return nil
	}
	return db.SQL.Ping()
}

// AutoMigrate creates or updates the trades and prices tables.
func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil {
		return nil
	}
	return db.Gorm.AutoMigrate(&TradeRecord{}, &PriceRecord{})
}
