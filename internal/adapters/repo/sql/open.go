package sql

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"

	sqlitePragmas = "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
)

// OpenSQLite opens or creates the database file at path.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open(DriverSQLite, path+sqlitePragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)

	return db, nil
}

type MySQLConfig struct {
	User     string
	Password string
	Addr     string
	Database string
}

// MySQLDSN renders cfg as a go-sql-driver DSN with time parsing enabled.
func MySQLDSN(cfg MySQLConfig) string {
	dsn := mysql.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = cfg.Addr
	dsn.DBName = cfg.Database
	dsn.ParseTime = true
	dsn.Loc = time.UTC

	return dsn.FormatDSN()
}

func OpenMySQL(ctx context.Context, cfg MySQLConfig) (*sql.DB, error) {
	if cfg.Addr == "" || cfg.Database == "" {
		return nil, fmt.Errorf("mysql addr and database are required")
	}

	db, err := sql.Open(DriverMySQL, MySQLDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return db, nil
}
