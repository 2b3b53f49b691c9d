package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Rana718/dbtools/internal/database/common"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	// DriverCgo is mattn/go-sqlite3.
	DriverCgo = "sqlite3"
	// DriverPure is modernc.org/sqlite, usable without cgo.
	DriverPure = "sqlite"
)

type Adapter struct {
	common.Store
	driver string
	path   string
}

func New(driver string) *Adapter {
	switch driver {
	case "", "mattn":
		driver = DriverCgo
	case "modernc":
		driver = DriverPure
	}
	return &Adapter{
		Store:  common.NewStore(dialect{}),
		driver: driver,
	}
}

// Open wraps an already opened connection. SQLite runs on a single
// connection so that a transaction sees every statement of the run.
func Open(db *sql.DB) *Adapter {
	a := New("")
	db.SetMaxOpenConns(1)
	a.Attach(db)
	return a
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	s.path = strings.TrimPrefix(strings.TrimPrefix(url, "sqlite://"), "sqlite3://")

	dsn := s.path
	if !strings.Contains(dsn, "?") {
		dsn += s.defaultParams()
	}

	db, err := sql.Open(s.driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to open SQLite database %s: %w", s.path, err)
	}

	s.Attach(db)
	return nil
}

func (s *Adapter) defaultParams() string {
	if s.driver == DriverPure {
		return "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	return "?_foreign_keys=on&_busy_timeout=5000"
}
