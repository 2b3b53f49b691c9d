package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rana718/dbtools/internal/database/common"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

const (
	DriverPgx = "pgx"
	DriverPq  = "postgres"
)

type Adapter struct {
	common.Store
	driver string
}

// New returns an unconnected adapter. driver is "pgx" (default) or
// "postgres" for lib/pq.
func New(driver string) *Adapter {
	switch driver {
	case "":
		driver = DriverPgx
	case "pq":
		driver = DriverPq
	}
	return &Adapter{
		Store:  common.NewStore(dialect{}),
		driver: driver,
	}
}

// Open wraps an already opened connection pool.
func Open(db *sql.DB) *Adapter {
	a := New("")
	a.Attach(db)
	return a
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open(p.driver, url)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	common.ConfigurePool(db, 2)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	p.Attach(db)
	return nil
}
