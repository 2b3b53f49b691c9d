package database

import (
	"context"

	"github.com/Rana718/dbtools/internal/types"
)

// TableAccessor is everything the seeding and anonymization runs need from
// the target database.
type TableAccessor interface {
	TableExists(ctx context.Context, table string) (bool, error)
	GetTableColumns(ctx context.Context, table string) ([]types.SchemaColumn, error)
	GetAllTableNames(ctx context.Context) ([]string, error)

	// InsertBatch returns the generated primary keys in input order.
	InsertBatch(ctx context.Context, table string, rows []types.Row) ([]any, error)
	SelectPrimaryKeys(ctx context.Context, table string) ([]any, error)
	UpdateRow(ctx context.Context, table string, key any, values types.Row) error
	DeleteAll(ctx context.Context, table string) error

	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type DatabaseAdapter interface {
	TableAccessor

	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error
}
