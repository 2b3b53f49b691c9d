package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/dbtools/internal/database/common"
	"github.com/Rana718/dbtools/internal/types"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE 42P01
const undefinedTable = "42P01"

type dialect struct{}

func (dialect) Name() string { return "postgresql" }

func (dialect) Placeholder() squirrel.PlaceholderFormat { return squirrel.Dollar }

func (dialect) QuoteIdentifier(name string) string { return pq.QuoteIdentifier(name) }

func (dialect) SupportsReturning() bool { return true }

func (dialect) DefaultValuesInsert(quotedTable string) string {
	return "INSERT INTO " + quotedTable + " DEFAULT VALUES"
}

func (dialect) IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == undefinedTable
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == undefinedTable
	}
	return false
}

func (dialect) TableExists(ctx context.Context, r common.Runner, table string) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_name = $1 AND table_schema = current_schema()
		)
	`, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return exists, nil
}

func (dialect) TableNames(ctx context.Context, r common.Runner) ([]string, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (dialect) TableColumns(ctx context.Context, r common.Runner, table string) ([]types.SchemaColumn, error) {
	rows, err := r.QueryContext(ctx, `
	SELECT
		c.column_name,
		c.data_type,
		c.is_nullable = 'YES',
		COALESCE(c.column_default, ''),
		pk.column_name IS NOT NULL,
		c.is_identity = 'YES' OR COALESCE(c.column_default, '') LIKE 'nextval(%'
	FROM information_schema.columns c
	LEFT JOIN (
		SELECT kcu.table_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = current_schema()
	) pk ON c.table_name = pk.table_name AND c.column_name = pk.column_name
	WHERE c.table_name = $1 AND c.table_schema = current_schema()
	ORDER BY c.ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for %s: %w", table, err)
	}
	defer rows.Close()

	var columns []types.SchemaColumn
	for rows.Next() {
		var col types.SchemaColumn
		if err := rows.Scan(&col.Name, &col.Type, &col.Nullable, &col.Default, &col.IsPrimary, &col.IsAutoIncrement); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}
