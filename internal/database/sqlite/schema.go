package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/dbtools/internal/database/common"
	"github.com/Rana718/dbtools/internal/types"
)

type dialect struct{}

func (dialect) Name() string { return "sqlite" }

func (dialect) Placeholder() squirrel.PlaceholderFormat { return squirrel.Question }

func (dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// RETURNING is available from SQLite 3.35, which both drivers bundle.
func (dialect) SupportsReturning() bool { return true }

func (dialect) DefaultValuesInsert(quotedTable string) string {
	return "INSERT INTO " + quotedTable + " DEFAULT VALUES"
}

func (dialect) IsUndefinedTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}

func (dialect) TableExists(ctx context.Context, r common.Runner, table string) (bool, error) {
	var count int
	err := r.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return count > 0, nil
}

func (dialect) TableNames(ctx context.Context, r common.Runner) ([]string, error) {
	rows, err := r.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
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

func (d dialect) TableColumns(ctx context.Context, r common.Runner, table string) ([]types.SchemaColumn, error) {
	rows, err := r.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", d.QuoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for %s: %w", table, err)
	}
	defer rows.Close()

	var columns []types.SchemaColumn
	var pkCount int
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		if pk > 0 {
			pkCount++
		}
		columns = append(columns, types.SchemaColumn{
			Name:      name,
			Type:      colType,
			Nullable:  notNull == 0 && pk == 0,
			Default:   dfltValue.String,
			IsPrimary: pk > 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A lone INTEGER PRIMARY KEY is an alias for the rowid.
	if pkCount == 1 {
		for i := range columns {
			if columns[i].IsPrimary && strings.EqualFold(columns[i].Type, "INTEGER") {
				columns[i].IsAutoIncrement = true
			}
		}
	}
	return columns, nil
}
