package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/dbtools/internal/database/common"
	"github.com/Rana718/dbtools/internal/types"
	gomysql "github.com/go-sql-driver/mysql"
)

// ER_NO_SUCH_TABLE
const errNoSuchTable = 1146

type dialect struct{}

func (dialect) Name() string { return "mysql" }

func (dialect) Placeholder() squirrel.PlaceholderFormat { return squirrel.Question }

func (dialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (dialect) SupportsReturning() bool { return false }

func (dialect) DefaultValuesInsert(quotedTable string) string {
	return "INSERT INTO " + quotedTable + " () VALUES ()"
}

func (dialect) IsUndefinedTable(err error) bool {
	var myErr *gomysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errNoSuchTable
}

func (dialect) TableExists(ctx context.Context, r common.Runner, table string) (bool, error) {
	var count int
	err := r.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?",
		table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return count > 0, nil
}

func (dialect) TableNames(ctx context.Context, r common.Runner) ([]string, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT TABLE_NAME
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY TABLE_NAME`)
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
		COLUMN_NAME,
		COLUMN_TYPE,
		IS_NULLABLE = 'YES',
		COALESCE(COLUMN_DEFAULT, ''),
		COLUMN_KEY = 'PRI',
		EXTRA LIKE '%auto_increment%'
	FROM information_schema.columns
	WHERE table_schema = DATABASE() AND table_name = ?
	ORDER BY ORDINAL_POSITION`, table)
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
