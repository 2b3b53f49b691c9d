package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/dbtools/internal/types"
)

// Dialect captures what differs between providers: quoting, placeholders,
// catalog queries and how the engine hands back generated keys.
type Dialect interface {
	Name() string
	Placeholder() squirrel.PlaceholderFormat
	QuoteIdentifier(name string) string
	TableExists(ctx context.Context, r Runner, table string) (bool, error)
	TableColumns(ctx context.Context, r Runner, table string) ([]types.SchemaColumn, error)
	TableNames(ctx context.Context, r Runner) ([]string, error)
	SupportsReturning() bool
	DefaultValuesInsert(quotedTable string) string
	IsUndefinedTable(err error) bool
}

// Store implements the table accessor on top of database/sql. It holds at
// most one open transaction; while it is open every statement runs on it.
type Store struct {
	db          *sql.DB
	tx          *sql.Tx
	qb          squirrel.StatementBuilderType
	dialect     Dialect
	primaryKeys map[string]string
}

func NewStore(d Dialect) Store {
	return Store{
		qb:          squirrel.StatementBuilder.PlaceholderFormat(d.Placeholder()),
		dialect:     d,
		primaryKeys: make(map[string]string),
	}
}

// Attach binds an open connection pool to the store.
func (s *Store) Attach(db *sql.DB) {
	s.db = db
	s.tx = nil
	s.primaryKeys = make(map[string]string)
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) Close() error {
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("not connected")
	}
	return s.db.PingContext(ctx)
}

func (s *Store) runner() Runner {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *Store) Begin(ctx context.Context) error {
	if s.db == nil {
		return errors.New("not connected")
	}
	if s.tx != nil {
		return errors.New("transaction already in progress")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.tx = tx
	return nil
}

func (s *Store) Commit(ctx context.Context) error {
	if s.tx == nil {
		return errors.New("no transaction in progress")
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback is a no-op when no transaction is open.
func (s *Store) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	if err := ValidateIdentifiers(table); err != nil {
		return false, err
	}
	return s.dialect.TableExists(ctx, s.runner(), table)
}

func (s *Store) GetTableColumns(ctx context.Context, table string) ([]types.SchemaColumn, error) {
	if err := ValidateIdentifiers(table); err != nil {
		return nil, err
	}
	columns, err := s.dialect.TableColumns(ctx, s.runner(), table)
	if err != nil {
		return nil, s.classify(table, err)
	}
	return columns, nil
}

func (s *Store) GetAllTableNames(ctx context.Context) ([]string, error) {
	return s.dialect.TableNames(ctx, s.runner())
}

// PrimaryKey returns the single primary key column of table. Results are
// cached for the lifetime of the connection.
func (s *Store) PrimaryKey(ctx context.Context, table string) (string, error) {
	if pk, ok := s.primaryKeys[table]; ok {
		return pk, nil
	}

	columns, err := s.GetTableColumns(ctx, table)
	if err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", types.NewTableError(table, types.ErrMissingTable, nil)
	}

	var keys []string
	for _, col := range columns {
		if col.IsPrimary {
			keys = append(keys, col.Name)
		}
	}
	switch len(keys) {
	case 0:
		return "", types.NewTableError(table, types.ErrNoPrimaryKey, nil)
	case 1:
		s.primaryKeys[table] = keys[0]
		return keys[0], nil
	default:
		return "", types.NewTableError(table, types.ErrCompositePrimaryKey, fmt.Errorf("key columns %v", keys))
	}
}

// InsertBatch inserts rows in one statement and returns their primary keys
// in the same order. Columns missing from a row are inserted as NULL.
func (s *Store) InsertBatch(ctx context.Context, table string, rows []types.Row) ([]any, error) {
	if len(rows) == 0 {
		return []any{}, nil
	}
	if err := ValidateIdentifiers(table); err != nil {
		return nil, err
	}

	pk, err := s.PrimaryKey(ctx, table)
	if err != nil {
		return nil, err
	}

	columns := types.ColumnsOf(rows)
	if err := ValidateIdentifiers(columns...); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return s.insertDefaults(ctx, table, pk, len(rows))
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = s.dialect.QuoteIdentifier(col)
	}

	insert := s.qb.Insert(s.dialect.QuoteIdentifier(table)).Columns(quoted...)
	for _, row := range rows {
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = row[col]
		}
		insert = insert.Values(values...)
	}

	if s.dialect.SupportsReturning() {
		query, args, err := insert.Suffix("RETURNING " + s.dialect.QuoteIdentifier(pk)).ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build insert: %w", err)
		}
		result, err := s.runner().QueryContext(ctx, query, args...)
		if err != nil {
			return nil, s.classify(table, err)
		}
		keys, err := scanSingleColumn(result)
		if err != nil {
			return nil, err
		}
		if len(keys) != len(rows) {
			return nil, fmt.Errorf("insert into %s returned %d keys for %d rows", table, len(keys), len(rows))
		}
		return keys, nil
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}
	result, err := s.runner().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, s.classify(table, err)
	}
	return keysFromResult(result, pk, rows)
}

// keysFromResult recovers keys when the engine has no RETURNING. Explicit
// key values win; otherwise keys are assumed consecutive from LastInsertId,
// which holds for auto-increment columns filled by a single statement.
func keysFromResult(result sql.Result, pk string, rows []types.Row) ([]any, error) {
	if _, ok := rows[0][pk]; ok {
		keys := make([]any, len(rows))
		for i, row := range rows {
			keys[i] = row[pk]
		}
		return keys, nil
	}

	first, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read generated keys: %w", err)
	}
	keys := make([]any, len(rows))
	for i := range rows {
		keys[i] = first + int64(i)
	}
	return keys, nil
}

func (s *Store) insertDefaults(ctx context.Context, table, pk string, count int) ([]any, error) {
	query := s.dialect.DefaultValuesInsert(s.dialect.QuoteIdentifier(table))
	keys := make([]any, 0, count)

	for i := 0; i < count; i++ {
		if s.dialect.SupportsReturning() {
			var key any
			err := s.runner().QueryRowContext(ctx, query+" RETURNING "+s.dialect.QuoteIdentifier(pk)).Scan(&key)
			if err != nil {
				return nil, s.classify(table, err)
			}
			keys = append(keys, NormalizeValue(key))
			continue
		}

		result, err := s.runner().ExecContext(ctx, query)
		if err != nil {
			return nil, s.classify(table, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read generated key: %w", err)
		}
		keys = append(keys, id)
	}
	return keys, nil
}

func (s *Store) SelectPrimaryKeys(ctx context.Context, table string) ([]any, error) {
	pk, err := s.PrimaryKey(ctx, table)
	if err != nil {
		return nil, err
	}

	quotedPK := s.dialect.QuoteIdentifier(pk)
	query, args, err := s.qb.Select(quotedPK).From(s.dialect.QuoteIdentifier(table)).OrderBy(quotedPK).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := s.runner().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.classify(table, err)
	}
	keys, err := scanSingleColumn(rows)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []any{}
	}
	return keys, nil
}

// UpdateRow sets exactly the given columns on the row whose primary key is
// key. An empty value set is a no-op.
func (s *Store) UpdateRow(ctx context.Context, table string, key any, values types.Row) error {
	if len(values) == 0 {
		return nil
	}
	pk, err := s.PrimaryKey(ctx, table)
	if err != nil {
		return err
	}

	columns := types.ColumnsOf([]types.Row{values})
	if err := ValidateIdentifiers(columns...); err != nil {
		return err
	}

	update := s.qb.Update(s.dialect.QuoteIdentifier(table))
	for _, col := range columns {
		update = update.Set(s.dialect.QuoteIdentifier(col), values[col])
	}
	query, args, err := update.Where(squirrel.Eq{s.dialect.QuoteIdentifier(pk): key}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	if _, err := s.runner().ExecContext(ctx, query, args...); err != nil {
		return s.classify(table, err)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context, table string) error {
	if err := ValidateIdentifiers(table); err != nil {
		return err
	}
	query, args, err := s.qb.Delete(s.dialect.QuoteIdentifier(table)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}
	if _, err := s.runner().ExecContext(ctx, query, args...); err != nil {
		return s.classify(table, err)
	}
	return nil
}

func (s *Store) classify(table string, err error) error {
	if s.dialect.IsUndefinedTable(err) {
		return types.NewTableError(table, types.ErrMissingTable, err)
	}
	return err
}

// ConfigurePool applies the connection limits shared by the server-backed
// providers.
func ConfigurePool(db *sql.DB, maxOpen int) {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)
}
