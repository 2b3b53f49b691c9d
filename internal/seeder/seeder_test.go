package seeder

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"testing"

	"github.com/Rana718/dbtools/internal/database"
	"github.com/Rana718/dbtools/internal/database/sqlite"
	"github.com/Rana718/dbtools/internal/faker"
	"github.com/Rana718/dbtools/internal/report"
	"github.com/Rana718/dbtools/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT
);
CREATE TABLE orders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER REFERENCES users(id),
    amount INTEGER
);
`

func openTestDB(t *testing.T) (*sql.DB, *sqlite.Adapter) {
	t.Helper()
	db, err := sql.Open(sqlite.DriverPure, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	adapter := sqlite.Open(db)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db, adapter
}

func newTestSeeder(accessor database.TableAccessor, rec report.Reporter, cfg SeedConfig) *Seeder {
	cfg.Rand = rand.New(rand.NewSource(1))
	return NewSeeder(accessor, faker.NewDataGenerator(faker.WithSeed(1)), rec, cfg)
}

func usersAndOrders() types.SeedSpec {
	return types.SeedSpec{Tables: []types.TableSeedConfig{
		{
			Name:    "users",
			Count:   3,
			Columns: []types.ColumnGenerator{{Column: "name", Generator: "name"}},
		},
		{
			Name:      "orders",
			Count:     5,
			Columns:   []types.ColumnGenerator{{Column: "amount", Generator: "random_number"}},
			Relations: []types.Relation{{Column: "user_id", Table: "users"}},
		},
	}}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestSeedWiresForeignKeys(t *testing.T) {
	db, adapter := openTestDB(t)
	rec := report.NewRecorder()

	result, err := newTestSeeder(adapter, rec, SeedConfig{}).Seed(context.Background(), usersAndOrders())
	require.NoError(t, err)

	assert.Equal(t, []string{"users", "orders"}, result.Order)
	assert.Equal(t, map[string]int{"users": 3, "orders": 5}, result.Seeded)
	assert.Equal(t, 8, result.TotalRows())
	assert.Empty(t, result.Skipped)
	assert.Empty(t, rec.ByLevel(report.LevelError))

	userIDs := map[int64]bool{}
	rows, err := db.Query("SELECT id FROM users")
	require.NoError(t, err)
	for rows.Next() {
		var id int64
		require.NoError(t, rows.Scan(&id))
		userIDs[id] = true
	}
	require.NoError(t, rows.Err())
	rows.Close()
	require.Len(t, userIDs, 3)

	rows, err = db.Query("SELECT user_id FROM orders")
	require.NoError(t, err)
	defer rows.Close()
	n := 0
	for rows.Next() {
		var userID sql.NullInt64
		require.NoError(t, rows.Scan(&userID))
		require.True(t, userID.Valid)
		assert.True(t, userIDs[userID.Int64], "order points at unknown user %d", userID.Int64)
		n++
	}
	assert.Equal(t, 5, n)
}

func TestSeedUnknownParentLeavesColumnUnset(t *testing.T) {
	db, adapter := openTestDB(t)
	spec := types.SeedSpec{Tables: []types.TableSeedConfig{{
		Name:      "orders",
		Count:     4,
		Columns:   []types.ColumnGenerator{{Column: "amount", Generator: "random_number"}},
		Relations: []types.Relation{{Column: "user_id", Table: "customers"}},
	}}}

	_, err := newTestSeeder(adapter, nil, SeedConfig{}).Seed(context.Background(), spec)
	require.NoError(t, err)

	var withUser int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders WHERE user_id IS NOT NULL").Scan(&withUser))
	assert.Zero(t, withUser)
	assert.Equal(t, 4, countRows(t, db, "orders"))
}

func TestSeedUnresolvedRelationDropsGeneratedValue(t *testing.T) {
	db, adapter := openTestDB(t)
	spec := types.SeedSpec{Tables: []types.TableSeedConfig{{
		Name:  "orders",
		Count: 4,
		Columns: []types.ColumnGenerator{
			{Column: "amount", Generator: "random_number"},
			{Column: "user_id", Generator: "random_int"},
		},
		Relations: []types.Relation{{Column: "user_id", Table: "customers"}},
	}}}

	_, err := newTestSeeder(adapter, nil, SeedConfig{}).Seed(context.Background(), spec)
	require.NoError(t, err)

	var withUser int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders WHERE user_id IS NOT NULL").Scan(&withUser))
	assert.Zero(t, withUser)
	assert.Equal(t, 4, countRows(t, db, "orders"))
}

func TestSeedParentWithZeroRows(t *testing.T) {
	db, adapter := openTestDB(t)
	spec := usersAndOrders()
	spec.Tables[0].Count = 0

	result, err := newTestSeeder(adapter, nil, SeedConfig{}).Seed(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Seeded["users"])

	var withUser int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders WHERE user_id IS NOT NULL").Scan(&withUser))
	assert.Zero(t, withUser)
}

func TestSeedSkipsMissingTable(t *testing.T) {
	db, adapter := openTestDB(t)
	rec := report.NewRecorder()
	spec := usersAndOrders()
	spec.Tables = append([]types.TableSeedConfig{{
		Name:    "ghosts",
		Count:   2,
		Columns: []types.ColumnGenerator{{Column: "name", Generator: "name"}},
	}}, spec.Tables...)

	result, err := newTestSeeder(adapter, rec, SeedConfig{}).Seed(context.Background(), spec)
	require.NoError(t, err)

	require.Len(t, result.Skipped, 1)
	assert.ErrorIs(t, result.Skipped[0], types.ErrMissingTable)
	assert.NotContains(t, result.Seeded, "ghosts")
	assert.Equal(t, 3, countRows(t, db, "users"))
	assert.Equal(t, 5, countRows(t, db, "orders"))

	errorsByTable := map[string]bool{}
	for _, e := range rec.ByLevel(report.LevelError) {
		errorsByTable[e.Table] = true
	}
	assert.True(t, errorsByTable["ghosts"])
}

func TestSeedRollsBackOnInsertFailure(t *testing.T) {
	db, adapter := openTestDB(t)
	spec := usersAndOrders()
	spec.Tables[1].Columns = append(spec.Tables[1].Columns, types.ColumnGenerator{Column: "no_such_column", Generator: "word"})

	result, err := newTestSeeder(adapter, nil, SeedConfig{}).Seed(context.Background(), spec)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPersistence)

	var tableErr *types.TableError
	require.ErrorAs(t, err, &tableErr)
	assert.Equal(t, "orders", tableErr.Table)

	assert.Empty(t, result.Seeded)
	assert.Zero(t, countRows(t, db, "users"))
	assert.Zero(t, countRows(t, db, "orders"))
}

func TestSeedCycleTouchesNothing(t *testing.T) {
	_, adapter := openTestDB(t)
	spy := &spyAccessor{TableAccessor: adapter}
	rec := report.NewRecorder()
	spec := types.SeedSpec{Tables: []types.TableSeedConfig{
		{Name: "users", Count: 1, Relations: []types.Relation{{Column: "order_id", Table: "orders"}}},
		{Name: "orders", Count: 1, Relations: []types.Relation{{Column: "user_id", Table: "users"}}},
	}}

	result, err := newTestSeeder(spy, rec, SeedConfig{}).Seed(context.Background(), spec)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, types.ErrCyclicDependency)
	assert.Empty(t, spy.calls)

	errs := rec.ByLevel(report.LevelError)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0].Err, types.ErrCyclicDependency)
}

func TestSeedInBatches(t *testing.T) {
	db, adapter := openTestDB(t)
	spy := &spyAccessor{TableAccessor: adapter}
	spec := usersAndOrders()
	spec.Tables[1].Count = 7

	result, err := newTestSeeder(spy, nil, SeedConfig{Batch: 3}).Seed(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 7, result.Seeded["orders"])
	assert.Equal(t, 7, countRows(t, db, "orders"))

	// users: one batch of 3; orders: 3 + 3 + 1
	assert.Equal(t, 4, spy.count("InsertBatch"))
}

func TestSeedTruncatesFirst(t *testing.T) {
	db, adapter := openTestDB(t)
	_, err := db.Exec("INSERT INTO users (name) VALUES ('old'), ('older')")
	require.NoError(t, err)

	_, err = newTestSeeder(adapter, nil, SeedConfig{Truncate: true}).Seed(context.Background(), usersAndOrders())
	require.NoError(t, err)

	var old int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE name IN ('old', 'older')").Scan(&old))
	assert.Zero(t, old)
	assert.Equal(t, 3, countRows(t, db, "users"))
}

func TestSeedEmptySpec(t *testing.T) {
	_, adapter := openTestDB(t)
	spy := &spyAccessor{TableAccessor: adapter}

	result, err := newTestSeeder(spy, nil, SeedConfig{}).Seed(context.Background(), types.SeedSpec{})
	require.NoError(t, err)
	assert.Empty(t, result.Order)
	assert.Empty(t, spy.calls)
}

func TestSeedCancelledContext(t *testing.T) {
	db, adapter := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestSeeder(adapter, nil, SeedConfig{}).Seed(ctx, usersAndOrders())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, types.ErrPersistence))
	assert.Zero(t, countRows(t, db, "users"))
}

func TestSeedCommitFailure(t *testing.T) {
	_, adapter := openTestDB(t)
	spy := &spyAccessor{TableAccessor: adapter}

	result, err := newTestSeeder(failingCommit{spy}, nil, SeedConfig{}).Seed(context.Background(), usersAndOrders())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPersistence)
	assert.Empty(t, result.Seeded)
	assert.Equal(t, 1, spy.count("Commit"))
	assert.Zero(t, spy.count("Rollback"))
}

// spyAccessor records every accessor call before delegating.
type spyAccessor struct {
	database.TableAccessor
	calls []string
}

func (s *spyAccessor) count(method string) int {
	n := 0
	for _, c := range s.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (s *spyAccessor) TableExists(ctx context.Context, table string) (bool, error) {
	s.calls = append(s.calls, "TableExists")
	return s.TableAccessor.TableExists(ctx, table)
}

func (s *spyAccessor) InsertBatch(ctx context.Context, table string, rows []types.Row) ([]any, error) {
	s.calls = append(s.calls, "InsertBatch")
	return s.TableAccessor.InsertBatch(ctx, table, rows)
}

func (s *spyAccessor) SelectPrimaryKeys(ctx context.Context, table string) ([]any, error) {
	s.calls = append(s.calls, "SelectPrimaryKeys")
	return s.TableAccessor.SelectPrimaryKeys(ctx, table)
}

func (s *spyAccessor) UpdateRow(ctx context.Context, table string, key any, values types.Row) error {
	s.calls = append(s.calls, "UpdateRow")
	return s.TableAccessor.UpdateRow(ctx, table, key, values)
}

func (s *spyAccessor) DeleteAll(ctx context.Context, table string) error {
	s.calls = append(s.calls, "DeleteAll")
	return s.TableAccessor.DeleteAll(ctx, table)
}

func (s *spyAccessor) Begin(ctx context.Context) error {
	s.calls = append(s.calls, "Begin")
	return s.TableAccessor.Begin(ctx)
}

func (s *spyAccessor) Commit(ctx context.Context) error {
	s.calls = append(s.calls, "Commit")
	return s.TableAccessor.Commit(ctx)
}

func (s *spyAccessor) Rollback(ctx context.Context) error {
	s.calls = append(s.calls, "Rollback")
	return s.TableAccessor.Rollback(ctx)
}

// failingCommit discards the transaction and reports a commit error.
type failingCommit struct {
	*spyAccessor
}

func (f failingCommit) Commit(ctx context.Context) error {
	f.calls = append(f.calls, "Commit")
	_ = f.TableAccessor.Rollback(ctx)
	return errors.New("disk I/O error")
}
