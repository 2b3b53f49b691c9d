package faker

import (
	"errors"
	"testing"
	"time"

	"github.com/Rana718/dbtools/internal/report"
	"github.com/Rana718/dbtools/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNames(t *testing.T) {
	g := NewDataGenerator(WithSeed(7))

	names := g.Names()
	assert.Len(t, names, 28)
	assert.IsIncreasing(t, names)
	for _, name := range []string{"name", "email", "address", "boolean", "date_time", "uuid4"} {
		assert.True(t, g.Has(name), name)
	}
	assert.False(t, g.Has("not_a_real_generator"))
}

func TestInvokeEveryGenerator(t *testing.T) {
	g := NewDataGenerator(WithSeed(7))
	for _, name := range g.Names() {
		value, err := g.Invoke(name)
		require.NoError(t, err, name)
		assert.NotNil(t, value, name)
	}
}

func TestInvokeUnknown(t *testing.T) {
	_, err := NewDataGenerator().Invoke("nope")
	assert.ErrorIs(t, err, types.ErrUnknownGenerator)
}

func TestValueTypes(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewDataGenerator(WithSeed(3), WithClock(now))

	b, _ := g.Invoke("boolean")
	assert.IsType(t, true, b)

	ts, _ := g.Invoke("date_time")
	require.IsType(t, time.Time{}, ts)
	assert.False(t, ts.(time.Time).After(now))
	assert.True(t, ts.(time.Time).After(now.AddDate(-1, 0, -1)))

	n, _ := g.Invoke("random_number")
	assert.IsType(t, 0, n)

	id, _ := g.Invoke("uuid4")
	_, err := uuid.Parse(id.(string))
	assert.NoError(t, err)

	email, _ := g.Invoke("email")
	assert.Contains(t, email, "@")
}

func TestSeededGeneratorsAreReproducible(t *testing.T) {
	a := NewDataGenerator(WithSeed(42), WithClock(time.Unix(0, 0)))
	b := NewDataGenerator(WithSeed(42), WithClock(time.Unix(0, 0)))

	for _, name := range a.Names() {
		va, _ := a.Invoke(name)
		vb, _ := b.Invoke(name)
		assert.Equal(t, va, vb, name)
	}
}

func TestEmailsDoNotRepeat(t *testing.T) {
	g := NewDataGenerator(WithSeed(1))
	seen := make(map[any]bool)
	for i := 0; i < 500; i++ {
		email, _ := g.Invoke("email")
		require.False(t, seen[email], "duplicate email %v", email)
		seen[email] = true
	}
}

func TestGenerateRowOmitsUnknownGenerators(t *testing.T) {
	rec := report.NewRecorder()
	rows := NewRowGenerator(NewDataGenerator(WithSeed(1)), rec).ForTable("users")

	row := rows.GenerateRow([]types.ColumnGenerator{
		{Column: "f1", Generator: "name"},
		{Column: "f2", Generator: "not_a_real_generator"},
	})

	assert.Contains(t, row, "f1")
	assert.NotContains(t, row, "f2")

	warnings := rec.ByLevel(report.LevelWarn)
	require.Len(t, warnings, 1)
	assert.Equal(t, "users", warnings[0].Table)

	var unknown *types.UnknownGeneratorError
	require.True(t, errors.As(warnings[0].Err, &unknown))
	assert.Equal(t, "f2", unknown.Column)
	assert.Equal(t, "not_a_real_generator", unknown.Generator)
}

func TestGenerateRowWithNoColumns(t *testing.T) {
	row := NewRowGenerator(NewDataGenerator(), nil).GenerateRow(nil)
	assert.NotNil(t, row)
	assert.Empty(t, row)
}

func TestGenerateBulkCount(t *testing.T) {
	rows := NewRowGenerator(NewDataGenerator(WithSeed(5)), nil)
	columns := []types.ColumnGenerator{{Column: "email", Generator: "email"}}

	for _, n := range []int{0, 1, 7, 100} {
		got := rows.GenerateBulk(n, columns)
		require.NotNil(t, got)
		assert.Len(t, got, n)
	}
	assert.Empty(t, rows.GenerateBulk(-3, columns))
}

func TestGenerateBulkWarnsPerOccurrence(t *testing.T) {
	rec := report.NewRecorder()
	rows := NewRowGenerator(NewDataGenerator(), rec)

	rows.GenerateBulk(4, []types.ColumnGenerator{{Column: "x", Generator: "bogus"}})
	assert.Len(t, rec.ByLevel(report.LevelWarn), 4)
}
