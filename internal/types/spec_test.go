package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSeedSpecKeepsDocumentOrder(t *testing.T) {
	doc := `
zebras:
  count: 2
  columns:
    name: name
apples:
  columns:
    colour: color_name
    picked: date_time
  relations:
    zebra_id:
      table: zebras
mangoes:
  count: 0
`
	var spec SeedSpec
	require.NoError(t, yaml.Unmarshal([]byte(doc), &spec))

	assert.Equal(t, []string{"zebras", "apples", "mangoes"}, spec.TableNames())

	apples, ok := spec.Lookup("apples")
	require.True(t, ok)
	assert.Equal(t, DefaultSeedCount, apples.Count)
	assert.Equal(t, []ColumnGenerator{
		{Column: "colour", Generator: "color_name"},
		{Column: "picked", Generator: "date_time"},
	}, apples.Columns)
	assert.Equal(t, []Relation{{Column: "zebra_id", Table: "zebras"}}, apples.Relations)

	mangoes, ok := spec.Lookup("mangoes")
	require.True(t, ok)
	assert.Equal(t, 0, mangoes.Count)
	assert.Empty(t, mangoes.Columns)
	assert.Empty(t, mangoes.Relations)

	_, ok = spec.Lookup("pears")
	assert.False(t, ok)
}

func TestSeedSpecRejectsInvalidInput(t *testing.T) {
	tests := map[string]string{
		"negative count":   "users:\n  count: -1\n",
		"relation table":   "orders:\n  relations:\n    user_id: {}\n",
		"generator type":   "users:\n  columns:\n    name: [a, b]\n",
		"not a mapping":    "- users\n- orders\n",
		"columns sequence": "users:\n  columns:\n    - name\n",
		"duplicate table":  "users:\n  count: 1\norders:\n  relations:\n    user_id: {table: users}\nusers:\n  count: 2\n",
		"duplicate column": "users:\n  columns:\n    name: name\n    name: email\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			var spec SeedSpec
			assert.Error(t, yaml.Unmarshal([]byte(doc), &spec))
		})
	}
}

func TestDuplicateKeyErrorNamesKeyAndLine(t *testing.T) {
	doc := "users:\n  count: 1\norders:\n  count: 1\nusers:\n  count: 2\n"

	var spec SeedSpec
	err := yaml.Unmarshal([]byte(doc), &spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate key "users" at line 5`)

	var anon AnonymizeSpec
	err = yaml.Unmarshal([]byte("users:\n  columns:\n    email: email\n    email: word\n"), &anon)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate key "email"`)
}

func TestSpecsInsideDocument(t *testing.T) {
	doc := `
connection: sqlite://app.db
seed:
  users:
    columns:
      email: email
anonymize:
  users:
    columns:
      email: email
      name: name
  payments:
    columns:
      card: word
`
	var file struct {
		Seed      SeedSpec      `yaml:"seed"`
		Anonymize AnonymizeSpec `yaml:"anonymize"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(doc), &file))

	assert.Equal(t, []string{"users"}, file.Seed.TableNames())
	assert.Equal(t, []string{"users", "payments"}, file.Anonymize.TableNames())
	assert.Equal(t, []ColumnGenerator{
		{Column: "email", Generator: "email"},
		{Column: "name", Generator: "name"},
	}, file.Anonymize.Tables[0].Columns)
}

func TestEmptySections(t *testing.T) {
	var file struct {
		Seed      SeedSpec      `yaml:"seed"`
		Anonymize AnonymizeSpec `yaml:"anonymize"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("seed:\nanonymize: {}\n"), &file))
	assert.Empty(t, file.Seed.Tables)
	assert.Empty(t, file.Anonymize.Tables)
}

func TestTableErrorUnwrapsKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTableError("orders", ErrPersistence, cause)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrMissingTable)
	assert.Equal(t, "table orders: persistence failure: connection reset", err.Error())

	missing := NewTableError("ghosts", ErrMissingTable, nil)
	assert.ErrorIs(t, missing, ErrMissingTable)
	assert.Equal(t, "table ghosts: table does not exist", missing.Error())
}

func TestCycleErrorIsCyclicDependency(t *testing.T) {
	var err error = &CycleError{Tables: []string{"a", "b"}}
	assert.ErrorIs(t, err, ErrCyclicDependency)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a", "b"}, cycle.Tables)
}

func TestSeededPrimaryKeys(t *testing.T) {
	keys := make(SeededPrimaryKeys)
	assert.Empty(t, keys.Keys("users"))

	keys.Record("users", []any{int64(1), int64(2)})
	keys.Record("users", []any{int64(3)})
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, keys.Keys("users"))
}

func TestColumnsOf(t *testing.T) {
	rows := []Row{
		{"name": "a", "email": "a@x"},
		{"name": "b", "age": 3},
	}
	assert.Equal(t, []string{"age", "email", "name"}, ColumnsOf(rows))
	assert.Empty(t, ColumnsOf(nil))
}
