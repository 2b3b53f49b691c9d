package types

import "sort"

type SchemaTable struct {
	Name    string
	Columns []SchemaColumn
}

type SchemaColumn struct {
	Name            string
	Type            string
	Nullable        bool
	Default         string
	IsPrimary       bool
	IsAutoIncrement bool // SERIAL, IDENTITY, AUTO_INCREMENT or a SQLite rowid alias
}

// Row is one generated record keyed by column name.
type Row map[string]any

// ColumnsOf returns the sorted union of column names across rows.
func ColumnsOf(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for col := range row {
			seen[col] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for col := range seen {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

// SeededPrimaryKeys maps a table name to the primary keys produced for it
// during the current seeding run, in insertion order.
type SeededPrimaryKeys map[string][]any

func (k SeededPrimaryKeys) Record(table string, keys []any) {
	k[table] = append(k[table], keys...)
}

func (k SeededPrimaryKeys) Keys(table string) []any {
	return k[table]
}
