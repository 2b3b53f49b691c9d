package faker

import (
	"github.com/Rana718/dbtools/internal/report"
	"github.com/Rana718/dbtools/internal/types"
)

// RowGenerator turns a column→generator mapping into rows. Columns whose
// generator is unknown are left out of the row and reported as warnings, so
// one bad column never aborts a batch.
type RowGenerator struct {
	provider ValueProvider
	reporter report.Reporter
	table    string
}

func NewRowGenerator(provider ValueProvider, reporter report.Reporter) *RowGenerator {
	if reporter == nil {
		reporter = report.Discard
	}
	return &RowGenerator{provider: provider, reporter: reporter}
}

// ForTable returns a generator whose warnings name table.
func (r *RowGenerator) ForTable(table string) *RowGenerator {
	scoped := *r
	scoped.table = table
	return &scoped
}

func (r *RowGenerator) GenerateRow(columns []types.ColumnGenerator) types.Row {
	row := make(types.Row, len(columns))
	for _, c := range columns {
		if !r.provider.Has(c.Generator) {
			report.Warn(r.reporter, r.table, &types.UnknownGeneratorError{Column: c.Column, Generator: c.Generator})
			continue
		}
		value, err := r.provider.Invoke(c.Generator)
		if err != nil {
			report.Warn(r.reporter, r.table, err)
			continue
		}
		row[c.Column] = value
	}
	return row
}

func (r *RowGenerator) GenerateBulk(count int, columns []types.ColumnGenerator) []types.Row {
	if count <= 0 {
		return []types.Row{}
	}
	rows := make([]types.Row, count)
	for i := range rows {
		rows[i] = r.GenerateRow(columns)
	}
	return rows
}
