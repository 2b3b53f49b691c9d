package anonymizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rana718/dbtools/internal/database"
	"github.com/Rana718/dbtools/internal/faker"
	"github.com/Rana718/dbtools/internal/report"
	"github.com/Rana718/dbtools/internal/types"
)

// Result summarises an anonymization run. Skipped holds missing and empty
// tables, Failed holds tables whose updates were rolled back.
type Result struct {
	Anonymized map[string]int
	Skipped    []error
	Failed     []error
}

func (r *Result) TotalRows() int {
	total := 0
	for _, n := range r.Anonymized {
		total += n
	}
	return total
}

// Anonymizer overwrites configured columns of existing rows with generated
// values. Tables are independent: each one is updated in its own transaction
// and a failure on one table does not stop the next.
type Anonymizer struct {
	accessor  database.TableAccessor
	generator *faker.RowGenerator
	reporter  report.Reporter
}

func New(accessor database.TableAccessor, provider faker.ValueProvider, reporter report.Reporter) *Anonymizer {
	if reporter == nil {
		reporter = report.Discard
	}
	return &Anonymizer{
		accessor:  accessor,
		generator: faker.NewRowGenerator(provider, reporter),
		reporter:  reporter,
	}
}

// Anonymize processes spec tables in file order. The returned error is only
// set when ctx is cancelled between tables; per-table problems are in Result.
func (a *Anonymizer) Anonymize(ctx context.Context, spec types.AnonymizeSpec) (*Result, error) {
	result := &Result{Anonymized: make(map[string]int)}
	report.Info(a.reporter, "", "🎭 Starting data anonymization...")

	if len(spec.Tables) == 0 {
		report.Warn(a.reporter, "", fmt.Errorf("no anonymize tables configured"))
		return result, nil
	}

	for _, table := range spec.Tables {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		n, err := a.anonymizeTable(ctx, table)
		switch {
		case err == nil:
			result.Anonymized[table.Name] = n
			report.Success(a.reporter, table.Name, "%s anonymized (%d rows)", table.Name, n)
		case isSkip(err):
			report.Error(a.reporter, table.Name, err)
			result.Skipped = append(result.Skipped, err)
		default:
			report.Error(a.reporter, table.Name, err)
			result.Failed = append(result.Failed, err)
		}
	}

	report.Success(a.reporter, "", "Anonymization completed: %d rows across %d tables", result.TotalRows(), len(result.Anonymized))
	return result, nil
}

func (a *Anonymizer) anonymizeTable(ctx context.Context, table types.TableAnonymizeConfig) (int, error) {
	exists, err := a.accessor.TableExists(ctx, table.Name)
	if err != nil {
		return 0, types.NewTableError(table.Name, types.ErrPersistence, err)
	}
	if !exists {
		return 0, types.NewTableError(table.Name, types.ErrMissingTable, nil)
	}

	keys, err := a.accessor.SelectPrimaryKeys(ctx, table.Name)
	if err != nil {
		return 0, types.NewTableError(table.Name, types.ErrPersistence, err)
	}
	if len(keys) == 0 {
		return 0, types.NewTableError(table.Name, types.ErrEmptyTable, nil)
	}

	report.Info(a.reporter, table.Name, "🔄 Anonymizing %s (%d rows)...", table.Name, len(keys))

	if err := a.accessor.Begin(ctx); err != nil {
		return 0, types.NewTableError(table.Name, types.ErrPersistence, err)
	}

	generator := a.generator.ForTable(table.Name)
	updated := 0
	for _, key := range keys {
		values := generator.GenerateRow(table.Columns)
		if len(values) == 0 {
			continue
		}
		if err := a.accessor.UpdateRow(ctx, table.Name, key, values); err != nil {
			return 0, a.rollback(ctx, table.Name, fmt.Errorf("row %v: %w", key, err))
		}
		updated++
	}

	if err := a.accessor.Commit(ctx); err != nil {
		return 0, a.rollback(ctx, table.Name, err)
	}
	return updated, nil
}

func (a *Anonymizer) rollback(ctx context.Context, table string, cause error) error {
	if rbErr := a.accessor.Rollback(ctx); rbErr != nil {
		cause = fmt.Errorf("%w (rollback failed: %v)", cause, rbErr)
	}
	return types.NewTableError(table, types.ErrPersistence, cause)
}

func isSkip(err error) bool {
	var te *types.TableError
	return errors.As(err, &te) && (te.Kind == types.ErrMissingTable || te.Kind == types.ErrEmptyTable)
}
