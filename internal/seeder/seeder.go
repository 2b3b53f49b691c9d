package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Rana718/dbtools/internal/database"
	"github.com/Rana718/dbtools/internal/faker"
	"github.com/Rana718/dbtools/internal/report"
	"github.com/Rana718/dbtools/internal/types"
)

// Seeder fills tables with generated rows in dependency order. A run is all
// or nothing: every insert happens inside one transaction that is committed
// only after the last table succeeds.
//
// A Seeder must not run concurrently with another run on the same accessor.
type Seeder struct {
	accessor  database.TableAccessor
	generator *faker.RowGenerator
	reporter  report.Reporter
	config    SeedConfig
	rand      *rand.Rand
}

func NewSeeder(accessor database.TableAccessor, provider faker.ValueProvider, reporter report.Reporter, cfg SeedConfig) *Seeder {
	if reporter == nil {
		reporter = report.Discard
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Seeder{
		accessor:  accessor,
		generator: faker.NewRowGenerator(provider, reporter),
		reporter:  reporter,
		config:    cfg,
		rand:      rng,
	}
}

// Seed runs one seeding pass over spec. Missing tables are reported and
// skipped; a cyclic spec fails before the database is touched; any insert
// failure rolls back the whole run.
func (s *Seeder) Seed(ctx context.Context, spec types.SeedSpec) (*Result, error) {
	report.Info(s.reporter, "", "🌱 Starting database seeding...")

	order, err := ResolveOrder(spec)
	if err != nil {
		report.Error(s.reporter, "", err)
		return nil, err
	}

	result := newResult(order)
	if len(order) == 0 {
		report.Warn(s.reporter, "", fmt.Errorf("no seed tables configured"))
		return result, nil
	}
	report.Info(s.reporter, "", "📋 Insertion order: %s", strings.Join(order, " → "))

	if err := s.accessor.Begin(ctx); err != nil {
		err = fmt.Errorf("%w: %w", types.ErrPersistence, err)
		report.Error(s.reporter, "", err)
		return result, err
	}
	report.Info(s.reporter, "", "🔒 Transaction started")

	if err := s.run(ctx, spec, order, result); err != nil {
		report.Error(s.reporter, "", err)
		report.Info(s.reporter, "", "🔄 Rolling back transaction due to error...")
		result.Seeded = make(map[string]int)
		if rbErr := s.accessor.Rollback(ctx); rbErr != nil {
			return result, fmt.Errorf("seed failed and rollback failed: %v (original: %w)", rbErr, err)
		}
		report.Info(s.reporter, "", "Transaction rolled back, no rows were written")
		return result, err
	}

	if err := s.accessor.Commit(ctx); err != nil {
		result.Seeded = make(map[string]int)
		err = fmt.Errorf("%w: %w", types.ErrPersistence, err)
		report.Error(s.reporter, "", err)
		return result, err
	}
	report.Info(s.reporter, "", "🔓 Transaction committed")
	report.Success(s.reporter, "", "Database seeding completed: %d rows across %d tables", result.TotalRows(), len(result.Seeded))
	return result, nil
}

func (s *Seeder) run(ctx context.Context, spec types.SeedSpec, order []string, result *Result) error {
	var present []string
	for _, name := range order {
		exists, err := s.accessor.TableExists(ctx, name)
		if err != nil {
			return types.NewTableError(name, types.ErrPersistence, err)
		}
		if !exists {
			skipped := types.NewTableError(name, types.ErrMissingTable, nil)
			report.Error(s.reporter, name, skipped)
			result.Skipped = append(result.Skipped, skipped)
			continue
		}
		present = append(present, name)
	}

	if s.config.Truncate {
		if err := s.truncateTables(ctx, present); err != nil {
			return err
		}
	}

	keys := make(types.SeededPrimaryKeys)
	for _, name := range present {
		if err := ctx.Err(); err != nil {
			return err
		}
		table, _ := spec.Lookup(name)
		n, err := s.seedTable(ctx, table, keys)
		if err != nil {
			return err
		}
		result.Seeded[name] = n
	}
	return nil
}

func (s *Seeder) seedTable(ctx context.Context, table types.TableSeedConfig, keys types.SeededPrimaryKeys) (int, error) {
	report.Info(s.reporter, table.Name, "📝 Seeding %s (%d records)...", table.Name, table.Count)

	rows := s.generator.ForTable(table.Name).GenerateBulk(table.Count, table.Columns)
	s.wireRelations(table, rows, keys)

	batchSize := s.config.Batch
	if batchSize <= 0 || batchSize > len(rows) {
		batchSize = len(rows)
	}

	inserted := make([]any, 0, len(rows))
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		ids, err := s.accessor.InsertBatch(ctx, table.Name, rows[start:end])
		if err != nil {
			return 0, types.NewTableError(table.Name, types.ErrPersistence, err)
		}
		inserted = append(inserted, ids...)
	}

	keys.Record(table.Name, inserted)
	report.Success(s.reporter, table.Name, "%s seeded with %d rows", table.Name, len(rows))
	return len(rows), nil
}

// wireRelations points every foreign key at a random key seeded earlier in
// this run. Relations whose parent produced no keys are left unset.
func (s *Seeder) wireRelations(table types.TableSeedConfig, rows []types.Row, keys types.SeededPrimaryKeys) {
	if len(rows) == 0 {
		return
	}
	for _, rel := range table.Relations {
		if len(keys.Keys(rel.Table)) == 0 {
			report.Info(s.reporter, table.Name, "Relation %s → %s has no seeded keys, leaving it unset", rel.Column, rel.Table)
		}
	}

	for _, row := range rows {
		for _, rel := range table.Relations {
			parentKeys := keys.Keys(rel.Table)
			if len(parentKeys) == 0 {
				delete(row, rel.Column)
				continue
			}
			row[rel.Column] = parentKeys[s.rand.Intn(len(parentKeys))]
		}
	}
}

// truncateTables deletes existing rows children first, inside the run
// transaction.
func (s *Seeder) truncateTables(ctx context.Context, order []string) error {
	report.Info(s.reporter, "", "🗑️  Truncating tables...")
	for i := len(order) - 1; i >= 0; i-- {
		if err := s.accessor.DeleteAll(ctx, order[i]); err != nil {
			return types.NewTableError(order[i], types.ErrPersistence, err)
		}
	}
	return nil
}
