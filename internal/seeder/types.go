package seeder

import "math/rand"

type SeedConfig struct {
	Batch    int        // Rows per INSERT statement; 0 inserts each table in one statement
	Truncate bool       // Delete existing rows of every seeded table first
	Rand     *rand.Rand // Source for foreign key picks; nil means time-seeded
}

// Result summarises a seeding run.
type Result struct {
	Order   []string
	Seeded  map[string]int // table -> rows inserted
	Skipped []error        // one *types.TableError per skipped table
}

func newResult(order []string) *Result {
	return &Result{Order: order, Seeded: make(map[string]int)}
}

func (r *Result) TotalRows() int {
	total := 0
	for _, n := range r.Seeded {
		total += n
	}
	return total
}
