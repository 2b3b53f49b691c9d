package cmd

import (
	"fmt"

	"github.com/Rana718/dbtools/internal/config"
	"github.com/Rana718/dbtools/internal/report"
	"github.com/Rana718/dbtools/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	seedBatch    int
	seedTruncate bool
	seedRandSeed int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed tables with generated data",
	Long: `Generate rows for every table under "seed:" in db_tools.yml and insert them
in foreign-key order. The whole run is one transaction: if any table fails
nothing is written. Tables missing from the database are reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, specs, err := loadConfig()
		if err != nil {
			return err
		}

		seedCfg, err := seedConfigFor(cmd, cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		adapter, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer adapter.Close()

		provider, rng := newProvider(seedRandSeed)
		seedCfg.Rand = rng

		s := seeder.NewSeeder(adapter, provider, report.NewConsole(cmd.OutOrStdout()), seedCfg)
		result, err := s.Seed(ctx, specs.Seed)
		if err != nil {
			return err
		}

		printSeedSummary(result)
		return nil
	},
}

// seedConfigFor starts from the seeding section of the config file and lets
// explicitly set flags override it.
func seedConfigFor(cmd *cobra.Command, cfg *config.Config) (seeder.SeedConfig, error) {
	seedCfg := seeder.SeedConfig{Batch: cfg.Seeding.Batch, Truncate: cfg.Seeding.Truncate}
	if cmd.Flags().Changed("batch") {
		seedCfg.Batch = seedBatch
	}
	if cmd.Flags().Changed("truncate") {
		seedCfg.Truncate = seedTruncate
	}
	if seedCfg.Batch < 0 {
		return seedCfg, fmt.Errorf("--batch cannot be negative")
	}
	return seedCfg, nil
}

func printSeedSummary(result *seeder.Result) {
	fmt.Println()
	color.Cyan("📊 Seed summary")
	for _, table := range result.Order {
		if n, ok := result.Seeded[table]; ok {
			fmt.Printf("  %-30s %d rows\n", table, n)
		}
	}
	if len(result.Skipped) > 0 {
		color.Yellow("⚠️  %d table(s) skipped", len(result.Skipped))
	}
	color.Green("✅ %d rows inserted into %d table(s)", result.TotalRows(), len(result.Seeded))
}

func addSeedFlags(c *cobra.Command) {
	c.Flags().IntVar(&seedBatch, "batch", 0, "Rows per INSERT statement (0 = one statement per table; PostgreSQL caps one statement at 65535 values, so set this for large counts)")
	c.Flags().BoolVar(&seedTruncate, "truncate", false, "Delete existing rows of seeded tables first")
	c.Flags().Int64Var(&seedRandSeed, "seed", 0, "Random seed for reproducible data (0 = random)")
}

func init() {
	addSeedFlags(seedCmd)
}
