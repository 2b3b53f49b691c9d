package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Rana718/dbtools/internal/config"
	"github.com/Rana718/dbtools/internal/database"
	"github.com/Rana718/dbtools/internal/faker"
	"github.com/fatih/color"
)

func RegisterBaseCommands() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(anonymizeCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(generatorsCmd)
}

func loadConfig() (*config.Config, *config.Specs, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	specs, err := config.LoadSpecs(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	return cfg, specs, nil
}

func connect(ctx context.Context, cfg *config.Config) (database.DatabaseAdapter, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	adapter := database.NewAdapter(cfg.Provider(), cfg.Database.Driver)
	color.Cyan("🔌 Connecting to %s database...", cfg.Provider())
	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return adapter, nil
}

// newRand returns a source seeded with seed, or with the clock when seed is
// zero.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// newProvider builds the value provider and the foreign key source from one
// seed so a fixed --seed reproduces a whole run.
func newProvider(seed int64) (*faker.DataGenerator, *rand.Rand) {
	rng := newRand(seed)
	return faker.NewDataGenerator(faker.WithRand(newRand(rng.Int63()))), rng
}
