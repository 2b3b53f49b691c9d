package cmd

import (
	"fmt"

	"github.com/Rana718/dbtools/internal/config"
	"github.com/Rana718/dbtools/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the order tables would be seeded in",
	Long:  `Resolve the seed relations in db_tools.yml and print the insertion order without connecting to the database.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		specs, err := config.LoadSpecs(cfg.File)
		if err != nil {
			return err
		}

		order, err := seeder.ResolveOrder(specs.Seed)
		if err != nil {
			color.Red("❌ %v", err)
			return err
		}

		if len(order) == 0 {
			color.Yellow("⚠️  No seed tables configured in %s", cfg.File)
			return nil
		}

		color.Cyan("📋 Insertion order:")
		for i, name := range order {
			table, _ := specs.Seed.Lookup(name)
			line := fmt.Sprintf("  %d. %s (%d rows)", i+1, name, table.Count)
			for _, rel := range table.Relations {
				line += fmt.Sprintf(" %s → %s", rel.Column, rel.Table)
			}
			fmt.Println(line)
		}
		return nil
	},
}
