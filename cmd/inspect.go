package cmd

import (
	"fmt"

	"github.com/Rana718/dbtools/internal/config"
	"github.com/Rana718/dbtools/internal/inspect"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [tables...]",
	Short: "Show tables and their columns",
	Long:  `Reflect the connected database and print every table (or only the named ones) with its columns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		adapter, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer adapter.Close()

		tables, err := inspect.Describe(ctx, adapter, args)
		if err != nil {
			return err
		}
		return inspect.Render(cmd.OutOrStdout(), tables)
	},
}
