package cmd

import (
	"fmt"

	"github.com/Rana718/dbtools/internal/anonymizer"
	"github.com/Rana718/dbtools/internal/report"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var anonymizeRandSeed int64

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize",
	Short: "Overwrite sensitive columns of existing rows",
	Long: `Replace the columns listed under "anonymize:" in db_tools.yml with generated
values, row by row. Each table is updated in its own transaction; a table
that fails is rolled back and the remaining tables are still processed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, specs, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		adapter, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer adapter.Close()

		provider, _ := newProvider(anonymizeRandSeed)
		a := anonymizer.New(adapter, provider, report.NewConsole(cmd.OutOrStdout()))
		result, err := a.Anonymize(ctx, specs.Anonymize)
		if err != nil {
			return err
		}

		fmt.Println()
		color.Cyan("📊 Anonymize summary")
		for _, table := range specs.Anonymize.TableNames() {
			if n, ok := result.Anonymized[table]; ok {
				fmt.Printf("  %-30s %d rows\n", table, n)
			}
		}
		if len(result.Skipped) > 0 {
			color.Yellow("⚠️  %d table(s) skipped", len(result.Skipped))
		}
		if len(result.Failed) > 0 {
			return fmt.Errorf("%d table(s) failed to anonymize", len(result.Failed))
		}
		return nil
	},
}

func init() {
	anonymizeCmd.Flags().Int64Var(&anonymizeRandSeed, "seed", 0, "Random seed for reproducible data (0 = random)")
}
