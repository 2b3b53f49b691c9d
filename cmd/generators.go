package cmd

import (
	"fmt"

	"github.com/Rana718/dbtools/internal/faker"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var generatorsCmd = &cobra.Command{
	Use:   "generators",
	Short: "List the generator names usable in column mappings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		g := faker.NewDataGenerator(faker.WithSeed(1))
		color.Cyan("🧪 Available generators:")
		for _, name := range g.Names() {
			value, _ := g.Invoke(name)
			fmt.Fprintf(cmd.OutOrStdout(), "  %-16s e.g. %v\n", name, value)
		}
	},
}
