package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Rana718/dbtools/internal/config"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.3.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════╗",
		"║     ██████╗ ██████╗ ████████╗ ██████╗  ██████╗   ║",
		"║     ██╔══██╗██╔══██╗╚══██╔══╝██╔═══██╗██╔═══██╗  ║",
		"║     ██║  ██║██████╔╝   ██║   ██║   ██║██║   ██║  ║",
		"║     ██║  ██║██╔══██╗   ██║   ██║   ██║██║   ██║  ║",
		"║     ██████╔╝██████╔╝   ██║   ╚██████╔╝╚██████╔╝  ║",
		"║     ╚═════╝ ╚═════╝    ╚═╝    ╚═════╝  ╚═════╝   ║",
		"║                                                  ║",
		"║       🌱 Seed • 🎭 Anonymize • 🔍 Inspect         ║",
		"╚══════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                 ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "dbtools",
	Short: "Seed and anonymize relational databases from a YAML file",
	Long: `
dbtools fills database tables with realistic fake data and scrubs
sensitive columns of existing rows, driven by a db_tools.yml file.

Tables are seeded in foreign-key order inside a single transaction, so a
failed run leaves the database untouched.

Database Support:
- PostgreSQL (pgx or lib/pq)
- MySQL
- SQLite (mattn/go-sqlite3 or pure-Go modernc.org/sqlite)`,
	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("dbtools version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db_tools.yml)")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")

	RegisterBaseCommands()
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(config.DefaultFile, ".yml"))
	}

	viper.SetEnvPrefix("DBTOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}
