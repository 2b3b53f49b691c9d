package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rana718/dbtools/internal/config"
	"github.com/Rana718/dbtools/template"
	"github.com/spf13/cobra"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter db_tools.yml",
	Long:  `Write a db_tools.yml with example seed and anonymize sections, a matching example schema and a DATABASE_URL entry in .env.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.PostgreSQL
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		return initializeProject(dbType)
	},
}

func init() {
	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize for SQLite database")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize for PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize for MySQL database")
}

func initializeProject(dbType template.DatabaseType) error {
	tmpl := template.NewProjectTemplate(dbType)

	configPath := config.DefaultFile
	if cfgFile != "" {
		configPath = cfgFile
	}
	if err := config.WriteTemplate(configPath, tmpl.GetConfig()); err != nil {
		return err
	}

	for _, dir := range tmpl.GetDirectoryStructure() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	schemaPath := filepath.Join("db", "schema.sql")
	schemaCreated := false
	if _, err := os.Stat(schemaPath); os.IsNotExist(err) {
		if err := os.WriteFile(schemaPath, []byte(tmpl.GetSchema()), 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", schemaPath, err)
		}
		schemaCreated = true
	}

	if err := handleEnvFile(tmpl.GetEnvTemplate()); err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}

	fmt.Printf("✅ Successfully initialized dbtools with %s database support\n", dbType)
	fmt.Println()
	fmt.Println("📝 Files created:")
	fmt.Printf("   %s\n", configPath)
	if schemaCreated {
		fmt.Printf("   %s\n", schemaPath)
	} else {
		fmt.Printf("ℹ️  Skipped %s (already exists)\n", schemaPath)
	}

	if os.Getenv("DATABASE_URL") != "" {
		fmt.Println()
		fmt.Println("ℹ️  Using existing DATABASE_URL from environment")
	}

	fmt.Println()
	fmt.Printf("🚀 Next steps:\n")
	fmt.Printf("   dbtools plan        # Check the insertion order\n")
	fmt.Printf("   dbtools seed        # Fill the tables\n")
	fmt.Printf("   dbtools anonymize   # Scrub sensitive columns\n")

	return nil
}

func handleEnvFile(defaultEnvContent string) error {
	envPath := ".env"

	existingContent, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(envPath, []byte(defaultEnvContent), 0644)
		}
		return err
	}

	existingStr := string(existingContent)
	if strings.Contains(existingStr, "DATABASE_URL") {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}
	existingStr += "\n# Added by dbtools\n" + defaultEnvContent

	return os.WriteFile(envPath, []byte(existingStr), 0644)
}
