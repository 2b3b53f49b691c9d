package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/Rana718/dbtools/internal/types"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "db_tools.yml"

type Config struct {
	File       string   `json:"-" mapstructure:"-"`
	Connection string   `json:"connection" mapstructure:"connection"`
	Database   Database `json:"database" mapstructure:"database"`
	Seeding    Seeding  `json:"seeding" mapstructure:"seeding"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	Driver   string `json:"driver" mapstructure:"driver"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Seeding struct {
	Batch    int  `json:"batch" mapstructure:"batch"`
	Truncate bool `json:"truncate" mapstructure:"truncate"`
}

// Specs are the table sections of the config file. They are decoded apart
// from viper, which lowercases keys and forgets their order.
type Specs struct {
	Seed      types.SeedSpec      `yaml:"seed"`
	Anonymize types.AnonymizeSpec `yaml:"anonymize"`
}

var supportedDrivers = map[string][]string{
	"postgresql": {"", "pgx", "pq", "postgres"},
	"mysql":      {"", "mysql"},
	"sqlite":     {"", "mattn", "modernc", "sqlite3", "sqlite"},
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.url_env", "DATABASE_URL")
	v.SetDefault("seeding.batch", 0)
	v.SetDefault("seeding.truncate", false)
}

// Load reads the settings from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.File = v.ConfigFileUsed()
	if cfg.File == "" {
		cfg.File = DefaultFile
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	return &cfg, nil
}

// GetDatabaseURL prefers the connection string from the file, with
// environment references expanded, and falls back to the url_env variable.
func (c *Config) GetDatabaseURL() (string, error) {
	if c.Connection != "" {
		if dbURL := os.ExpandEnv(c.Connection); dbURL != "" {
			return dbURL, nil
		}
	}
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found: set connection in %s or environment variable %s", c.File, c.Database.URLEnv)
	}
	return dbURL, nil
}

// Provider returns the configured provider, or the one implied by the URL
// scheme, normalised to postgresql, mysql or sqlite.
func (c *Config) Provider() string {
	provider := c.Database.Provider
	if provider == "" {
		dbURL, _ := c.GetDatabaseURL()
		provider = providerFromURL(dbURL)
	}

	switch strings.ToLower(provider) {
	case "postgres", "postgresql":
		return "postgresql"
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return provider
	}
}

func providerFromURL(dbURL string) string {
	scheme, _, found := strings.Cut(dbURL, "://")
	if !found {
		if strings.HasSuffix(dbURL, ".db") || strings.HasSuffix(dbURL, ".sqlite") || dbURL == ":memory:" {
			return "sqlite"
		}
		return "postgresql"
	}
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return "postgresql"
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3", "file":
		return "sqlite"
	default:
		return scheme
	}
}

func (c *Config) Validate() error {
	provider := c.Provider()
	drivers, ok := supportedDrivers[provider]
	if !ok {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: [postgresql postgres mysql sqlite sqlite3]", provider)
	}
	if !slices.Contains(drivers, c.Database.Driver) {
		return fmt.Errorf("unsupported driver %q for provider %s", c.Database.Driver, provider)
	}
	if c.Seeding.Batch < 0 {
		return fmt.Errorf("seeding.batch cannot be negative")
	}
	return nil
}

// LoadSpecs decodes the seed and anonymize sections of the file at path.
func LoadSpecs(path string) (*Specs, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var specs Specs
	if err := yaml.Unmarshal(content, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &specs, nil
}

// WriteTemplate writes content to path. An existing file is never
// overwritten.
func WriteTemplate(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
