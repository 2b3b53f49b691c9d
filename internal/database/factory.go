package database

import (
	"github.com/Rana718/dbtools/internal/database/mysql"
	"github.com/Rana718/dbtools/internal/database/postgres"
	"github.com/Rana718/dbtools/internal/database/sqlite"
)

// NewAdapter returns the adapter for provider. driver selects an alternative
// database/sql driver for the provider; empty means the default one.
func NewAdapter(provider, driver string) DatabaseAdapter {
	switch provider {
	case "postgresql", "postgres":
		return postgres.New(driver)
	case "mysql":
		return mysql.New()
	case "sqlite", "sqlite3":
		return sqlite.New(driver)
	default:
		return postgres.New(driver)
	}
}
