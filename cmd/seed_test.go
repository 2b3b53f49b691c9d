package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Rana718/dbtools/internal/config"
	"github.com/Rana718/dbtools/internal/database/sqlite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedConfigFor(t *testing.T) {
	fileCfg := &config.Config{Seeding: config.Seeding{Batch: 10, Truncate: true}}

	tests := []struct {
		name     string
		args     []string
		batch    int
		truncate bool
		wantErr  bool
	}{
		{name: "file values", args: nil, batch: 10, truncate: true},
		{name: "batch flag", args: []string{"--batch", "25"}, batch: 25, truncate: true},
		{name: "truncate flag off", args: []string{"--truncate=false"}, batch: 10, truncate: false},
		{name: "batch flag zero", args: []string{"--batch", "0"}, batch: 0, truncate: true},
		{name: "negative batch", args: []string{"--batch", "-1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cobra.Command{Use: "seed"}
			addSeedFlags(c)
			require.NoError(t, c.ParseFlags(tt.args))

			got, err := seedConfigFor(c, fileCfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.batch, got.Batch)
			assert.Equal(t, tt.truncate, got.Truncate)
		})
	}
}

const seedCommandConfig = `connection: sqlite://%s
database:
  driver: modernc
seeding:
  truncate: true
seed:
  users:
    count: 3
    columns:
      name: name
  orders:
    count: 5
    columns:
      amount: random_number
    relations:
      user_id: {table: users}
`

func TestSeedCommandAgainstSQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "app.db")
	cfgPath := filepath.Join(dir, config.DefaultFile)

	db, err := sql.Open(sqlite.DriverPure, dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT);
		CREATE TABLE orders (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id INTEGER REFERENCES users(id), amount INTEGER);
		INSERT INTO users (name) VALUES ('existing');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	content := []byte(fmt.Sprintf(seedCommandConfig, filepath.ToSlash(dbPath)))
	require.NoError(t, os.WriteFile(cfgPath, content, 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"seed", "--config", cfgPath, "--batch", "2", "--seed", "7"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		cfgFile = ""
		viper.Reset()
	})

	require.NoError(t, Execute(context.Background()))
	assert.Contains(t, out.String(), "Transaction committed")

	db, err = sql.Open(sqlite.DriverPure, dbPath)
	require.NoError(t, err)
	defer db.Close()

	var users, existing, orders, orphans int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE name = 'existing'").Scan(&existing))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&orders))
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM orders WHERE user_id IS NULL OR user_id NOT IN (SELECT id FROM users)",
	).Scan(&orphans))

	assert.Equal(t, 3, users)
	assert.Zero(t, existing, "truncate from the config file should clear old rows")
	assert.Equal(t, 5, orders)
	assert.Zero(t, orphans)
}
