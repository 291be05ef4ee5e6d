package migration

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/BaSui01/imagegate/internal/configstore"
	"github.com/BaSui01/imagegate/internal/database"
)

func newSQLiteMigrator(t *testing.T) (*DefaultMigrator, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	m, err := NewMigratorWithDB(Config{DatabaseType: DatabaseTypeSQLite}, db, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, db
}

func TestParseDatabaseType(t *testing.T) {
	tests := []struct {
		input    string
		expected DatabaseType
		wantErr  bool
	}{
		{"postgres", DatabaseTypePostgres, false},
		{"postgresql", DatabaseTypePostgres, false},
		{"pg", DatabaseTypePostgres, false},
		{"mysql", DatabaseTypeMySQL, false},
		{"mariadb", DatabaseTypeMySQL, false},
		{"sqlite", DatabaseTypeSQLite, false},
		{" SQLITE3 ", DatabaseTypeSQLite, false},
		{"POSTGRES", DatabaseTypePostgres, false},
		{"oracle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDatabaseType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAvailableMigrations_EveryDialectMatches(t *testing.T) {
	var names [][]string
	for _, dt := range []DatabaseType{DatabaseTypePostgres, DatabaseTypeMySQL, DatabaseTypeSQLite} {
		files, err := availableMigrations(dt)
		require.NoError(t, err)
		require.Len(t, files, 2, dt)

		var n []string
		for _, f := range files {
			n = append(n, f.name)
		}
		names = append(names, n)
	}
	assert.Equal(t, []string{"create_app_config", "seed_generation_enabled"}, names[0])
	assert.Equal(t, names[0], names[1])
	assert.Equal(t, names[0], names[2])
}

func TestNewMigrator_Validation(t *testing.T) {
	_, err := NewMigrator(Config{DatabaseType: DatabaseTypeSQLite}, nil)
	assert.EqualError(t, err, "database DSN is required")

	_, err = NewMigrator(Config{DatabaseType: "oracle", DSN: "x"}, nil)
	assert.Error(t, err)

	_, err = NewMigratorWithDB(Config{DatabaseType: DatabaseTypeSQLite}, nil, nil)
	assert.Error(t, err)
}

func TestMigrator_UpCreatesAppConfig(t *testing.T) {
	ctx := context.Background()
	m, db := newSQLiteMigrator(t)

	version, dirty, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, m.Up(ctx))
	require.NoError(t, m.Up(ctx), "second Up is a no-op")

	version, _, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)

	var value string
	require.NoError(t, db.QueryRow(
		"SELECT config_value FROM app_config WHERE config_key = ?", "GENERATION_ENABLED").Scan(&value))
	assert.Equal(t, "true", value)

	_, err = db.Exec("INSERT INTO app_config (config_key, config_value) VALUES (?, ?)", "GENERATION_ENABLED", "false")
	assert.Error(t, err, "config_key is unique")
}

func TestMigrator_DownAndGoto(t *testing.T) {
	ctx := context.Background()
	m, db := newSQLiteMigrator(t)

	require.NoError(t, m.Goto(ctx, 1))
	info, err := m.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), info.CurrentVersion)
	assert.Equal(t, 1, info.PendingMigrations)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM app_config").Scan(&count))
	assert.Zero(t, count)

	require.NoError(t, m.Up(ctx))
	require.NoError(t, m.Down(ctx))

	version, _, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM app_config").Scan(&count))
	assert.Zero(t, count)
}

func TestMigrator_StatusAndForce(t *testing.T) {
	ctx := context.Background()
	m, _ := newSQLiteMigrator(t)
	require.NoError(t, m.Goto(ctx, 1))

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Applied)
	assert.False(t, statuses[1].Applied)

	require.NoError(t, m.Force(ctx, 2))
	version, dirty, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
}

func TestCLI_Output(t *testing.T) {
	ctx := context.Background()
	m, _ := newSQLiteMigrator(t)

	var buf bytes.Buffer
	cli := NewCLI(m)
	cli.SetOutput(&buf)

	require.NoError(t, cli.RunVersion(ctx))
	assert.Contains(t, buf.String(), "No migrations applied yet.")

	buf.Reset()
	require.NoError(t, cli.RunUp(ctx))
	assert.Contains(t, buf.String(), "Schema is at version 2 (0 pending)")

	buf.Reset()
	require.NoError(t, cli.RunStatus(ctx))
	assert.Contains(t, buf.String(), "create_app_config")
	assert.Contains(t, buf.String(), "Total: 2, Applied: 2, Pending: 0")

	buf.Reset()
	require.NoError(t, cli.RunDown(ctx))
	assert.Contains(t, buf.String(), "Schema is at version 1 (1 pending)")

	buf.Reset()
	require.NoError(t, cli.RunVersion(ctx))
	assert.Equal(t, "Current version: 1\n", buf.String())
}

func TestNewMigratorFromDatabaseConfig_FeedsDBStore(t *testing.T) {
	ctx := context.Background()
	cfg := database.DefaultConfig()
	cfg.Driver = database.DriverSQLite
	cfg.Path = filepath.Join(t.TempDir(), "imagegate.db")
	cfg.Pool.HealthCheckInterval = 0

	m, err := NewMigratorFromDatabaseConfig(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up(ctx))
	require.NoError(t, m.Close())

	pm, err := database.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	defer pm.Close()

	store, err := configstore.NewDBStore(pm.DB(), zap.NewNop())
	require.NoError(t, err)

	value, found, err := store.Get(ctx, "GENERATION_ENABLED")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", value)

	require.NoError(t, store.Set(ctx, "OPENAI_API_KEY", "sk-test"))
	value, found, err = store.Get(ctx, "OPENAI_API_KEY")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "sk-test", value)
}

func TestNewMigratorFromDatabaseConfig_Invalid(t *testing.T) {
	_, err := NewMigratorFromDatabaseConfig(database.Config{Driver: "oracle"}, nil)
	assert.Error(t, err)
}

func TestRedact(t *testing.T) {
	err := redact(errors.New(`pq: password authentication failed for "hunter2"`), "hunter2")
	assert.NotContains(t, err.Error(), "hunter2")

	orig := errors.New("boom")
	assert.Same(t, orig, redact(orig, ""))
}
