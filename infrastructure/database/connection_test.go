package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/records-api/internal/config"
)

func newSQLite(t *testing.T) (*Connection, config.Database) {
	t.Helper()

	cfg := config.Database{
		Driver:      config.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "records.db"),
		AutoMigrate: true,
	}
	cfg.DSN = cfg.BuildDSN()

	conn, err := NewConnection(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, cfg
}

func TestRunMigrations_SQLite(t *testing.T) {
	conn, cfg := newSQLite(t)
	ctx := context.Background()

	require.NoError(t, RunMigrations(conn, cfg))
	// segunda execução não altera nada
	require.NoError(t, RunMigrations(conn, cfg))

	var roles int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM roles").Scan(&roles))
	assert.Equal(t, 3, roles)
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	conn, cfg := newSQLite(t)
	ctx := context.Background()
	require.NoError(t, RunMigrations(conn, cfg))

	boom := errors.New("falha")
	err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO nav_items (title, endpoint) VALUES ('Home', '/')")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM nav_items").Scan(&count))
	assert.Zero(t, count)
}

func TestBuilder_Placeholders(t *testing.T) {
	lite := &Connection{Driver: config.DriverSQLite}
	query, _, err := lite.Builder().Select("id").From("records").Where("id = ?", 1).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM records WHERE id = ?", query)

	pg := &Connection{Driver: config.DriverPostgres}
	query, _, err = pg.Builder().Select("id").From("records").Where("id = ?", 1).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM records WHERE id = $1", query)
}
