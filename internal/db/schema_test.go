package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(`
		CREATE TABLE station (id INTEGER PRIMARY KEY, station TEXT, name TEXT, latitude REAL);
		CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT, date TEXT, prcp REAL, tobs INTEGER);
	`)
	require.NoError(t, err)
	return conn
}

func TestVerifySchema(t *testing.T) {
	conn := openMemory(t)
	ctx := context.Background()

	ok := []Table{
		{Name: "measurement", Columns: []string{"date", "station", "prcp", "tobs"}},
		{Name: "station", Columns: []string{"station", "name"}},
	}
	assert.NoError(t, VerifySchema(ctx, conn, ok))

	t.Run("missing column", func(t *testing.T) {
		err := VerifySchema(ctx, conn, []Table{{Name: "station", Columns: []string{"station", "elevation_ft"}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "station")
	})

	t.Run("missing table", func(t *testing.T) {
		err := VerifySchema(ctx, conn, []Table{{Name: "observation", Columns: []string{"date"}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "observation")
	})

	t.Run("no columns declared", func(t *testing.T) {
		err := VerifySchema(ctx, conn, []Table{{Name: "station"}})
		require.Error(t, err)
	})
}
