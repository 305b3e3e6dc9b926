package timetabledb

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrt6.timetable.org/internal/appconf"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(NewConfig(":memory:", appconf.Test, false), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClientRejectsFileDatabaseInTest(t *testing.T) {
	client, err := NewClient(NewConfig("/tmp/invalid_test_db.sqlite", appconf.Test, false), discardLogger())
	assert.ErrorIs(t, err, ErrFileDatabaseInTest)
	assert.Nil(t, client)
}

func TestNewClientFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timetables.db")

	client, err := NewClient(NewConfig(path, appconf.Development, true), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 25, client.DB.Stats().MaxOpenConnections)
	require.NoError(t, client.Close())

	// Reopening runs the migrations again against the existing schema.
	client, err = NewClient(NewConfig(path, appconf.Development, false), nil)
	require.NoError(t, err)
	require.NoError(t, client.Close())
}

func TestInMemoryPoolUsesSingleConnection(t *testing.T) {
	client := newTestClient(t)
	assert.Equal(t, 1, client.DB.Stats().MaxOpenConnections)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	configureConnectionPool(db, "/var/lib/timetables.db")
	assert.Equal(t, 25, db.Stats().MaxOpenConnections)
	assert.NoError(t, db.PingContext(context.Background()))
}

func TestTableCounts(t *testing.T) {
	client := newTestClient(t)

	counts, err := client.TableCounts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"variants":   0,
		"stations":   0,
		"directions": 0,
		"departures": 0,
	}, counts)
}
