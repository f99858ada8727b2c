package app

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/shiftsched/internal/shared/infrastructure/database"

	_ "modernc.org/sqlite"
)

// mockSQLiteConnection implements database.Connection for testing, exposing
// only the DB() method the factory's type assertion needs.
type mockSQLiteConnection struct {
	db *sql.DB
}

func (m *mockSQLiteConnection) Driver() database.Driver {
	return database.DriverSQLite
}

func (m *mockSQLiteConnection) DB() *sql.DB {
	return m.db
}

func (m *mockSQLiteConnection) Close() error {
	return m.db.Close()
}

func (m *mockSQLiteConnection) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *mockSQLiteConnection) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (m *mockSQLiteConnection) Exec(ctx context.Context, query string, args ...any) (database.Result, error) {
	return nil, nil
}

func (m *mockSQLiteConnection) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return nil
}

func (m *mockSQLiteConnection) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return nil, nil
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	return sqlDB
}

func TestRepositoryFactory_SnapshotStore_SQLite(t *testing.T) {
	sqlDB := setupTestDB(t)
	defer sqlDB.Close()

	conn := &mockSQLiteConnection{db: sqlDB}
	factory := NewRepositoryFactory(conn, "")

	store, err := factory.SnapshotStore()
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Implements(t, (*persistence.SnapshotStore)(nil), store)
}

func TestRepositoryFactory_Driver(t *testing.T) {
	sqlDB := setupTestDB(t)
	defer sqlDB.Close()

	conn := &mockSQLiteConnection{db: sqlDB}
	factory := NewRepositoryFactory(conn, "")

	assert.Equal(t, database.DriverSQLite, factory.Driver())
}

func TestRepositoryFactory_Connection(t *testing.T) {
	sqlDB := setupTestDB(t)
	defer sqlDB.Close()

	conn := &mockSQLiteConnection{db: sqlDB}
	factory := NewRepositoryFactory(conn, "")

	assert.Equal(t, conn, factory.Connection())
}
