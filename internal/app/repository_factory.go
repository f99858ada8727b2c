package app

import (
	"database/sql"
	"fmt"

	schedulingPersistence "github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/shiftsched/internal/shared/infrastructure/database"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryFactory builds the snapshot store for the configured database
// driver, so callers (the container, the CLI) never branch on driver type
// themselves.
type RepositoryFactory struct {
	conn         database.Connection
	driver       database.Driver
	reportingDSN string
}

// NewRepositoryFactory creates a new repository factory. reportingDSN is
// the optional lib/pq DSN used by PostgresSnapshotStore's ad hoc reporting
// read path (SPEC_FULL.md §3.4); pass "" to fall back to the pgx pool.
func NewRepositoryFactory(conn database.Connection, reportingDSN string) *RepositoryFactory {
	return &RepositoryFactory{
		conn:         conn,
		driver:       conn.Driver(),
		reportingDSN: reportingDSN,
	}
}

// SnapshotStore creates a persistence.SnapshotStore for the configured
// driver.
func (f *RepositoryFactory) SnapshotStore() (schedulingPersistence.SnapshotStore, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return schedulingPersistence.NewPostgresSnapshotStore(pool, f.reportingDSN), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return schedulingPersistence.NewSQLiteSnapshotStore(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// Helper methods to get underlying database connections.

func (f *RepositoryFactory) getPostgresPool() (*pgxpool.Pool, error) {
	pgConn, ok := f.conn.(interface{ Pool() *pgxpool.Pool })
	if !ok {
		return nil, fmt.Errorf("postgres connection does not expose Pool()")
	}
	return pgConn.Pool(), nil
}

func (f *RepositoryFactory) getSQLiteDB() (*sql.DB, error) {
	sqliteConn, ok := f.conn.(interface{ DB() *sql.DB })
	if !ok {
		return nil, fmt.Errorf("sqlite connection does not expose DB()")
	}
	return sqliteConn.DB(), nil
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}
