package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DB wraps sqlx.DB to provide transaction management. The same wrapper
// serves postgres and the local sqlite file, queries are written with ?
// placeholders and rebound for the active driver.
type DB struct {
	*sqlx.DB
	driver types.StoreDriver
	logger *logger.Logger
}

// Querier interface defines all database operations
// Both *sqlx.DB and *sqlx.Tx implement these methods
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

// NewDB opens the database selected by store.driver. It returns nil when the
// store is not sql backed.
func NewDB(cfg *config.Configuration, logger *logger.Logger) (*DB, error) {
	if cfg.Store.Driver == types.StoreDriverDynamoDB {
		return nil, nil
	}

	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Store.Driver {
	case types.StoreDriverPostgres:
		db, err = sqlx.Connect("postgres", cfg.Postgres.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetimeMinutes) * time.Minute)
	case types.StoreDriverSQLite:
		db, err = sqlx.Connect("sqlite", sqliteDSN(cfg.SQLite.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("store driver %q is not a sql driver", cfg.Store.Driver)
	}

	logger.Infow("connected to database", "driver", cfg.Store.Driver)
	return &DB{DB: db, driver: cfg.Store.Driver, logger: logger}, nil
}

// NewFromSQL wraps an existing connection, used with sqlmock in tests
func NewFromSQL(db *sql.DB, driver types.StoreDriver, logger *logger.Logger) *DB {
	driverName := "postgres"
	if driver == types.StoreDriverSQLite {
		driverName = "sqlite"
	}
	return &DB{DB: sqlx.NewDb(db, driverName), driver: driver, logger: logger}
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

// Driver returns the active store driver
func (db *DB) Driver() types.StoreDriver {
	return db.driver
}

// Close closes the database connection
func (db *DB) Close() {
	if err := db.DB.Close(); err != nil {
		db.logger.Errorw("error closing database", "error", err)
	}
}

// GetQuerier returns either the transaction from context or the base DB
func (db *DB) GetQuerier(ctx context.Context) Querier {
	if tx, ok := GetTx(ctx); ok {
		return NewTracedQuerier(tx.Tx, db.logger, tx.ID)
	}
	return NewTracedQuerier(db.DB, db.logger, "")
}
