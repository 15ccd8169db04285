// Package database connects to the MySQL database being queried and
// provides schema introspection plus guarded, read-only query execution.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/dbchat/dbchat/internal/shared"
)

// Database wraps the MySQL connection the chat pipeline runs queries
// against. It is distinct from the local history store.
type Database struct {
	db   *sql.DB
	name string
}

// DSN builds a go-sql-driver data source name from the MySQL section of
// the configuration. parseTime is enabled so DATETIME columns scan as
// time.Time.
func DSN(config shared.MySQLConfig) string {
	cfg := mysql.NewConfig()
	cfg.User = config.User
	cfg.Passwd = config.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", config.Host, config.Port)
	cfg.DBName = config.Database
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// Open connects to MySQL, verifies the connection with a ping, and applies
// the configured pool limits.
func Open(ctx context.Context, config shared.MySQLConfig) (*Database, error) {
	db, err := sql.Open("mysql", DSN(config))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", shared.ErrDatabaseUnavailable, config.Database, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", shared.ErrDatabaseUnavailable, config.Database, err)
	}

	shared.ConfigureDatabase(db, config.MaxOpenConns, config.MaxIdleConns)

	return &Database{db: db, name: config.Database}, nil
}

// FromDB wraps an existing connection. Used in tests to inject a mock.
func FromDB(db *sql.DB, name string) *Database {
	return &Database{db: db, name: name}
}

// Name returns the schema name this connection targets.
func (d *Database) Name() string {
	return d.name
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	return d.db.Close()
}
