package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// DB wraps the database connection with dialect support so the analytics
// repository can write the same queries against sqlite, postgres, or mysql.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open creates and configures the analytics database connection.
// dbType selects the dialect; sqlite deployments use path, the server
// dialects use url.
func Open(dbType, path, url string) (*DB, error) {
	var dialect Dialect
	var dsn string

	switch strings.ToLower(dbType) {
	case "postgres", "postgresql":
		dialect = PostgresDialect{}
		dsn = url
	case "mysql":
		dialect = MySQLDialect{}
		dsn = url
	case "sqlite", "sqlite3", "":
		dialect = SQLiteDialect{}
		dsn = path
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := dialect.ConfigureConnection(db); err != nil {
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}

// Exec executes a statement with automatic placeholder rewriting.
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.DB.Exec(db.Dialect.RewriteQuery(query), args...)
}

// Query executes a query with automatic placeholder rewriting.
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.Query(db.Dialect.RewriteQuery(query), args...)
}

// QueryRow executes a single-row query with automatic placeholder rewriting.
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRow(db.Dialect.RewriteQuery(query), args...)
}

// Querier is the subset of operations repositories depend on, satisfied by
// *DB.
type Querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}
