package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect captures the database-specific behavior the analytics store needs:
// driver registration, placeholder syntax, connection tuning, and where its
// migration files live.
type Dialect interface {
	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// RewriteQuery converts placeholder syntax if needed (? to $1 for
	// postgres). Queries are written with ? placeholders throughout.
	RewriteQuery(query string) string

	// ConfigureConnection applies connection-pool and engine settings.
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the per-dialect migrations directory.
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL for the migrations
	// tracking table.
	CreateMigrationsTableQuery() string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
