package database

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect exists for hosts where MySQL is what's already running.
type MySQLDialect struct{}

func (MySQLDialect) DriverName() string {
	return "mysql"
}

func (MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders natively.
	return query
}

func (MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	// MySQL servers commonly close idle connections after 8 hours; stay
	// well under that.
	db.SetConnMaxLifetime(3 * time.Minute)
	return nil
}

func (MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id INT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
}
