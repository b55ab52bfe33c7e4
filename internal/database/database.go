package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spiceroute/spiceroute-be/internal/auth"
	"github.com/spiceroute/spiceroute-be/internal/models"
	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT NOT NULL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		password_salt TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('admin', 'editor')),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS posts (
		id TEXT NOT NULL PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		excerpt TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		read_time TEXT NOT NULL DEFAULT '',
		published INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		actor TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}

// SeedAdmin creates the admin account from the configured credentials if no
// account with that email exists yet. This is the only path that creates an
// admin role; the HTTP API never does.
func SeedAdmin(db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	email = models.NormalizeEmail(email)

	var count int
	if err := db.QueryRow("SELECT COUNT(1) FROM accounts WHERE email = ?", email).Scan(&count); err != nil {
		return fmt.Errorf("checking for existing admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, salt, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	_, err = db.Exec(
		"INSERT INTO accounts (id, email, password_hash, password_salt, role) VALUES (?, ?, ?, ?, ?)",
		uuid.New().String(), email, hash, salt, models.RoleAdmin,
	)
	if err != nil {
		return fmt.Errorf("inserting admin account: %w", err)
	}

	log.Info().Str("email", email).Msg("Seeded admin account")
	return nil
}
