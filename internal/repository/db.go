package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// DBConfig holds database connection configuration
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the lib/pq connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// NewDBConnection creates a new database connection pool
func NewDBConnection(ctx context.Context, cfg DBConfig, logger *zap.SugaredLogger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infow("Connected to database",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Name,
		"user", cfg.User,
	)

	return db, nil
}

// CreateTablesIfNotExist creates the users table and its indexes
func CreateTablesIfNotExist(ctx context.Context, db *sql.DB, logger *zap.SugaredLogger) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			guid            UUID PRIMARY KEY,
			username        TEXT UNIQUE NOT NULL,
			email           TEXT NOT NULL,
			password_hash   TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)
	`)
	if err != nil {
		return fmt.Errorf("failed to create index on users.email: %w", err)
	}

	logger.Info("Database tables created or verified")
	return nil
}

// CloseDB gracefully closes the database connection
func CloseDB(db *sql.DB, logger *zap.SugaredLogger) {
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Errorw("Error closing database connection", "error", err)
		} else {
			logger.Info("Database connection closed")
		}
	}
}
