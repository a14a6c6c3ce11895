package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/antonrybalko/registration-service-go/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *sql.DB, logger *zap.SugaredLogger) *PostgresUserRepository {
	return &PostgresUserRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser inserts a new user row
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if err := validateUser(user); err != nil {
		return err
	}

	r.logger.Debugw("Saving user",
		"userGUID", user.GUID,
		"username", user.Username,
	)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (guid, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		user.GUID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
		}
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetUserByID retrieves a user by GUID
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, userGUID uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT guid, username, email, password_hash, created_at
		FROM users
		WHERE guid = $1`,
		userGUID)
	return scanUser(row)
}

// GetUserByUsername retrieves a user by username
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT guid, username, email, password_hash, created_at
		FROM users
		WHERE username = $1`,
		username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.GUID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &user, nil
}
