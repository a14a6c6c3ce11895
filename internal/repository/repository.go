package repository

import (
	"context"
	"errors"

	"github.com/antonrybalko/registration-service-go/internal/domain"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
	ErrInvalidInput  = errors.New("invalid input parameters")
	ErrDatabase      = errors.New("database error")
)

// UserRepository defines the interface for registered user persistence
type UserRepository interface {
	// CreateUser stores a new user. A taken username yields ErrAlreadyExists.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByID returns the user with the given GUID or ErrNotFound
	GetUserByID(ctx context.Context, userGUID uuid.UUID) (*domain.User, error)

	// GetUserByUsername returns the user with the given username or ErrNotFound
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

func validateUser(user *domain.User) error {
	if user == nil || user.GUID == uuid.Nil || user.Username == "" || user.PasswordHash == "" {
		return ErrInvalidInput
	}
	return nil
}
