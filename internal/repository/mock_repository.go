package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/antonrybalko/registration-service-go/internal/domain"
	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of the UserRepository interface
// for testing purposes
type MockUserRepository struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]*domain.User
	byUsername   map[string]uuid.UUID
	forceError   bool
	errorMessage string
	createCalls  int
	getCalls     int
}

// NewMockUserRepository creates a new mock repository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:      make(map[uuid.UUID]*domain.User),
		byUsername: make(map[string]uuid.UUID),
	}
}

// CreateUser stores a user in memory
func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++

	if m.forceError {
		return errors.New(m.errorMessage)
	}
	if err := validateUser(user); err != nil {
		return err
	}
	if _, exists := m.byUsername[user.Username]; exists {
		return ErrAlreadyExists
	}

	stored := *user
	m.users[user.GUID] = &stored
	m.byUsername[user.Username] = user.GUID
	return nil
}

// GetUserByID retrieves a user from memory
func (m *MockUserRepository) GetUserByID(ctx context.Context, userGUID uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++

	if m.forceError {
		return nil, errors.New(m.errorMessage)
	}

	user, exists := m.users[userGUID]
	if !exists {
		return nil, ErrNotFound
	}
	found := *user
	return &found, nil
}

// GetUserByUsername retrieves a user from memory by username
func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++

	if m.forceError {
		return nil, errors.New(m.errorMessage)
	}

	guid, exists := m.byUsername[username]
	if !exists {
		return nil, ErrNotFound
	}
	found := *m.users[guid]
	return &found, nil
}

// SetError configures the mock to return an error on every call
func (m *MockUserRepository) SetError(force bool, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forceError = force
	m.errorMessage = message
}

// GetCallCounts returns the number of create and get calls
func (m *MockUserRepository) GetCallCounts() (creates, gets int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.createCalls, m.getCalls
}

// GetUserCount returns the number of stored users
func (m *MockUserRepository) GetUserCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.users)
}

// Reset clears all stored users, call counts and error settings
func (m *MockUserRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[uuid.UUID]*domain.User)
	m.byUsername = make(map[string]uuid.UUID)
	m.forceError = false
	m.errorMessage = ""
	m.createCalls = 0
	m.getCalls = 0
}
