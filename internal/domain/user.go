package domain

import (
	"time"

	"github.com/google/uuid"
)

// Credentials is the raw input of a registration attempt
type Credentials struct {
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
}

// UserRecord is the aggregate produced by a successful validation.
// The values are exactly the ones that were validated.
type UserRecord struct {
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
}

// User represents a registered user stored in the database
type User struct {
	GUID         uuid.UUID `json:"guid" db:"guid"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// UserResponse is the DTO for user API responses
type UserResponse struct {
	UserGUID  uuid.UUID `json:"userGuid"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegistrationEvent is the audit entry written for every stored registration
type RegistrationEvent struct {
	UserGUID     uuid.UUID `json:"userGuid"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// ToUserResponse converts a User entity to a UserResponse DTO
func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		UserGUID:  u.GUID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// ToRegistrationEvent converts a User entity to its audit entry
func (u *User) ToRegistrationEvent() RegistrationEvent {
	return RegistrationEvent{
		UserGUID:     u.GUID,
		Username:     u.Username,
		Email:        u.Email,
		RegisteredAt: u.CreatedAt,
	}
}
