package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/antonrybalko/registration-service-go/internal/domain"
	"github.com/antonrybalko/registration-service-go/internal/metrics"
	"github.com/antonrybalko/registration-service-go/internal/repository"
	"github.com/antonrybalko/registration-service-go/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Common service errors
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNotFound           = errors.New("user not found")
	ErrRegistrationFailed = errors.New("registration failed")
)

// Archiver stores registration audit events
type Archiver interface {
	Archive(ctx context.Context, event domain.RegistrationEvent) (string, error)
}

// TokenIssuer issues access tokens for registered users
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Registration is the result of a successful registration
type Registration struct {
	User  *domain.User
	Token string
}

// FieldReport holds the per-field result of validating credentials
type FieldReport struct {
	Username bool `json:"username"`
	Email    bool `json:"email"`
	Password bool `json:"password"`
	Valid    bool `json:"valid"`
}

// RegistrationService validates credentials and stores registered users
type RegistrationService struct {
	repo       repository.UserRepository
	archive    Archiver
	tokens     TokenIssuer
	metrics    *metrics.Metrics
	logger     *zap.SugaredLogger
	bcryptCost int
	now        func() time.Time
}

// NewRegistrationService creates a new registration service.
// archive, tokens and m may be nil.
func NewRegistrationService(
	repo repository.UserRepository,
	archive Archiver,
	tokens TokenIssuer,
	m *metrics.Metrics,
	logger *zap.SugaredLogger,
) *RegistrationService {
	return &RegistrationService{
		repo:       repo,
		archive:    archive,
		tokens:     tokens,
		metrics:    m,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// SetBcryptCost sets the cost used to hash passwords
func (s *RegistrationService) SetBcryptCost(cost int) {
	s.bcryptCost = cost
}

// Register validates creds and stores the new user.
// Validation failures are returned as *validation.ValidationError.
func (s *RegistrationService) Register(ctx context.Context, creds domain.Credentials) (*Registration, error) {
	record, err := validation.RegisterCredentials(creds)
	if err != nil {
		field := validation.FieldOf(err)
		s.logger.Infow("Registration rejected",
			"field", field,
			"username", creds.Username)
		s.metrics.ObserveRegistration(metrics.OutcomeInvalid, field)
		return nil, err
	}

	// Reject a taken username before hashing; CreateUser still catches a concurrent insert
	_, err = s.repo.GetUserByUsername(ctx, record.Username)
	switch {
	case err == nil:
		s.metrics.ObserveRegistration(metrics.OutcomeDuplicate, "")
		return nil, ErrUsernameTaken
	case !errors.Is(err, repository.ErrNotFound):
		s.logger.Errorw("Failed to look up username",
			"error", err,
			"username", record.Username)
		s.metrics.ObserveRegistration(metrics.OutcomeError, "")
		return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	hash, err := hashPassword(record.Password, s.bcryptCost)
	if err != nil {
		s.logger.Errorw("Failed to hash password",
			"error", err,
			"username", record.Username)
		s.metrics.ObserveRegistration(metrics.OutcomeError, "")
		return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	user := &domain.User{
		GUID:         uuid.New(),
		Username:     record.Username,
		Email:        record.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	// Issue the token before storing so a failure leaves no user behind
	result := &Registration{User: user}
	if s.tokens != nil {
		token, err := s.tokens.Issue(user.GUID.String())
		if err != nil {
			s.logger.Errorw("Failed to issue token",
				"error", err,
				"userGUID", user.GUID)
			s.metrics.ObserveRegistration(metrics.OutcomeError, "")
			return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
		}
		result.Token = token
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.metrics.ObserveRegistration(metrics.OutcomeDuplicate, "")
			return nil, ErrUsernameTaken
		}
		s.logger.Errorw("Failed to save user",
			"error", err,
			"username", user.Username)
		s.metrics.ObserveRegistration(metrics.OutcomeError, "")
		return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	// The user is stored at this point; an archive failure is not fatal
	if s.archive != nil {
		key, err := s.archive.Archive(ctx, user.ToRegistrationEvent())
		if err != nil {
			s.logger.Warnw("Failed to archive registration event",
				"error", err,
				"userGUID", user.GUID)
		} else {
			s.logger.Debugw("Registration event archived", "key", key)
		}
	}

	s.logger.Infow("User registered",
		"userGUID", user.GUID,
		"username", user.Username)
	s.metrics.ObserveRegistration(metrics.OutcomeSuccess, "")

	return result, nil
}

// GetUser returns the registered user with the given GUID
func (s *RegistrationService) GetUser(ctx context.Context, userGUID uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, userGUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Validate checks every field of creds independently
func (s *RegistrationService) Validate(creds domain.Credentials) FieldReport {
	report := FieldReport{
		Username: validation.IsValidUsername(creds.Username),
		Email:    validation.IsValidEmail(creds.Email),
		Password: validation.IsValidPassword(creds.Password),
	}
	report.Valid = report.Username && report.Email && report.Password

	s.metrics.ObserveFieldCheck(validation.FieldUsername, report.Username)
	s.metrics.ObserveFieldCheck(validation.FieldEmail, report.Email)
	s.metrics.ObserveFieldCheck(validation.FieldPassword, report.Password)

	return report
}

// hashPassword bcrypts the hex SHA-256 digest of password.
// bcrypt only accepts 72 bytes and passwords have no maximum length.
func hashPassword(password string, cost int) (string, error) {
	digest := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(digest[:])), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
