package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/antonrybalko/registration-service-go/internal/auth"
	"github.com/antonrybalko/registration-service-go/internal/domain"
	"github.com/antonrybalko/registration-service-go/internal/prime"
	"github.com/antonrybalko/registration-service-go/internal/service"
	"github.com/antonrybalko/registration-service-go/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Common errors
var (
	ErrInvalidBody    = errors.New("invalid request body")
	ErrInvalidNumber  = errors.New("invalid number")
	ErrNumberTooLarge = errors.New("number too large")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternal       = errors.New("internal server error")
)

// MaxBodySize is the maximum accepted request body size (1MB)
const MaxBodySize = 1 << 20

// Handler defines the interface for the API handler
type Handler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	GetCurrentUser(w http.ResponseWriter, r *http.Request)
	CheckPrime(w http.ResponseWriter, r *http.Request)
}

// RegistrationService is the part of service.RegistrationService used by the handlers
type RegistrationService interface {
	Register(ctx context.Context, creds domain.Credentials) (*service.Registration, error)
	GetUser(ctx context.Context, userGUID uuid.UUID) (*domain.User, error)
	Validate(creds domain.Credentials) service.FieldReport
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	domain.UserResponse
	Token string `json:"token,omitempty"`
}

// PrimeResponse is returned by the primality endpoint
type PrimeResponse struct {
	N     int64 `json:"n"`
	Prime bool  `json:"prime"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// handlerImpl implements the Handler interface
type handlerImpl struct {
	service RegistrationService
	logger  *zap.SugaredLogger
}

// NewHandler creates a new API handler
func NewHandler(svc RegistrationService, logger *zap.SugaredLogger) Handler {
	return &handlerImpl{
		service: svc,
		logger:  logger,
	}
}

// Register handles POST /v1/register
func (h *handlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	creds, err := h.decodeCredentials(w, r)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.Register(r.Context(), creds)
	if err != nil {
		var vErr *validation.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: vErr.Error(),
				Field: vErr.Field,
			})
		case errors.Is(err, service.ErrUsernameTaken):
			h.respondWithJSON(w, http.StatusConflict, ErrorResponse{
				Error: err.Error(),
				Field: validation.FieldUsername,
			})
		default:
			h.logger.Errorw("Registration failed", "error", err)
			h.respondWithError(w, http.StatusInternalServerError, ErrInternal)
		}
		return
	}

	h.respondWithJSON(w, http.StatusCreated, RegisterResponse{
		UserResponse: result.User.ToUserResponse(),
		Token:        result.Token,
	})
}

// Validate handles POST /v1/validate
func (h *handlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	creds, err := h.decodeCredentials(w, r)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, h.service.Validate(creds))
}

// GetCurrentUser handles GET /v1/me
func (h *handlerImpl) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	userGUID, err := uuid.Parse(userID)
	if err != nil {
		h.respondWithError(w, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	user, err := h.service.GetUser(r.Context(), userGUID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.respondWithError(w, http.StatusNotFound, err)
			return
		}
		h.logger.Errorw("Failed to get user", "error", err, "userGUID", userGUID)
		h.respondWithError(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	h.respondWithJSON(w, http.StatusOK, user.ToUserResponse())
}

// CheckPrime handles GET /v1/primes/{n}
func (h *handlerImpl) CheckPrime(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.ParseInt(chi.URLParam(r, "n"), 10, 64)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, ErrInvalidNumber)
		return
	}
	if n > prime.MaxServed {
		h.respondWithError(w, http.StatusBadRequest,
			fmt.Errorf("%w: must not exceed %d", ErrNumberTooLarge, prime.MaxServed))
		return
	}

	h.respondWithJSON(w, http.StatusOK, PrimeResponse{N: n, Prime: prime.IsPrime(n)})
}

// decodeCredentials reads the JSON credentials from the request body
func (h *handlerImpl) decodeCredentials(w http.ResponseWriter, r *http.Request) (domain.Credentials, error) {
	var creds domain.Credentials

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.logger.Debugw("Failed to decode request body", "error", err)
		return creds, ErrInvalidBody
	}
	return creds, nil
}

// respondWithError sends an error response
func (h *handlerImpl) respondWithError(w http.ResponseWriter, code int, err error) {
	h.respondWithJSON(w, code, ErrorResponse{Error: err.Error()})
}

// respondWithJSON sends a JSON response
func (h *handlerImpl) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Errorw("Failed to encode JSON response", "error", err)
	}
}

