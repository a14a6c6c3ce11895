package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// Context keys
const (
	UserIDKey contextKey = "userID"
)

// Common errors
var (
	ErrMissingToken  = errors.New("no authorization token provided")
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("JWT secret not configured")
)

// Config holds JWT configuration
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// TokenIssuer signs HS256 tokens whose subject is a user GUID
type TokenIssuer struct {
	config Config
	now    func() time.Time
}

// NewTokenIssuer creates a new token issuer
func NewTokenIssuer(config Config) *TokenIssuer {
	return &TokenIssuer{
		config: config,
		now:    time.Now,
	}
}

// Issue returns a signed token for userID
func (i *TokenIssuer) Issue(userID string) (string, error) {
	if i.config.Secret == "" {
		return "", ErrMissingSecret
	}

	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    i.config.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.config.TTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(i.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses tokenString and returns the user ID it was issued for
func (i *TokenIssuer) Validate(tokenString string) (string, error) {
	if i.config.Secret == "" {
		return "", ErrMissingSecret
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(i.config.Secret), nil
	},
		jwt.WithIssuer(i.config.Issuer),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: token missing 'sub' claim", ErrInvalidToken)
	}

	return claims.Subject, nil
}

// JWTMiddleware handles JWT authentication
type JWTMiddleware struct {
	issuer *TokenIssuer
	logger *zap.SugaredLogger
}

// NewJWTMiddleware creates a new JWT middleware
func NewJWTMiddleware(issuer *TokenIssuer, logger *zap.SugaredLogger) *JWTMiddleware {
	return &JWTMiddleware{
		issuer: issuer,
		logger: logger,
	}
}

// Middleware returns a chi middleware function for JWT authentication
func (m *JWTMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractTokenFromHeader(r)
		if tokenString == "" {
			m.unauthorized(w, r, ErrMissingToken)
			return
		}

		userID, err := m.issuer.Validate(tokenString)
		if err != nil {
			m.unauthorized(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractTokenFromHeader extracts the JWT token from the Authorization header
func extractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Check if it's a Bearer token
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// unauthorized responds with a 401 Unauthorized status
func (m *JWTMiddleware) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	m.logger.Debugw("Unauthorized request", "error", err, "path", r.URL.Path)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "Unauthorized",
	})
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
