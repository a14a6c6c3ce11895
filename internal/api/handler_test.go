package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/antonrybalko/registration-service-go/internal/auth"
	"github.com/antonrybalko/registration-service-go/internal/domain"
	"github.com/antonrybalko/registration-service-go/internal/metrics"
	"github.com/antonrybalko/registration-service-go/internal/repository"
	"github.com/antonrybalko/registration-service-go/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router chi.Router
	repo   *repository.MockUserRepository
	issuer *auth.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	sugar := zap.NewNop().Sugar()
	repo := repository.NewMockUserRepository()
	issuer := auth.NewTokenIssuer(auth.Config{
		Secret: "test-secret",
		Issuer: "registration-service",
		TTL:    time.Hour,
	})
	m := metrics.New(prometheus.NewRegistry())

	svc := service.NewRegistrationService(repo, nil, issuer, m, sugar)
	svc.SetBcryptCost(bcrypt.MinCost)

	router := chi.NewRouter()
	RegisterRoutes(router, RouteDeps{
		Handler:        NewHandler(svc, sugar),
		AuthMiddleware: auth.NewJWTMiddleware(issuer, sugar).Middleware,
		Metrics:        m.Handler(),
		Logger:         sugar,
		Version:        "test",
		Environment:    "test",
	})

	return &testServer{router: router, repo: repo, issuer: issuer}
}

func (s *testServer) do(method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := newTestServer(t)

		rr := s.do(http.MethodPost, "/v1/register",
			`{"username":"user123","email":"user@example.com","password":"P@ssw0rd"}`, nil)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var resp RegisterResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEqual(t, uuid.Nil, resp.UserGUID)
		assert.Equal(t, "user123", resp.Username)
		assert.Equal(t, "user@example.com", resp.Email)
		assert.NotEmpty(t, resp.Token)

		// Neither the password nor its hash is returned
		assert.NotContains(t, rr.Body.String(), "P@ssw0rd")
		assert.NotContains(t, rr.Body.String(), "password")

		assert.Equal(t, 1, s.repo.GetUserCount())
	})

	t.Run("ValidationErrors", func(t *testing.T) {
		tests := []struct {
			name  string
			body  string
			field string
		}{
			{"username", `{"username":"","email":"user@example.com","password":"P@ssw0rd"}`, "username"},
			{"email", `{"username":"user123","email":"userexample.com","password":"P@ssw0rd"}`, "email"},
			{"password", `{"username":"user123","email":"user@example.com","password":"password"}`, "password"},
			{"first failing field wins", `{"username":"user name","email":"bad","password":"bad"}`, "username"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s := newTestServer(t)

				rr := s.do(http.MethodPost, "/v1/register", tt.body, nil)
				assert.Equal(t, http.StatusBadRequest, rr.Code)

				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.field, resp.Field)
				assert.True(t, strings.HasPrefix(resp.Error, "invalid "+tt.field))
				assert.Equal(t, 0, s.repo.GetUserCount())
			})
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		s := newTestServer(t)
		body := `{"username":"user123","email":"user@example.com","password":"P@ssw0rd"}`

		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/v1/register", body, nil).Code)

		rr := s.do(http.MethodPost, "/v1/register", body, nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		s := newTestServer(t)

		rr := s.do(http.MethodPost, "/v1/register", `{not json`, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, ErrInvalidBody.Error(), resp.Error)
	})

	t.Run("WrongContentType", func(t *testing.T) {
		s := newTestServer(t)

		rr := s.do(http.MethodPost, "/v1/register", `{}`, map[string]string{"Content-Type": "text/plain"})
		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	})

	t.Run("RepositoryFailure", func(t *testing.T) {
		s := newTestServer(t)
		s.repo.SetError(true, "connection refused")

		rr := s.do(http.MethodPost, "/v1/register",
			`{"username":"user123","email":"user@example.com","password":"P@ssw0rd"}`, nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "connection refused")
	})
}

func TestValidateEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPost, "/v1/validate",
		`{"username":"user123","email":"user@.com","password":"P@ss"}`, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var report service.FieldReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, service.FieldReport{Username: true, Email: true, Password: false, Valid: false}, report)

	// Validation never stores anything
	assert.Equal(t, 0, s.repo.GetUserCount())
}

func TestCheckPrimeEndpoint(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path       string
		wantStatus int
		want       PrimeResponse
	}{
		{"/v1/primes/7", http.StatusOK, PrimeResponse{N: 7, Prime: true}},
		{"/v1/primes/4", http.StatusOK, PrimeResponse{N: 4, Prime: false}},
		{"/v1/primes/1", http.StatusOK, PrimeResponse{N: 1, Prime: false}},
		{"/v1/primes/-3", http.StatusOK, PrimeResponse{N: -3, Prime: false}},
		{"/v1/primes/abc", http.StatusBadRequest, PrimeResponse{}},
		{"/v1/primes/999999999989", http.StatusOK, PrimeResponse{N: 999999999989, Prime: true}},
		{"/v1/primes/1000000000000", http.StatusOK, PrimeResponse{N: 1000000000000, Prime: false}},
		{"/v1/primes/1000000000000000003", http.StatusBadRequest, PrimeResponse{}},
		{"/v1/primes/9223372036854775807", http.StatusBadRequest, PrimeResponse{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := s.do(http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp PrimeResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp)
		})
	}
}

func TestCheckPrimeEndpoint_TooLarge(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/v1/primes/1000000000001", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, ErrNumberTooLarge.Error())
}

func TestCurrentUserEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPost, "/v1/register",
		`{"username":"user123","email":"user@example.com","password":"P@ssw0rd"}`, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	var registered RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registered))

	t.Run("Authenticated", func(t *testing.T) {
		rr := s.do(http.MethodGet, "/v1/me", "", map[string]string{
			"Authorization": "Bearer " + registered.Token,
		})
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp domain.UserResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, registered.UserGUID, resp.UserGUID)
		assert.Equal(t, "user123", resp.Username)
	})

	t.Run("MissingToken", func(t *testing.T) {
		rr := s.do(http.MethodGet, "/v1/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		token, err := s.issuer.Issue(uuid.New().String())
		require.NoError(t, err)

		rr := s.do(http.MethodGet, "/v1/me", "", map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("SubjectNotAGUID", func(t *testing.T) {
		token, err := s.issuer.Issue("not-a-guid")
		require.NoError(t, err)

		rr := s.do(http.MethodGet, "/v1/me", "", map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetCurrentUser_NoUserInContext(t *testing.T) {
	h := NewHandler(&stubService{}, zap.NewNop().Sugar())

	rr := httptest.NewRecorder()
	h.GetCurrentUser(rr, httptest.NewRequest(http.MethodGet, "/v1/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetCurrentUser_ServiceError(t *testing.T) {
	h := NewHandler(&stubService{getErr: errors.New("database down")}, zap.NewNop().Sugar())

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, uuid.New().String()))
	rr := httptest.NewRecorder()
	h.GetCurrentUser(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestMetricsAndFallbackRoutes(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodPost, "/v1/register", `{"username":"","email":"","password":""}`, nil)

	rr := s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `registration_rejected_fields_total{field="username"} 1`)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code)

	rr = s.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/v1/register", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, rr.Body.String())
}

// stubService is a RegistrationService returning fixed results
type stubService struct {
	getErr error
}

func (s *stubService) Register(ctx context.Context, creds domain.Credentials) (*service.Registration, error) {
	return nil, errors.New("not implemented")
}

func (s *stubService) GetUser(ctx context.Context, userGUID uuid.UUID) (*domain.User, error) {
	return nil, s.getErr
}

func (s *stubService) Validate(creds domain.Credentials) service.FieldReport {
	return service.FieldReport{}
}
