package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antonrybalko/registration-service-go/internal/api"
	"github.com/antonrybalko/registration-service-go/internal/auth"
	"github.com/antonrybalko/registration-service-go/internal/config"
	"github.com/antonrybalko/registration-service-go/internal/metrics"
	"github.com/antonrybalko/registration-service-go/internal/repository"
	"github.com/antonrybalko/registration-service-go/internal/service"
	"github.com/antonrybalko/registration-service-go/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Version represents the application version
const Version = "0.1.0"

// Service represents the application service
type Service struct {
	config *config.Config
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	router chi.Router
	server *http.Server
	db     *sql.DB
}

// NewLogger builds the zap logger for env
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// NewService creates a new application service
func NewService(ctx context.Context) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := NewLogger(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	sugar := logger.Sugar()

	// Initialize database and repository
	var (
		db   *sql.DB
		repo repository.UserRepository
	)
	if cfg.Environment != "test" {
		db, err = repository.NewDBConnection(ctx, repository.DBConfig{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Name:     cfg.DB.Name,
			SSLMode:  cfg.DB.SSLMode,
		}, sugar)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := repository.CreateTablesIfNotExist(ctx, db, sugar); err != nil {
			repository.CloseDB(db, sugar)
			return nil, fmt.Errorf("failed to create database tables: %w", err)
		}

		repo = repository.NewPostgresUserRepository(db, sugar)
	} else {
		// Use mock repository for testing
		repo = repository.NewMockUserRepository()
	}

	// Initialize the audit archive
	var archive service.Archiver
	if cfg.Audit.Enabled {
		var store storage.Interface
		if cfg.Environment != "test" {
			store, err = storage.NewS3Client(ctx, storage.Config{
				Region:          cfg.S3.Region,
				Bucket:          cfg.S3.Bucket,
				AccessKeyID:     cfg.S3.AccessKeyID,
				SecretAccessKey: cfg.S3.SecretAccessKey,
				Endpoint:        cfg.S3.Endpoint,
				UsePathStyle:    cfg.S3.UsePathStyle,
			}, sugar)
			if err != nil {
				repository.CloseDB(db, sugar)
				return nil, fmt.Errorf("failed to initialize storage: %w", err)
			}
		} else {
			store = storage.NewMockS3Client()
		}
		archive = storage.NewAuditArchive(store)
	}

	// Outside production a missing secret gets a random one per process
	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		jwtSecret = uuid.NewString()
		sugar.Warn("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}
	issuer := auth.NewTokenIssuer(auth.Config{
		Secret: jwtSecret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	})

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	registrationService := service.NewRegistrationService(repo, archive, issuer, m, sugar)
	registrationService.SetBcryptCost(cfg.Bcrypt.Cost)

	// Initialize router
	router := chi.NewRouter()
	api.RegisterRoutes(router, api.RouteDeps{
		Handler:        api.NewHandler(registrationService, sugar),
		AuthMiddleware: auth.NewJWTMiddleware(issuer, sugar).Middleware,
		Metrics:        m.Handler(),
		Logger:         sugar,
		Version:        Version,
		Environment:    cfg.Environment,
	})

	// Initialize HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Service{
		config: cfg,
		logger: logger,
		sugar:  sugar,
		router: router,
		server: server,
		db:     db,
	}, nil
}

// Handler returns the HTTP handler of the service
func (s *Service) Handler() http.Handler {
	return s.router
}

// Start starts the service
func (s *Service) Start() error {
	s.sugar.Infow("Starting registration service",
		"version", Version,
		"environment", s.config.Environment,
		"port", s.config.Port,
	)

	go func() {
		s.sugar.Infof("Server listening on port %d", s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.sugar.Fatalf("Server failed: %v", err)
		}
	}()

	return nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
func (s *Service) WaitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	s.sugar.Infof("Shutting down server: %v", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.sugar.Errorf("Server forced to shutdown: %v", err)
		return
	}

	s.sugar.Info("Server exited gracefully")
}

// Cleanup performs cleanup tasks
func (s *Service) Cleanup() {
	repository.CloseDB(s.db, s.sugar)

	s.sugar.Info("Cleanup completed")

	// Sync logger last
	if err := s.logger.Sync(); err != nil {
		fmt.Printf("Failed to sync logger: %v\n", err)
	}
}
