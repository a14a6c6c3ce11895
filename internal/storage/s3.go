package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/antonrybalko/registration-service-go/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Config holds configuration for the S3 audit archive
type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO or other S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (for MinIO)
}

// Interface defines the object operations the audit archive needs
type Interface interface {
	// Put uploads an object
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// S3Client implements Interface using the AWS SDK
type S3Client struct {
	client *s3.Client
	bucket string
	logger *zap.SugaredLogger
}

// NewS3Client creates a new S3 client
func NewS3Client(ctx context.Context, cfg Config, logger *zap.SugaredLogger) (*S3Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithDefaultsMode(aws.DefaultsModeStandard),
	}

	// Use credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Use custom endpoint if provided (for MinIO, etc.)
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Infow("S3 client initialized",
		"region", cfg.Region,
		"bucket", cfg.Bucket,
		"endpoint", cfg.Endpoint,
	)

	return &S3Client{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Put uploads an object to S3
func (s *S3Client) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}

	return nil
}

// BuildAuditKey returns the object key of a registration audit event.
// Keys are grouped by day so the archive can be listed per date.
func BuildAuditKey(event domain.RegistrationEvent) string {
	return fmt.Sprintf("audit/registrations/%s/%s.json",
		event.RegisteredAt.UTC().Format("2006/01/02"),
		strings.ToLower(event.UserGUID.String()),
	)
}

// AuditArchive writes registration events as JSON objects
type AuditArchive struct {
	store Interface
}

// NewAuditArchive creates an archive backed by store
func NewAuditArchive(store Interface) *AuditArchive {
	return &AuditArchive{store: store}
}

// Archive stores event and returns its object key
func (a *AuditArchive) Archive(ctx context.Context, event domain.RegistrationEvent) (string, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to encode audit event: %w", err)
	}

	key := BuildAuditKey(event)
	if err := a.store.Put(ctx, key, body, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}
