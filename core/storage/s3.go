package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"campus-events/core/config"
	"campus-events/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage stores certificate artifacts and hands out presigned links.
type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expires time.Duration
}

func NewS3Storage(cfg config.AWSConfig) *S3Storage {
	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}

	client := s3.NewFromConfig(awsCfg)

	expires := time.Duration(cfg.PresignMinutes) * time.Minute
	if expires <= 0 {
		expires = 15 * time.Minute
	}

	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		expires: expires,
	}
}

// Upload writes an object and returns its key.
func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("S3Storage:Upload", "error", err, "key", key)
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// PresignDownload returns a time-limited download URL for an object.
func (s *S3Storage) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.expires
	})
	if err != nil {
		logger.Error("S3Storage:PresignDownload", "error", err, "key", key)
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}
