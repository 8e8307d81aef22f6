package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"school-service/pkg/config"
)

// S3Presigner issues short-lived signed upload URLs against S3-compatible
// object storage. Path-style addressing keeps it working with non-AWS
// endpoints.
type S3Presigner struct {
	presignClient *s3.PresignClient
	bucket        string
	endpoint      string
	expiry        time.Duration
}

// NewS3Presigner creates a presigner from storage configuration.
func NewS3Presigner(cfg *config.StorageConfig) *S3Presigner {
	endpoint := fmt.Sprintf("https://%s", cfg.Endpoint)

	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
	})

	return &S3Presigner{
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		endpoint:      endpoint,
		expiry:        cfg.UploadURLExpiry,
	}
}

// PresignUpload generates a presigned PUT URL for the given object key.
func (p *S3Presigner) PresignUpload(ctx context.Context, key string) (string, error) {
	result, err := p.presignClient.PresignPutObject(ctx,
		&s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(key),
			ContentType: aws.String("application/octet-stream"),
		},
		s3.WithPresignExpires(p.expiry),
	)
	if err != nil {
		return "", fmt.Errorf("presign PutObject for %q: %w", key, err)
	}
	return result.URL, nil
}

// PublicURL computes the unauthenticated URL for an already-uploaded object.
func (p *S3Presigner) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", p.endpoint, p.bucket, key)
}
