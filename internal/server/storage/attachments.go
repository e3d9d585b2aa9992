// Package storage issues presigned S3 URLs for note attachments. Clients
// upload and download the bytes directly against the object store.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3Config struct {
	User     string
	Password string
	Bucket   string
	Region   string
	Endpoint string
	Expires  time.Duration
}

// S3AttachmentStore presigns PUT and GET requests for a single bucket.
type S3AttachmentStore struct {
	presign *s3.PresignClient
	bucket  string
	expires time.Duration
}

// loadDefaultAWSConfig is a seam for tests.
var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

func NewS3AttachmentStore(ctx context.Context, c S3Config) (*S3AttachmentStore, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(c.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.User, c.Password, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = true
	})

	expires := c.Expires
	if expires <= 0 {
		expires = 15 * time.Minute
	}

	return &S3AttachmentStore{
		presign: s3.NewPresignClient(client),
		bucket:  c.Bucket,
		expires: expires,
	}, nil
}

func (s *S3AttachmentStore) PresignPut(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *S3AttachmentStore) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// AttachmentKey builds a fresh object key for a note's attachment, grouped by
// owner and upload date.
func AttachmentKey(userID, noteID string, now time.Time) string {
	return fmt.Sprintf("notes/%s/%04d/%02d/%02d/%s-%s", userID, now.Year(), now.Month(), now.Day(), noteID, uuid.NewString())
}
