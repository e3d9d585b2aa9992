package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *S3AttachmentStore {
	t.Helper()
	s, err := NewS3AttachmentStore(context.Background(), S3Config{
		User:     "minioadmin",
		Password: "minioadmin",
		Bucket:   "inotebook",
		Region:   "us-east-1",
		Endpoint: "http://127.0.0.1:9000",
		Expires:  10 * time.Minute,
	})
	require.NoError(t, err)
	return s
}

func TestPresignPut(t *testing.T) {
	s := newStore(t)

	raw, err := s.PresignPut(context.Background(), "notes/u-1/2025/01/02/n-1-abc")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/inotebook/notes/u-1/2025/01/02/n-1-abc", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.True(t, strings.HasPrefix(u.Query().Get("X-Amz-Credential"), "minioadmin/"))
}

func TestPresignGet(t *testing.T) {
	s := newStore(t)

	raw, err := s.PresignGet(context.Background(), "notes/k")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/inotebook/notes/k", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestNewS3AttachmentStore_DefaultExpiry(t *testing.T) {
	s, err := NewS3AttachmentStore(context.Background(), S3Config{Bucket: "b", Region: "us-east-1", User: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, s.expires)
}

func TestNewS3AttachmentStore_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3AttachmentStore(context.Background(), S3Config{Bucket: "b"})
	assert.ErrorContains(t, err, "aws config: no config")
}

func TestAttachmentKey(t *testing.T) {
	now := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

	a := AttachmentKey("u-1", "n-1", now)
	b := AttachmentKey("u-1", "n-1", now)

	assert.True(t, strings.HasPrefix(a, "notes/u-1/2025/01/02/n-1-"), a)
	assert.NotEqual(t, a, b)
}
