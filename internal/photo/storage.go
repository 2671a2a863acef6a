// Package photo stores pet photos in an S3-compatible bucket and hands back
// public URLs for the pet profile's three photo slots.
package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNotConfigured is returned when uploads are attempted without S3 credentials.
var ErrNotConfigured = errors.New("photo storage not configured")

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config holds S3-compatible storage configuration. PublicBaseURL, when set,
// overrides the derived endpoint/bucket URL (e.g. a CDN in front of the bucket).
type Config struct {
	Endpoint      string
	Bucket        string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Storage uploads photos and returns their public URLs.
type Storage struct {
	cfg    Config
	client s3Client
	now    func() time.Time
}

func NewStorage(cfg Config) *Storage {
	s := &Storage{cfg: cfg, now: time.Now}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		s.client = newS3Client(cfg)
	}
	return s
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Configured reports whether uploads can be performed.
func (s *Storage) Configured() bool {
	return s.client != nil
}

// Upload stores one photo under a key scoped to the owner and pet and
// returns its public URL.
func (s *Storage) Upload(ctx context.Context, userID int64, petID string, slot int, filename, contentType string, body io.Reader) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	key := s.objectKey(userID, petID, slot, filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.cfg.Bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return s.PublicURL(key), nil
}

// Delete removes a stored photo by its public URL. Unknown URLs are ignored.
func (s *Storage) Delete(ctx context.Context, publicURL string) error {
	if s.client == nil {
		return ErrNotConfigured
	}
	key := s.keyFromURL(publicURL)
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

// PublicURL returns the browsable URL for a stored object key.
func (s *Storage) PublicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	endpoint := strings.TrimSuffix(s.cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", s.cfg.Region)
	}
	// Path-style addressing, matching the client configuration.
	return fmt.Sprintf("%s/%s/%s", endpoint, s.cfg.Bucket, key)
}

func (s *Storage) keyFromURL(publicURL string) string {
	prefix := s.PublicURL("")
	if !strings.HasPrefix(publicURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(publicURL, prefix)
}

func (s *Storage) objectKey(userID int64, petID string, slot int, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%d/%s/%d-%d%s", userID, petID, s.now().UnixMilli(), slot, ext)
}
