package storage

import (
	"RadCase/config"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MediaURLExpiry is how long a signed media URL stays valid. URLs are minted
// fresh on every fetch and never cached.
const MediaURLExpiry = time.Hour

// Client wraps an S3-compatible object store. Medical files are private and
// served through presigned URLs; profile pictures are public.
type Client struct {
	s3     *s3.Client
	presig *s3.PresignClient
	bucket string
	public string
}

// New creates a storage client for the configured S3-compatible endpoint.
func New(cfg config.StorageConfig) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is required")
	}

	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...any) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				SigningRegion:     cfg.Region,
				HostnameImmutable: true,
			}, nil
		},
	)

	awsCfg, err := awscfg.LoadDefaultConfig(context.Background(),
		awscfg.WithRegion(cfg.Region),
		awscfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awscfg.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load config: %w", err)
	}

	cli := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &Client{
		s3:     cli,
		presig: s3.NewPresignClient(cli),
		bucket: cfg.Bucket,
		public: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload puts a private object into the bucket. Media keys follow the
// convention medical-files/{case_id}/{unix_ms}.{ext}.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("storage upload %q: %w", key, err)
	}
	return nil
}

// UploadPublic puts a publicly readable object into the bucket and returns
// its public URL. Used for profile pictures.
func (c *Client) UploadPublic(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("storage upload %q: %w", key, err)
	}
	return c.PublicURL(key), nil
}

// SignedURL generates a presigned GET URL valid for MediaURLExpiry.
func (c *Client) SignedURL(ctx context.Context, key string) (string, error) {
	req, err := c.presig.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(MediaURLExpiry))
	if err != nil {
		return "", fmt.Errorf("storage presign %q: %w", key, err)
	}
	return req.URL, nil
}

// PublicURL returns the unauthenticated URL of a public object.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.public, c.bucket, key)
}

// KeyFromPublicURL recovers the object key from a URL built by PublicURL.
// Returns false when the URL does not point into this bucket.
func (c *Client) KeyFromPublicURL(url string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", c.public, c.bucket)
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Delete removes an object from the bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage delete %q: %w", key, err)
	}
	return nil
}
