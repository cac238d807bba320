package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Per-call deadlines for S3 requests.
const (
	s3ObjectTimeout = 30 * time.Second
	s3ListTimeout   = time.Minute
	s3SignTimeout   = 10 * time.Second
)

// S3Config selects the bucket and credentials. Endpoint is set for
// S3-compatible stores such as MinIO or R2.
type S3Config struct {
	Region               string
	Bucket               string
	AccessKey            string
	SecretKey            string
	Endpoint             string
	PresignExpiryPrivate time.Duration
}

// S3Storage keeps objects in a bucket under the same relative keys
// LocalStorage uses on disk.
type S3Storage struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	directURL string
	expiry    time.Duration
}

func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s3ObjectTimeout)
	defer cancel()

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		static := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(static))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	directURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	if cfg.Endpoint != "" {
		directURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	s := &S3Storage{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		directURL: directURL,
		expiry:    cfg.PresignExpiryPrivate,
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *S3Storage) ensureBucket(ctx context.Context) error {
	bucket := aws.String(s.bucket)
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: bucket}); err == nil {
		return nil
	}
	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: bucket}); err != nil {
		return fmt.Errorf("bucket %q is missing and could not be created: %w", s.bucket, err)
	}
	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

// put uploads body under key. With exclusive set the write is conditional
// on the key being absent.
func (s *S3Storage) put(key string, body io.Reader, exclusive bool) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s3ObjectTimeout)
	defer cancel()

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if exclusive {
		in.ContentType = aws.String("text/html; charset=utf-8")
		in.IfNoneMatch = aws.String("*")
	}

	_, err = s.client.PutObject(ctx, in)
	switch {
	case exclusive && hasErrorCode(err, "PreconditionFailed", "ConditionalRequestConflict"):
		return fmt.Errorf("%w: %s", ErrExist, key)
	case err != nil:
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) Save(key string, r io.Reader) error {
	return s.put(key, r, false)
}

func (s *S3Storage) Create(key string, data []byte) error {
	return s.put(key, bytes.NewReader(data), true)
}

// Open buffers the whole object so the reader outlives the request context.
func (s *S3Storage) Open(key string) (io.ReadCloser, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s3ObjectTimeout)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, key)
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return io.NopCloser(&buf), nil
}

func (s *S3Storage) Delete(key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s3ObjectTimeout)
	defer cancel()

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) List(prefix string) ([]Object, error) {
	prefix, err := CleanKey(prefix)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s3ListTimeout)
	defer cancel()

	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix + "/"),
	})

	var objects []Object
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, Object{
				Key:     aws.ToString(obj.Key),
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

// URL presigns a download link, or returns the direct object URL when
// signing fails.
func (s *S3Storage) URL(key string) string {
	signed, err := s.PresignedURL(key, s.expiry)
	if err != nil {
		slog.Warn("failed to presign URL", "key", key, "error", err)
		return s.directURL + "/" + key
	}
	return signed
}

func (s *S3Storage) PresignedURL(key string, expiry time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s3SignTimeout)
	defer cancel()

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

func hasErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
