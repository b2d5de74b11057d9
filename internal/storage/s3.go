// Package storage uploads user content to S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"

	"modam/internal/config"
)

// Buckets used by the application.
const (
	CommunityBucket = "community"
	AvatarBucket    = "avatars"
)

// ObjectStore uploads files and returns their public URLs.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	Upload(ctx context.Context, bucket, filename string, body io.Reader) (string, error)
}

type s3Store struct {
	svc        *s3.S3
	uploader   *s3manager.Uploader
	publicBase string
}

// NewS3Store builds an object store from the application config.
// S3_ENDPOINT supports MinIO and other S3-compatible backends in
// development.
func NewS3Store(cfg *config.Config) (ObjectStore, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.S3Region),
	}
	if cfg.S3Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	publicBase := cfg.S3PublicBase
	if publicBase == "" {
		publicBase = cfg.S3Endpoint
	}

	return &s3Store{
		svc:        s3.New(sess),
		uploader:   s3manager.NewUploader(sess),
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *s3Store) EnsureBucket(ctx context.Context, bucket string) error {
	_, err := s.svc.CreateBucketWithContext(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeBucketAlreadyOwnedByYou, s3.ErrCodeBucketAlreadyExists:
				return nil
			}
		}
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// Upload stores the body under a collision-free key derived from filename
// and returns the object's public URL.
func (s *s3Store) Upload(ctx context.Context, bucket, filename string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s%s", uuid.NewString(), strings.ToLower(path.Ext(filename)))

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", fmt.Errorf("upload to %s: %w", bucket, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicBase, bucket, key), nil
}
