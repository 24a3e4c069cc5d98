package snapshot

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/fibre/internal/errors"
)

// ObjectPutter is the subset of *s3.Client used by S3Store.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store stores snapshots in an S3 bucket.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "us-east-1"})
//	store, err := snapshot.NewS3Store(client, "my-bucket", "snapshots/")
type S3Store struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3Store creates a store writing keys under prefix in bucket.
func NewS3Store(client ObjectPutter, bucket, prefix string) (*S3Store, error) {
	if client == nil {
		return nil, errors.New(errors.CodeSnapshotConfig).WithDetail("S3 client is nil")
	}
	if bucket == "" {
		return nil, errors.New(errors.CodeSnapshotConfig).
			WithDetail("bucket is empty").
			WithSuggestion(`Set "snapshot.bucket" in fibre.json`)
	}
	return &S3Store{client: client, bucket: bucket, prefix: prefix}, nil
}

// Key returns the object key used for key.
func (s *S3Store) Key(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// Put uploads body as an object.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(key)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"snapshot-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return errors.New(errors.CodeSnapshotWrite).
			WithDetailf("s3://%s/%s", s.bucket, s.Key(key)).
			Wrap(err)
	}
	return nil
}
