package fetch

import (
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Source fetches dataset objects from an S3 bucket.
type S3Source struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Source creates a source over the given bucket. rootPrefix is
// prepended to all object names (e.g. "ljspeech/v1").
func NewS3Source(client *s3.Client, bucket, rootPrefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: rootPrefix}
}

// NewS3SourceFromEnv creates a source using the ambient AWS configuration
// (environment, shared config and credential files).
func NewS3SourceFromEnv(ctx context.Context, bucket, rootPrefix string, optFns ...func(*config.LoadOptions) error) (*S3Source, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, err
	}
	return NewS3Source(s3.NewFromConfig(cfg), bucket, rootPrefix), nil
}

func (s *S3Source) key(name string) string {
	return path.Join(s.prefix, name)
}

// Fetch opens the named object for streaming.
func (s *S3Source) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out.Body, nil
}

func (s *S3Source) String() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}
