package fetch

import (
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
)

// MinIOSource fetches dataset objects from MinIO or other S3-compatible
// storage reachable through the minio client.
type MinIOSource struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIOSource creates a source over the given bucket. rootPrefix is
// prepended to all object names.
func NewMinIOSource(client *minio.Client, bucket, rootPrefix string) *MinIOSource {
	return &MinIOSource{client: client, bucket: bucket, prefix: rootPrefix}
}

func (s *MinIOSource) key(name string) string {
	return path.Join(s.prefix, name)
}

// Fetch opens the named object for streaming. Existence is verified up
// front; minio's GetObject defers errors to the first read otherwise.
func (s *MinIOSource) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.key(name)

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, ErrNotFound
		}
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (s *MinIOSource) String() string {
	return "minio://" + path.Join(s.bucket, s.prefix)
}
