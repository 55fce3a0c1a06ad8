package state

import (
	"context"
	"log/slog"

	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	"gocloud.dev/gcerrors"
)

const stateContentType = "application/json"

// BlobStorage keeps state entries as objects in a gocloud bucket.
type BlobStorage struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// NewBlobStorage opens the bucket at bucketURL.
func NewBlobStorage(ctx context.Context, bucketURL string, logger *slog.Logger) (*BlobStorage, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open state bucket %q", bucketURL)
	}

	return &BlobStorage{
		bucket: bucket,
		logger: logger,
	}, nil
}

func (s *BlobStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, objectName(key))
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, service.ErrStateNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read state %q", key)
	}

	return data, nil
}

func (s *BlobStorage) Save(ctx context.Context, key string, data []byte) error {
	err := s.bucket.WriteAll(ctx, objectName(key), data, &blob.WriterOptions{
		ContentType: stateContentType,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to write state %q", key)
	}
	s.logger.Debug("[BlobState] Saved", slog.String("key", key), slog.Int("bytes", len(data)))

	return nil
}

func (s *BlobStorage) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, objectName(key))
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrapf(err, "failed to delete state %q", key)
	}

	return nil
}

func (s *BlobStorage) Close() error {
	return errors.WithStack(s.bucket.Close())
}

func objectName(key string) string {
	return key + ".json"
}
