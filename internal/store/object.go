package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/minio/minio-go/v7"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

// ObjectAPI is the subset of *minio.Client used by ObjectStore.
type ObjectAPI interface {
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (*minio.Object, error)
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ObjectStore keeps the gallery as one zstd-compressed JSON object in an
// S3-compatible bucket. A single PUT replaces the object atomically.
type ObjectStore struct {
	client ObjectAPI
	bucket string
	key    string
}

func NewObjectStore(client ObjectAPI, bucket, key string) *ObjectStore {
	return &ObjectStore{
		client: client,
		bucket: bucket,
		key:    key,
	}
}

func (s *ObjectStore) Load(ctx context.Context) (domain.Gallery, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return domain.Gallery{}, nil
		}
		return nil, domain.ErrStorageRead.WithError(fmt.Errorf("get %s/%s: %w", s.bucket, s.key, err))
	}
	defer obj.Close()

	// GetObject is lazy; a missing key surfaces on the first read.
	compressed, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return domain.Gallery{}, nil
		}
		return nil, domain.ErrStorageRead.WithError(fmt.Errorf("read %s/%s: %w", s.bucket, s.key, err))
	}

	data, err := decompress(compressed)
	if err != nil {
		return nil, domain.ErrStorageRead.WithError(err)
	}

	gallery, err := decodeGallery(data)
	if err != nil {
		return nil, domain.ErrStorageRead.WithError(err)
	}
	return gallery, nil
}

func (s *ObjectStore) Save(ctx context.Context, gallery domain.Gallery) error {
	data, err := encodeGallery(gallery)
	if err != nil {
		return domain.ErrStorageWrite.WithError(err)
	}

	compressed := compress(data)
	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(compressed), int64(len(compressed)), minio.PutObjectOptions{
		ContentType:     "application/json",
		ContentEncoding: "zstd",
	})
	if err != nil {
		return domain.ErrStorageWrite.WithError(fmt.Errorf("put %s/%s: %w", s.bucket, s.key, err))
	}
	return nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func compress(data []byte) []byte {
	enc, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	if enc == nil {
		enc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	}
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(data, nil)
}

func decompress(data []byte) ([]byte, error) {
	dec, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	if dec == nil {
		var err error
		dec, err = zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
	}
	defer zstdDecoderPool.Put(dec)

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress gallery: %w", err)
	}
	return out, nil
}
