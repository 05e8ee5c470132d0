package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"reagent-tracker/internal/core/config"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// objectPutter is the subset of *minio.Client used by the archive.
type objectPutter interface {
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioExportArchive uploads audit exports to an S3-compatible bucket.
type MinioExportArchive struct {
	client objectPutter
	bucket string
}

// NewMinioExportArchive connects to the configured endpoint and creates the bucket
// when it does not exist yet.
func NewMinioExportArchive(ctx context.Context, cfg config.ArchiveConfig) (*MinioExportArchive, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("export archive endpoint is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinioExportArchive{client: cli, bucket: cfg.Bucket}, nil
}

// Put uploads data under name.
func (a *MinioExportArchive) Put(ctx context.Context, name string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: xlsxContentType,
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", a.bucket, name, err)
	}
	return nil
}
