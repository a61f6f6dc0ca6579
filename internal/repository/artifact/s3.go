package artifact

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds object storage settings.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Prefix    string
}

// S3Uploader puts artifacts under <prefix>/<batch>/<file> in one bucket.
type S3Uploader struct {
	client   *minio.Client
	bucket   string
	region   string
	prefix   string
	batchID  string
	initOnce sync.Once
	initErr  error
}

// NewS3Uploader creates an uploader for the given run batch.
func NewS3Uploader(cfg S3Config, batchID string) (*S3Uploader, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if strings.TrimSpace(batchID) == "" {
		return nil, fmt.Errorf("batch id is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		region:  region,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		batchID: batchID,
	}, nil
}

// Put uploads one artifact file.
func (u *S3Uploader) Put(ctx context.Context, file string, content []byte, contentType string) error {
	if err := u.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	key := ObjectKey(u.prefix, u.batchID, file)
	_, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (u *S3Uploader) ensureBucket(ctx context.Context) error {
	u.initOnce.Do(func() {
		exists, err := u.client.BucketExists(ctx, u.bucket)
		if err != nil {
			u.initErr = err
			return
		}
		if exists {
			return
		}
		u.initErr = u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{Region: u.region})
	})
	return u.initErr
}

// ObjectKey joins the key parts, skipping an empty prefix.
func ObjectKey(prefix, batchID, file string) string {
	if prefix == "" {
		return path.Join(batchID, file)
	}
	return path.Join(prefix, batchID, file)
}
