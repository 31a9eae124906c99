package objstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sonora-music/sonora/internal/audioformat"
)

// S3Config configures an S3-compatible backend for one music folder.
type S3Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
}

// S3Store implements Filesystem over an S3-compatible bucket. Paths are
// always Unix-style absolute of form "/<bucket>/<key>"; NewS3 pins the
// bucket so callers pass only the key portion.
type S3Store struct {
	client        *minio.Client
	bucket        string
	presignExpiry time.Duration
}

func NewS3(ctx context.Context, cfg S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket: %w", err)
		}
	}
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &S3Store{client: client, bucket: cfg.Bucket, presignExpiry: expiry}, nil
}

// splitPath strips a leading "/<bucket>/" prefix per the Unix-style
// absolute path convention for S3-backed music folders. A path without a
// leading "/" is already a key and is returned unchanged.
func splitPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		return p
	}
	p = p[1:]
	if idx := strings.Index(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

func (s *S3Store) CheckFolder(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check folder: %w", err)
	}
	if !exists {
		return fmt.Errorf("check folder: bucket %s does not exist", s.bucket)
	}
	return nil
}

func (s *S3Store) ScanFolder(ctx context.Context, prefix string, minSize int64, out chan<- Entry) error {
	defer close(out)
	key := splitPath(prefix)
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    key,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return obj.Err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		format, ok := audioformat.FromExtension(path.Ext(obj.Key))
		if !ok {
			continue
		}
		if obj.Size <= minSize {
			continue
		}
		rel := strings.TrimPrefix(obj.Key, key)
		rel = strings.TrimPrefix(rel, "/")
		entry := Entry{
			Format:       format,
			RelativePath: rel,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		}
		select {
		case out <- entry:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *S3Store) Read(ctx context.Context, p string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, splitPath(p), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	b, err := io.ReadAll(obj)
	if err != nil {
		return nil, s3NotExistErr(p, err)
	}
	return b, nil
}

func (s *S3Store) ReadToString(ctx context.Context, p string) (string, error) {
	b, err := s.Read(ctx, p)
	return string(b), err
}

func (s *S3Store) Exists(ctx context.Context, p string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, splitPath(p), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *S3Store) Size(ctx context.Context, p string) (int64, error) {
	info, err := s.client.StatObject(ctx, s.bucket, splitPath(p), minio.StatObjectOptions{})
	if err != nil {
		return 0, s3NotExistErr(p, err)
	}
	return info.Size, nil
}

func (s *S3Store) ReadRange(ctx context.Context, p string, offset int64) (io.ReadCloser, int64, error) {
	key := splitPath(p)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, 0, s3NotExistErr(p, err)
	}
	if offset > info.Size {
		return nil, 0, fmt.Errorf("offset %d exceeds size %d", offset, info.Size)
	}
	opts := minio.GetObjectOptions{}
	if offset > 0 {
		if err := opts.SetRange(offset, 0); err != nil {
			return nil, 0, err
		}
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, opts)
	if err != nil {
		return nil, 0, err
	}
	return obj, info.Size, nil
}

// TranscodeInput returns a presigned GET URL so the transcoder can open the
// source over HTTPS without holding S3 credentials.
func (s *S3Store) TranscodeInput(ctx context.Context, p string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, splitPath(p), s.presignExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return u.String(), nil
}

func s3NotExistErr(p string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return &ErrNotExist{Path: p}
	}
	return err
}
