// Package publish uploads the assembled site root to S3-compatible storage.
package publish

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vk/regiongrid/internal/ctxlog"
)

// Config locates the destination bucket.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// objectStore is the part of *minio.Client the publisher uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Publisher mirrors a local directory into a bucket.
type S3Publisher struct {
	store  objectStore
	bucket string
	prefix string
	region string
}

// NewS3Publisher validates cfg and creates a minio client for it.
func NewS3Publisher(cfg Config) (*S3Publisher, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return newPublisher(client, bucket, cfg.Prefix, region), nil
}

func newPublisher(store objectStore, bucket, prefix, region string) *S3Publisher {
	return &S3Publisher{store: store, bucket: bucket, prefix: strings.Trim(prefix, "/"), region: region}
}

// Tree is an extra local directory published below Under, a slash-separated
// path relative to the site root.
type Tree struct {
	Dir   string
	Under string
}

// Publish uploads every regular file under siteDir, then every file of each
// extra tree, and returns how many were written. Site objects are keyed by
// their slash-separated path below siteDir.
func (p *S3Publisher) Publish(ctx context.Context, siteDir string, extra ...Tree) (int, error) {
	logger := ctxlog.FromContext(ctx)

	exists, err := p.store.BucketExists(ctx, p.bucket)
	if err != nil {
		return 0, fmt.Errorf("check bucket %s: %w", p.bucket, err)
	}
	if !exists {
		logger.Info("Creating bucket.", "bucket", p.bucket, "region", p.region)
		if err := p.store.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region}); err != nil {
			return 0, fmt.Errorf("create bucket %s: %w", p.bucket, err)
		}
	}

	uploaded := 0
	for _, tree := range append([]Tree{{Dir: siteDir}}, extra...) {
		n, err := p.uploadTree(ctx, tree)
		uploaded += n
		if err != nil {
			return uploaded, err
		}
	}
	logger.Info("Site published.", "bucket", p.bucket, "prefix", p.prefix, "objects", uploaded)
	return uploaded, nil
}

func (p *S3Publisher) uploadTree(ctx context.Context, tree Tree) (int, error) {
	logger := ctxlog.FromContext(ctx)
	under := strings.Trim(filepath.ToSlash(tree.Under), "/")

	uploaded := 0
	err := filepath.WalkDir(tree.Dir, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(tree.Dir, full)
		if err != nil {
			return err
		}
		if under != "" {
			rel = path.Join(under, filepath.ToSlash(rel))
		}
		key := p.ObjectKey(rel)
		if err := p.upload(ctx, full, key); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		logger.Debug("Object uploaded.", "key", key)
		uploaded++
		return nil
	})
	return uploaded, err
}

// ObjectKey maps a path relative to the site root to its object key.
func (p *S3Publisher) ObjectKey(rel string) string {
	rel = filepath.ToSlash(rel)
	if p.prefix == "" {
		return rel
	}
	return path.Join(p.prefix, rel)
}

func (p *S3Publisher) upload(ctx context.Context, full, key string) error {
	f, err := os.Open(full)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	_, err = p.store.PutObject(ctx, p.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: ContentType(full),
	})
	return err
}

// ContentType guesses the MIME type from the file extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
