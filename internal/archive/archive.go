// Package archive uploads generated reports to an S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/piwi3910/BarCut/internal/model"
)

// ErrNotConfigured is returned by New when the archive section lacks an
// endpoint, credentials or a bucket.
var ErrNotConfigured = errors.New("archive is not configured")

// Store writes report files under <runID>/<name> in a single bucket.
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

// New builds a Store from cfg. No network traffic happens until the first
// upload.
func New(cfg model.ArchiveConfig) (*Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is required", ErrNotConfigured)
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("%w: access key and secret key are required", ErrNotConfigured)
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", ErrNotConfigured)
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
		return nil, fmt.Errorf("init archive client: %w", err)
	}

	return &Store{
		client:     client,
		bucketName: bucket,
		region:     region,
	}, nil
}

// Bucket returns the target bucket name.
func (s *Store) Bucket() string {
	return s.bucketName
}

func (s *Store) ensureBucket(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("store is nil")
	}
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Put uploads content as <runID>/<name> and returns the object key.
func (s *Store) Put(ctx context.Context, runID, name string, content []byte) (string, error) {
	if s == nil {
		return "", fmt.Errorf("store is nil")
	}
	if err := checkKey(runID, name); err != nil {
		return "", err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	if content == nil {
		content = []byte{}
	}

	key := objectKey(runID, name)
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: ContentType(name),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// List returns the names stored for runID, sorted.
func (s *Store) List(ctx context.Context, runID string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, fmt.Errorf("run id is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	prefix := strings.TrimSuffix(runID, "/") + "/"
	names := make([]string, 0, 8)
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if obj.Key == "" {
			continue
		}
		names = append(names, strings.TrimPrefix(obj.Key, prefix))
	}
	sort.Strings(names)
	return names, nil
}

// URL returns a presigned download link valid for expiry.
func (s *Store) URL(ctx context.Context, runID, name string, expiry time.Duration) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("store is nil")
	}
	if err := checkKey(runID, name); err != nil {
		return "", err
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey(runID, name), expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func checkKey(runID, name string) error {
	if strings.TrimSpace(runID) == "" {
		return fmt.Errorf("run id is required")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func objectKey(runID, name string) string {
	normalized := strings.TrimLeft(strings.TrimSpace(name), "/")
	return strings.TrimSpace(runID) + "/" + normalized
}

// ContentType maps a report file name to its MIME type.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	case ".json", ".barcut":
		return "application/json"
	case ".dxf":
		return "image/vnd.dxf"
	default:
		return "application/octet-stream"
	}
}
