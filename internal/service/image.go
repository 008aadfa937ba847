package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/logging"
)

// MaxImageSize bounds decoded uploads.
const MaxImageSize = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image is a decoded upload ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DecodeDataURI parses a "data:image/<fmt>;base64,<payload>" string. The
// content type is sniffed from the bytes, not trusted from the header.
func DecodeDataURI(s string) (*Image, error) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("expected a base64 encoded image data URI")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("the submitted file is empty")
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxImageSize)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported image type %q", contentType)
	}
	return &Image{Data: data, ContentType: contentType, Ext: ext}, nil
}

// ImageKey builds an object key under prefix with a random name.
func ImageKey(prefix string, img *Image) string {
	return path.Join(prefix, uuid.New().String()+"."+img.Ext)
}

// S3API is the subset of the S3 client used for image storage.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore keeps images in an S3 bucket and returns their public URL.
type S3ImageStore struct {
	client    S3API
	bucket    string
	objectURL func(key string) string
}

func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{
		client:    cfg.Client,
		bucket:    cfg.BucketName,
		objectURL: cfg.ObjectURL,
	}
}

// NewS3ImageStoreWithClient is used where the client is not a *s3.Client.
func NewS3ImageStoreWithClient(client S3API, bucket string, objectURL func(string) string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket, objectURL: objectURL}
}

func (s *S3ImageStore) Save(ctx context.Context, key string, img *Image) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.objectURL(key)
	logging.Ctx(ctx).Debug().Str("url", url).Msg("uploaded image to S3")
	return url, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, url string) error {
	prefix := s.objectURL("")
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(url, prefix)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// LocalImageStore writes images under dir and serves them from baseURL.
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalImageStore{dir: dir, baseURL: baseURL}
}

func (s *LocalImageStore) Save(ctx context.Context, key string, img *Image) (string, error) {
	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(dst, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.baseURL + key, nil
}

func (s *LocalImageStore) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.baseURL) {
		return nil
	}
	key := strings.TrimPrefix(url, s.baseURL)
	if strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// NewImageStore picks S3 when a bucket is configured, the local media
// directory otherwise.
func NewImageStore(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	if cfg.S3Bucket == "" {
		return NewLocalImageStore(cfg.MediaDir, cfg.MediaURL), nil
	}
	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewS3ImageStore(s3Cfg), nil
}
