package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/pushp314/coursehub-backend/pkg/utils"
)

// Folders accepted by the upload endpoint.
const (
	FolderCourseImage       = "course_image"
	FolderCourseAttachments = "course_attachments"
	FolderCourseVideo       = "course_video"
)

// ErrNotConfigured is returned by uploads when no bucket is configured.
var ErrNotConfigured = errors.New("media storage not configured")

// Object describes a stored blob. Key is the handle used to delete it later.
type Object struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"mimetype"`
	Size        int64  `json:"size"`
}

// MediaStore hosts course images, chapter videos and attachment files.
type MediaStore interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// ValidFolder reports whether folder is one of the known upload folders.
func ValidFolder(folder string) bool {
	switch folder {
	case FolderCourseImage, FolderCourseAttachments, FolderCourseVideo:
		return true
	}
	return false
}

// R2Store keeps objects in a Cloudflare R2 bucket through the S3 API.
type R2Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewR2Store builds a store from the R2 settings in cfg.
func NewR2Store(ctx context.Context, cfg *config.Config) (*R2Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	publicURL := strings.TrimRight(cfg.R2PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.r2.dev", cfg.R2BucketName)
	}

	return &R2Store{client: client, bucket: cfg.R2BucketName, publicURL: publicURL}, nil
}

func (s *R2Store) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (*Object, error) {
	key := ObjectKey(folder, filename)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, err
	}

	return &Object{
		URL:         s.publicURL + "/" + key,
		Key:         key,
		ContentType: contentType,
		Size:        size,
	}, nil
}

func (s *R2Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// NoopStore is used when storage is not configured: uploads fail, deletes succeed.
type NoopStore struct{}

func (NoopStore) Upload(context.Context, string, string, string, io.Reader, int64) (*Object, error) {
	return nil, ErrNotConfigured
}

func (NoopStore) Delete(context.Context, string) error {
	return nil
}

// ObjectKey builds "<folder>/<random id><ext>" keeping only the extension of the client's name.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", folder, utils.GenerateID(), ext)
}

// New returns an R2Store when credentials are configured, NoopStore otherwise.
func New(ctx context.Context, cfg *config.Config) (MediaStore, error) {
	if !cfg.StorageConfigured() {
		return NoopStore{}, nil
	}
	return NewR2Store(ctx, cfg)
}
