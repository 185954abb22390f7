package minio

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
	"taskboard/internal/config"
)

// MinioProvider stores user-uploaded board cover images. Objects live
// under the covers/ prefix in a public-read bucket so the frontend can
// serve them directly by URL.
type MinioProvider struct {
	Client    *minio.Client
	Bucket    string
	PublicURL string
	logger    *zap.SugaredLogger
}

type UploadedCover struct {
	ID       string `json:"id"`
	ThumbURL string `json:"thumb_url"`
	FullURL  string `json:"full_url"`
}

func NewMinioProvider(cfg *config.Config, logger *zap.Logger) (*MinioProvider, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.MinioURL, "http://"), "https://")
	useSSL := strings.HasPrefix(cfg.MinioURL, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioUser, cfg.MinioPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	provider := &MinioProvider{
		Client:    client,
		Bucket:    cfg.MinioBucket,
		PublicURL: strings.TrimSuffix(cfg.MinioPublicURL, "/"),
		logger:    logger.Sugar(),
	}

	if err := provider.ensureBucket(context.Background()); err != nil {
		return nil, err
	}

	provider.logger.Infow("MinIO connected", "endpoint", endpoint, "bucket", cfg.MinioBucket)

	return provider, nil
}

func (m *MinioProvider) ensureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", m.Bucket, err)
	}
	if !exists {
		if err := m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %q: %w", m.Bucket, err)
		}
		m.logger.Infow("MinIO bucket created", "bucket", m.Bucket)
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, m.Bucket)

	if err := m.Client.SetBucketPolicy(ctx, m.Bucket, policy); err != nil {
		m.logger.Warnw("Failed to set public-read bucket policy", "bucket", m.Bucket, "error", err)
	}

	return nil
}

// UploadCover stores a cover image and returns its id and public URLs.
// The same URL serves as both thumb and full variant; uploaded covers
// are not resized server-side.
func (m *MinioProvider) UploadCover(ctx context.Context, file *multipart.FileHeader) (*UploadedCover, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}

	objectName := fmt.Sprintf("covers/%s%s", uuid.New().String(), ext)

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = m.Client.PutObject(ctx, m.Bucket, objectName, src, file.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", objectName, err)
	}

	url := fmt.Sprintf("%s/%s/%s", m.PublicURL, m.Bucket, objectName)

	m.logger.Infow("Cover uploaded", "object", objectName, "size", file.Size)

	return &UploadedCover{
		ID:       objectName,
		ThumbURL: url,
		FullURL:  url,
	}, nil
}

func (m *MinioProvider) DeleteFile(ctx context.Context, objectName string) error {
	if err := m.Client.RemoveObject(ctx, m.Bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", objectName, err)
	}
	return nil
}
