package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"microblog/internal/config"
)

type Storage interface {
	UploadProfileImage(ctx context.Context, userID string, data []byte) (string, error)
	DeleteImage(ctx context.Context, imageURL string) error
}

type MinIOClient struct {
	client *minio.Client
	config config.MinIO
}

const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

func NewMinIOClient(cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOClient{client: client, config: cfg}, nil
}

// EnsureBucket creates the image bucket with anonymous read access if it is missing.
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.config.BucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.config.BucketName, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.config.BucketName, minio.MakeBucketOptions{Region: m.config.Region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", m.config.BucketName, err)
	}

	policy := fmt.Sprintf(publicReadPolicy, m.config.BucketName)
	if err := m.client.SetBucketPolicy(ctx, m.config.BucketName, policy); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}
	return nil
}

// UploadProfileImage stores an already decoded image and returns its public URL.
func (m *MinIOClient) UploadProfileImage(ctx context.Context, userID string, data []byte) (string, error) {
	kind, err := DetectImage(data)
	if err != nil {
		return "", err
	}

	objectName := profileObjectName(userID, kind.Extension())

	_, err = m.client.PutObject(ctx, m.config.BucketName, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: kind.String(),
			UserMetadata: map[string]string{
				"user-id":     userID,
				"uploaded-at": time.Now().UTC().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("upload to minio: %w", err)
	}

	return objectURL(m.config.PublicURL, m.config.BucketName, objectName), nil
}

// DeleteImage removes an object previously returned by UploadProfileImage.
// URLs that point elsewhere are ignored.
func (m *MinIOClient) DeleteImage(ctx context.Context, imageURL string) error {
	objectName, ok := objectNameFromURL(m.config.PublicURL, m.config.BucketName, imageURL)
	if !ok {
		return nil
	}

	err := m.client.RemoveObject(ctx, m.config.BucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("delete from minio: %w", err)
	}
	return nil
}

func profileObjectName(userID, ext string) string {
	return fmt.Sprintf("profiles/%s/%s%s", userID, uuid.New().String(), ext)
}

func objectURL(publicURL, bucket, objectName string) string {
	return strings.TrimSuffix(publicURL, "/") + "/" + url.PathEscape(bucket) + "/" + objectName
}

func objectNameFromURL(publicURL, bucket, imageURL string) (string, bool) {
	prefix := strings.TrimSuffix(publicURL, "/") + "/" + url.PathEscape(bucket) + "/"
	if !strings.HasPrefix(imageURL, prefix) {
		return "", false
	}
	objectName := strings.TrimPrefix(imageURL, prefix)
	return objectName, objectName != ""
}
