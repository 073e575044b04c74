package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AttachmentStore turns uploaded files into durable reference URLs for
// identity-document scans, profile pictures and room pictures.
type AttachmentStore interface {
	Save(ctx context.Context, fh *multipart.FileHeader, folder string) (string, error)
}

// MinioAttachmentStore keeps attachments in a MinIO/S3-compatible bucket.
type MinioAttachmentStore struct {
	client *minio.Client
	bucket string
}

// NewMinioAttachmentStore connects to MinIO and ensures the bucket exists.
func NewMinioAttachmentStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioAttachmentStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioAttachmentStore{client: client, bucket: bucket}, nil
}

func attachmentKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return folder + "/" + uuid.NewString() + ext
}

// Save uploads the file and returns its object URL.
func (m *MinioAttachmentStore) Save(ctx context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open upload: %v", ErrUploadFailed, err)
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := attachmentKey(folder, fh.Filename)
	_, err = m.client.PutObject(ctx, m.bucket, key, f, fh.Size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("%w: put object %s: %v", ErrUploadFailed, key, err)
	}

	base := strings.TrimRight(m.client.EndpointURL().String(), "/")
	return base + "/" + m.bucket + "/" + key, nil
}
