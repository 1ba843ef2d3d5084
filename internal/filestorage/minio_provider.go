package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	consts "github.com/librarease/assetvault/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinIOStorage accepts an endpoint with or without scheme; an explicit
// http:// disables TLS.
func NewMinIOStorage(bucket, publicPath, endpoint, accessKeyID, secretAccessKey string) (*MinIOStorage, error) {
	secure := !strings.HasPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "http://"), "https://")

	m, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	return &MinIOStorage{
		client:     m,
		bucket:     bucket,
		publicPath: strings.Trim(publicPath, "/"),
	}, nil
}

type MinIOStorage struct {
	client     *minio.Client
	bucket     string
	publicPath string
}

func (f *MinIOStorage) key(name string) string {
	if f.publicPath == "" {
		return name
	}
	return f.publicPath + "/" + name
}

func (f *MinIOStorage) GetPublicURL(_ context.Context) (string, error) {
	if f.publicPath == "" {
		return fmt.Sprintf("%s/%s", f.client.EndpointURL(), f.bucket), nil
	}
	return fmt.Sprintf("%s/%s/%s", f.client.EndpointURL(), f.bucket, f.publicPath), nil
}

func (f *MinIOStorage) UploadFile(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := f.client.PutObject(ctx, f.bucket, f.key(path), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (f *MinIOStorage) GetPresignedURL(ctx context.Context, path string) (string, error) {
	u, err := f.client.PresignedGetObject(ctx, f.bucket, f.key(path), time.Minute*consts.PRESIGN_URL_EXPIRE_MINUTES, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
