package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	consts "github.com/librarease/assetvault/internal/config"
)

type FileStorage struct {
	client     *s3.Client
	bucket     string
	region     string
	publicPath string
}

// New loads AWS credentials from the default chain.
func New(ctx context.Context, bucket, region, publicPath string) (*FileStorage, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: %w", err)
	}
	return &FileStorage{
		client:     s3.NewFromConfig(cfg),
		bucket:     bucket,
		region:     cfg.Region,
		publicPath: strings.Trim(publicPath, "/"),
	}, nil
}

func (f *FileStorage) key(name string) string {
	if f.publicPath == "" {
		return name
	}
	return f.publicPath + "/" + name
}

func (f *FileStorage) UploadFile(ctx context.Context, path string, data []byte, contentType string) error {
	key := f.key(path)
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &f.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	return err
}

func (f *FileStorage) GetPresignedURL(ctx context.Context, path string) (string, error) {
	var (
		key           = f.key(path)
		presignClient = s3.NewPresignClient(f.client)
	)
	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &f.bucket,
		Key:    &key,
	}, func(po *s3.PresignOptions) {
		po.Expires = time.Minute * consts.PRESIGN_URL_EXPIRE_MINUTES
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (f *FileStorage) GetPublicURL(_ context.Context) (string, error) {
	base := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", f.bucket, f.region)
	if f.publicPath == "" {
		return base, nil
	}
	return base + "/" + f.publicPath, nil
}
