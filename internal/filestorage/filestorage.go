// Package filestorage stores uploaded images and export files in MinIO
// or S3.
package filestorage

import (
	"context"
	"fmt"
	"os"

	consts "github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/usecase"
)

// FromEnv returns the provider named by FILE_STORAGE_PROVIDER, or nil
// when none is configured.
func FromEnv(ctx context.Context) (usecase.FileStorageProvider, error) {
	switch p := os.Getenv(consts.ENV_KEY_FILE_STORAGE_PROVIDER); p {
	case "":
		return nil, nil
	case consts.FILE_STORAGE_MINIO:
		m, err := NewMinIOStorage(
			os.Getenv(consts.ENV_KEY_MINIO_BUCKET),
			os.Getenv(consts.ENV_KEY_MINIO_PUBLIC_PATH),
			os.Getenv(consts.ENV_KEY_MINIO_ENDPOINT),
			os.Getenv(consts.ENV_KEY_MINIO_ACCESS_KEY),
			os.Getenv(consts.ENV_KEY_MINIO_SECRET_KEY),
		)
		if err != nil {
			return nil, err
		}
		return m, nil
	case consts.FILE_STORAGE_S3:
		s, err := New(ctx,
			os.Getenv(consts.ENV_KEY_S3_BUCKET),
			os.Getenv(consts.ENV_KEY_S3_REGION),
			os.Getenv(consts.ENV_KEY_S3_PUBLIC_PATH),
		)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("filestorage: unknown provider %q", p)
	}
}
