package filestorage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consts "github.com/librarease/assetvault/internal/config"
)

func TestFromEnv(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv(consts.ENV_KEY_FILE_STORAGE_PROVIDER, "")
		p, err := FromEnv(context.Background())
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv(consts.ENV_KEY_FILE_STORAGE_PROVIDER, "ftp")
		_, err := FromEnv(context.Background())
		assert.Error(t, err)
	})

	t.Run("minio", func(t *testing.T) {
		t.Setenv(consts.ENV_KEY_FILE_STORAGE_PROVIDER, consts.FILE_STORAGE_MINIO)
		t.Setenv(consts.ENV_KEY_MINIO_ENDPOINT, "http://localhost:9000")
		t.Setenv(consts.ENV_KEY_MINIO_BUCKET, "assets")
		t.Setenv(consts.ENV_KEY_MINIO_PUBLIC_PATH, "/public/")
		t.Setenv(consts.ENV_KEY_MINIO_ACCESS_KEY, "key")
		t.Setenv(consts.ENV_KEY_MINIO_SECRET_KEY, "secret")

		p, err := FromEnv(context.Background())
		require.NoError(t, err)

		url, err := p.GetPublicURL(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/assets/public", url)
	})
}

func TestS3PublicURL(t *testing.T) {
	f := &FileStorage{bucket: "vault", region: "ap-northeast-1", publicPath: "img"}

	url, err := f.GetPublicURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://vault.s3.ap-northeast-1.amazonaws.com/img", url)
	assert.Equal(t, "img/uploads/a.png", f.key("uploads/a.png"))
}
