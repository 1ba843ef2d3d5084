package usecase_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarease/assetvault/internal/analyzer"
	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/memstore"
	"github.com/librarease/assetvault/internal/usecase"
)

type fakeStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	types     map[string]string
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) UploadFile(_ context.Context, path string, data []byte, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = data
	f.types[path] = contentType
	return nil
}

func (f *fakeStorage) GetPublicURL(context.Context) (string, error) {
	return "https://cdn.example.com/assets", nil
}

func (f *fakeStorage) GetPresignedURL(_ context.Context, path string) (string, error) {
	return "https://cdn.example.com/assets/" + path + "?sig=abc", nil
}

func (f *fakeStorage) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.files))
	for p := range f.files {
		out = append(out, p)
	}
	return out
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := range 16 {
		for y := range 16 {
			c := color.RGBA{R: 200, G: 30, B: 30, A: 255}
			if x >= 8 {
				c = color.RGBA{R: 20, G: 40, B: 220, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAnalyzeImage_DataURIWithoutStorage(t *testing.T) {
	uc := usecase.New(memstore.New(), nil, nil, nil, nil)
	data := pngBytes(t)

	res, err := uc.AnalyzeImage(context.Background(), usecase.AnalyzeImageOption{
		Filename:    "photo.png",
		ContentType: "image/png",
		Data:        data,
	})
	require.NoError(t, err)

	b64 := base64.StdEncoding.EncodeToString(data)
	assert.Equal(t, b64, res.ImageData)
	assert.Equal(t, "data:image/png;base64,"+b64, res.ImageURL)
	assert.Equal(t, analyzer.Analyze([]byte(b64), ""), res.Analysis)
	for _, c := range res.Colors {
		assert.True(t, strings.HasPrefix(c, "#"), c)
	}
}

func TestAnalyzeImage_Deterministic(t *testing.T) {
	uc := usecase.New(memstore.New(), nil, nil, nil, nil)
	data := pngBytes(t)
	opt := usecase.AnalyzeImageOption{ContentType: "image/png", Data: data}

	first, err := uc.AnalyzeImage(context.Background(), opt)
	require.NoError(t, err)
	second, err := uc.AnalyzeImage(context.Background(), opt)
	require.NoError(t, err)

	assert.Equal(t, first.Analysis, second.Analysis)
	assert.GreaterOrEqual(t, first.Analysis.EstimatedValue, analyzer.MinValue)
	assert.GreaterOrEqual(t, first.Analysis.Confidence, analyzer.MinConfidence)
	assert.LessOrEqual(t, first.Analysis.Confidence, analyzer.MaxConfidence)
}

func TestAnalyzeImage_Japanese(t *testing.T) {
	uc := usecase.New(memstore.New(), nil, nil, nil, nil)
	data := pngBytes(t)

	en, err := uc.AnalyzeImage(context.Background(), usecase.AnalyzeImageOption{ContentType: "image/png", Data: data})
	require.NoError(t, err)
	ja, err := uc.AnalyzeImage(context.Background(), usecase.AnalyzeImageOption{ContentType: "image/png", Data: data, Lang: "ja"})
	require.NoError(t, err)

	assert.Equal(t, en.Analysis.Category, ja.Analysis.Category)
	assert.Equal(t, en.Analysis.EstimatedValue, ja.Analysis.EstimatedValue)
	assert.NotEqual(t, en.Analysis.Name, ja.Analysis.Name)
}

func TestAnalyzeImage_UploadsToStorage(t *testing.T) {
	storage := newFakeStorage()
	uc := usecase.New(memstore.New(), storage, nil, nil, nil)

	res, err := uc.AnalyzeImage(context.Background(), usecase.AnalyzeImageOption{
		Filename:    "photo.PNG",
		ContentType: "image/png",
		Data:        pngBytes(t),
	})
	require.NoError(t, err)

	paths := storage.paths()
	require.Len(t, paths, 1)
	assert.True(t, strings.HasPrefix(paths[0], "uploads/"))
	assert.True(t, strings.HasSuffix(paths[0], ".png"))
	assert.Equal(t, "https://cdn.example.com/assets/"+paths[0], res.ImageURL)
	assert.NotEmpty(t, res.ImageData)
}

func TestAnalyzeImage_UploadFailureFallsBackToDataURI(t *testing.T) {
	storage := newFakeStorage()
	storage.uploadErr = errors.New("bucket unreachable")
	uc := usecase.New(memstore.New(), storage, nil, nil, nil)

	res, err := uc.AnalyzeImage(context.Background(), usecase.AnalyzeImageOption{
		ContentType: "image/png",
		Data:        pngBytes(t),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.ImageURL, "data:image/png;base64,"))
}

func TestAnalyzeImage_Rejects(t *testing.T) {
	uc := usecase.New(memstore.New(), nil, nil, nil, nil)

	t.Run("not an image", func(t *testing.T) {
		_, err := uc.AnalyzeImage(context.Background(), usecase.AnalyzeImageOption{
			ContentType: "text/plain",
			Data:        []byte("hello"),
		})
		assert.ErrorIs(t, err, usecase.ErrUnsupportedMedia)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := uc.AnalyzeImage(context.Background(), usecase.AnalyzeImageOption{
			ContentType: "image/jpeg",
			Data:        make([]byte, config.MAX_UPLOAD_SIZE+1),
		})
		assert.ErrorIs(t, err, usecase.ErrFileTooLarge)
	})
}

func TestDetectContentType(t *testing.T) {
	data := pngBytes(t)

	assert.Equal(t, "image/png", usecase.DetectContentType("", data))
	assert.Equal(t, "image/png", usecase.DetectContentType("application/octet-stream", data))
	assert.Equal(t, "image/jpeg", usecase.DetectContentType("Image/JPEG; charset=binary", data))
	assert.Equal(t, "text/plain", usecase.DetectContentType("", []byte("just some text")))
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, usecase.ValidateUpload(10, "image/webp"))
	assert.NoError(t, usecase.ValidateUpload(config.MAX_UPLOAD_SIZE, "image/png"))
	assert.ErrorIs(t, usecase.ValidateUpload(config.MAX_UPLOAD_SIZE+1, "image/png"), usecase.ErrFileTooLarge)
	assert.ErrorIs(t, usecase.ValidateUpload(10, "application/pdf"), usecase.ErrUnsupportedMedia)
}

func TestExtractColors(t *testing.T) {
	_, err := usecase.ExtractColors([]byte("not an image"))
	assert.Error(t, err)

	colors, err := usecase.ExtractColors(pngBytes(t))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(colors), 4)
}
