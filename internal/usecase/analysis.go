package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"path"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/librarease/assetvault/internal/analyzer"
	"github.com/librarease/assetvault/internal/config"
)

type AnalyzeImageOption struct {
	Filename    string
	ContentType string
	Data        []byte
	Lang        string
}

type ImageAnalysis struct {
	ImageURL  string
	ImageData string
	Analysis  analyzer.Result
	Colors    []string
}

// DetectContentType returns the media type of an upload without
// parameters. The declared type wins unless it is missing or generic.
func DetectContentType(declared string, data []byte) string {
	ct := strings.TrimSpace(declared)
	if ct == "" || ct == "application/octet-stream" {
		ct = mimetype.Detect(data).String()
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// ValidateUpload rejects payloads that must never reach the analyzer.
func ValidateUpload(size int64, contentType string) error {
	if size > config.MAX_UPLOAD_SIZE {
		return ErrFileTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return ErrUnsupportedMedia
	}
	return nil
}

func (u Usecase) AnalyzeImage(ctx context.Context, opt AnalyzeImageOption) (ImageAnalysis, error) {
	contentType := DetectContentType(opt.ContentType, opt.Data)
	if err := ValidateUpload(int64(len(opt.Data)), contentType); err != nil {
		return ImageAnalysis{}, err
	}

	imageData := base64.StdEncoding.EncodeToString(opt.Data)
	res := ImageAnalysis{
		ImageURL:  "data:" + contentType + ";base64," + imageData,
		ImageData: imageData,
		Analysis:  analyzer.Analyze([]byte(imageData), opt.Lang),
	}

	var (
		publicURL string
		colors    []string
	)

	g, gctx := errgroup.WithContext(ctx)

	if u.fileStorageProvider != nil {
		g.Go(func() error {
			url, err := u.storeUpload(gctx, opt.Filename, contentType, opt.Data)
			if err != nil {
				// keep the data URI
				u.logger.WarnContext(ctx, "store upload", slog.String("err", err.Error()))
				return nil
			}
			publicURL = url
			return nil
		})
	}

	g.Go(func() error {
		c, err := ExtractColors(opt.Data)
		if err != nil {
			u.logger.DebugContext(ctx, "extract colors", slog.String("err", err.Error()))
			return nil
		}
		colors = c
		return nil
	})

	if err := g.Wait(); err != nil {
		return ImageAnalysis{}, err
	}

	if publicURL != "" {
		res.ImageURL = publicURL
	}
	res.Colors = colors

	return res, nil
}

func (u Usecase) storeUpload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		if m := mimetype.Lookup(contentType); m != nil {
			ext = m.Extension()
		}
	}

	key := fmt.Sprintf("uploads/%s%s", uuid.NewString(), ext)
	if err := u.fileStorageProvider.UploadFile(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	publicURL, err := u.fileStorageProvider.GetPublicURL(ctx)
	if err != nil {
		return "", err
	}
	return publicURL + "/" + key, nil
}

// ExtractColors returns up to four dominant colours of an encoded image
// as hex strings.
func ExtractColors(data []byte) ([]string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	dColors := dominantcolor.FindN(img, 4)
	colors := make([]string, 0, len(dColors))
	for _, c := range dColors {
		colors = append(colors, dominantcolor.Hex(c))
	}
	return colors, nil
}
