package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/librarease/assetvault/internal/analyzer"
	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/usecase"
)

type Analysis struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	EstimatedValue int    `json:"estimatedValue"`
	Confidence     int    `json:"confidence"`
}

type AnalyzeImageRes struct {
	ImageURL  string   `json:"imageUrl"`
	ImageData string   `json:"imageData"`
	Analysis  Analysis `json:"analysis"`
	Colors    []string `json:"colors,omitempty"`
}

type AnalyzeImageRequest struct {
	Lang           string `query:"lang"`
	AcceptLanguage string `header:"Accept-Language"`
}

func (s *Server) AnalyzeImage(ctx echo.Context) error {
	var req AnalyzeImageRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &req); err != nil {
		return badRequest(ctx, err)
	}
	if err := (&echo.DefaultBinder{}).BindHeaders(ctx, &req); err != nil {
		return badRequest(ctx, err)
	}

	fh, err := ctx.FormFile("image")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorRes{
			Error:   "invalid_upload",
			Message: "No image file provided",
		})
	}

	// reject before reading the payload when the part header already
	// tells us it cannot pass
	declared := fh.Header.Get(echo.HeaderContentType)
	if err := usecase.ValidateUpload(fh.Size, precheckType(declared)); err != nil {
		return s.respondError(ctx, err, "Failed to analyze image")
	}

	f, err := fh.Open()
	if err != nil {
		return s.respondError(ctx, err, "Failed to analyze image")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, config.MAX_UPLOAD_SIZE+1))
	if err != nil {
		return s.respondError(ctx, err, "Failed to analyze image")
	}

	lang := req.Lang
	if lang == "" {
		lang = req.AcceptLanguage
	}
	if analyzer.IsJapanese(lang) {
		lang = "ja"
	}

	res, err := s.server.AnalyzeImage(ctx.Request().Context(), usecase.AnalyzeImageOption{
		Filename:    fh.Filename,
		ContentType: declared,
		Data:        data,
		Lang:        lang,
	})
	if err != nil {
		return s.respondError(ctx, err, "Failed to analyze image")
	}

	return ctx.JSON(http.StatusOK, AnalyzeImageRes{
		ImageURL:  res.ImageURL,
		ImageData: res.ImageData,
		Analysis: Analysis{
			Name:           res.Analysis.Name,
			Category:       res.Analysis.Category,
			EstimatedValue: res.Analysis.EstimatedValue,
			Confidence:     res.Analysis.Confidence,
		},
		Colors: res.Colors,
	})
}

// precheckType lets a missing or generic part type through to content
// sniffing and otherwise returns the declared media type.
func precheckType(declared string) string {
	ct := strings.ToLower(strings.TrimSpace(declared))
	if ct == "" || strings.HasPrefix(ct, "application/octet-stream") {
		return "image/*"
	}
	return ct
}
