package server

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/usecase"
)

// Service is what the handlers need from the usecase layer.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are store-specific.
	Health() map[string]string

	// Close releases the asset store.
	Close() error

	ListAssets(context.Context, usecase.ListAssetsOption) ([]usecase.Asset, error)
	GetAssetByID(context.Context, int) (usecase.Asset, error)
	CreateAsset(context.Context, usecase.Asset) (usecase.Asset, error)
	UpdateAsset(context.Context, int, usecase.AssetPatch) (usecase.Asset, error)
	DeleteAsset(context.Context, int) error
	GetAssetSummary(context.Context) (usecase.AssetSummary, error)
	GetAssetLabel(ctx context.Context, id int, size int) ([]byte, error)

	AnalyzeImage(context.Context, usecase.AnalyzeImageOption) (usecase.ImageAnalysis, error)

	SubscribeAssetEvents(context.Context) (<-chan usecase.AssetEvent, func(), error)

	ExportAssets(context.Context, usecase.ExportAssetsOption) (uuid.UUID, error)
	GetJob(context.Context, uuid.UUID) (usecase.Job, error)
}

type Server struct {
	server      Service
	validator   *validator.Validate
	logger      *slog.Logger
	// requests per second per client on the analyze endpoint
	analyzeRate int
}

func NewServer(sv Service, logger *slog.Logger) *Server {
	analyzeRate := config.DEFAULT_ANALYZE_RATE
	if n, err := strconv.Atoi(os.Getenv(config.ENV_KEY_ANALYZE_RATE_LIMIT)); err == nil && n > 0 {
		analyzeRate = n
	}

	return &Server{
		server:      sv,
		validator:   validator.New(),
		logger:      logger,
		analyzeRate: analyzeRate,
	}
}
