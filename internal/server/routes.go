package server

import (
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/time/rate"

	"github.com/librarease/assetvault/internal/config"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true

	serviceName := os.Getenv(config.ENV_KEY_OTEL_SERVICE_NAME)
	if serviceName == "" {
		serviceName = config.DEFAULT_SERVICE_NAME
	}
	e.Use(otelecho.Middleware(serviceName))
	e.Use(middleware.RequestID())
	e.Use(NewEchoLogger(s.logger))
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"https://*", "http://*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Accept-Language", "Content-Type"},
		MaxAge:       300,
	}))

	e.GET("/api/health", s.healthHandler)

	var assetGroup = e.Group("/api/assets")
	assetGroup.GET("", s.ListAssets)
	assetGroup.POST("", s.CreateAsset)
	assetGroup.GET("/stats/summary", s.GetAssetSummary)
	assetGroup.GET("/events", s.StreamAssetEvents)
	assetGroup.POST("/exports", s.ExportAssets)
	assetGroup.GET("/exports/:id", s.GetExportJob)
	assetGroup.POST("/analyze", s.AnalyzeImage,
		middleware.BodyLimit(analyzeBodyLimit),
		s.analyzeRateLimiter(),
	)
	assetGroup.GET("/:id", s.GetAssetByID)
	assetGroup.PUT("/:id", s.UpdateAsset)
	assetGroup.DELETE("/:id", s.DeleteAsset)
	assetGroup.GET("/:id/label", s.GetAssetLabel)

	return e
}

// a little over the upload limit so the multipart envelope fits
const analyzeBodyLimit = "11M"

func (s *Server) analyzeRateLimiter() echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(s.analyzeRate),
			Burst:     s.analyzeRate * 2,
			ExpiresIn: 3 * time.Minute,
		}),
		DenyHandler: func(ctx echo.Context, _ string, _ error) error {
			return ctx.JSON(http.StatusTooManyRequests, ErrorRes{
				Error:   "rate_limited",
				Message: "Too many analysis requests, slow down",
			})
		},
	})
}
