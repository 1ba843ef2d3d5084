package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/librarease/assetvault/internal/usecase"
)

// createdAtLayout matches JavaScript's Date.toISOString.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

type Asset struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	EstimatedValue int      `json:"estimatedValue"`
	Confidence     int      `json:"confidence"`
	ImageURL       string   `json:"imageUrl"`
	ImageData      *string  `json:"imageData"`
	PurchaseDate   *string  `json:"purchaseDate"`
	Notes          *string  `json:"notes"`
	Colors         []string `json:"colors,omitempty"`
	CreatedAt      string   `json:"createdAt"`
}

func toAsset(a usecase.Asset) Asset {
	return Asset{
		ID:             a.ID,
		Name:           a.Name,
		Category:       a.Category,
		EstimatedValue: a.EstimatedValue,
		Confidence:     a.Confidence,
		ImageURL:       a.ImageURL,
		ImageData:      a.ImageData,
		PurchaseDate:   a.PurchaseDate,
		Notes:          a.Notes,
		Colors:         a.Colors,
		CreatedAt:      a.CreatedAt.UTC().Format(createdAtLayout),
	}
}

type ListAssetsRequest struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	Sort     string `query:"sort" validate:"omitempty,oneof=value-high value-low name date-new date-old"`
}

func (s *Server) ListAssets(ctx echo.Context) error {
	var req ListAssetsRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := s.validator.Struct(req); err != nil {
		return badRequest(ctx, err)
	}

	assets, err := s.server.ListAssets(ctx.Request().Context(), usecase.ListAssetsOption{
		Search:   req.Search,
		Category: req.Category,
		SortBy:   req.Sort,
	})
	if err != nil {
		return s.respondError(ctx, err, "Failed to fetch assets")
	}

	list := make([]Asset, 0, len(assets))
	for _, a := range assets {
		list = append(list, toAsset(a))
	}

	return ctx.JSON(http.StatusOK, list)
}

type AssetIDRequest struct {
	ID int `param:"id" validate:"required,gte=1"`
}

func (s *Server) GetAssetByID(ctx echo.Context) error {
	var req AssetIDRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := s.validator.Struct(req); err != nil {
		return badRequest(ctx, err)
	}

	a, err := s.server.GetAssetByID(ctx.Request().Context(), req.ID)
	if err != nil {
		return s.respondError(ctx, err, "Failed to fetch asset")
	}

	return ctx.JSON(http.StatusOK, toAsset(a))
}

type CreateAssetRequest struct {
	Name           string   `json:"name" validate:"required"`
	Category       string   `json:"category" validate:"required,oneof=Electronics Furniture Jewelry Fashion Sports Other"`
	EstimatedValue *int     `json:"estimatedValue" validate:"required,gte=0"`
	Confidence     *int     `json:"confidence" validate:"omitempty,gte=0,lte=100"`
	ImageURL       string   `json:"imageUrl" validate:"required"`
	ImageData      *string  `json:"imageData"`
	PurchaseDate   *string  `json:"purchaseDate"`
	Notes          *string  `json:"notes"`
	Colors         []string `json:"colors" validate:"omitempty,max=8,dive,hexcolor"`
}

func (s *Server) CreateAsset(ctx echo.Context) error {
	var req CreateAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := s.validator.Struct(req); err != nil {
		return badRequest(ctx, err)
	}

	var confidence int
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	a, err := s.server.CreateAsset(ctx.Request().Context(), usecase.Asset{
		Name:           req.Name,
		Category:       req.Category,
		EstimatedValue: *req.EstimatedValue,
		Confidence:     confidence,
		ImageURL:       req.ImageURL,
		ImageData:      req.ImageData,
		PurchaseDate:   req.PurchaseDate,
		Notes:          req.Notes,
		Colors:         req.Colors,
	})
	if err != nil {
		return s.respondError(ctx, err, "Failed to create asset")
	}

	return ctx.JSON(http.StatusCreated, toAsset(a))
}

// UpdateAssetRequest accepts any subset of the insertable fields. A
// field that is absent or null is left unchanged.
type UpdateAssetRequest struct {
	ID             int      `param:"id" json:"-" validate:"required,gte=1"`
	Name           *string  `json:"name" validate:"omitempty,min=1"`
	Category       *string  `json:"category" validate:"omitempty,oneof=Electronics Furniture Jewelry Fashion Sports Other"`
	EstimatedValue *int     `json:"estimatedValue" validate:"omitempty,gte=0"`
	Confidence     *int     `json:"confidence" validate:"omitempty,gte=0,lte=100"`
	ImageURL       *string  `json:"imageUrl" validate:"omitempty,min=1"`
	ImageData      *string  `json:"imageData"`
	PurchaseDate   *string  `json:"purchaseDate"`
	Notes          *string  `json:"notes"`
	Colors         []string `json:"colors" validate:"omitempty,max=8,dive,hexcolor"`
}

func (s *Server) UpdateAsset(ctx echo.Context) error {
	var req UpdateAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := s.validator.Struct(req); err != nil {
		return badRequest(ctx, err)
	}

	patch := usecase.AssetPatch{
		Name:           req.Name,
		Category:       req.Category,
		EstimatedValue: req.EstimatedValue,
		Confidence:     req.Confidence,
		ImageURL:       req.ImageURL,
		ImageData:      req.ImageData,
		PurchaseDate:   req.PurchaseDate,
		Notes:          req.Notes,
	}
	if req.Colors != nil {
		patch.Colors = &req.Colors
	}

	a, err := s.server.UpdateAsset(ctx.Request().Context(), req.ID, patch)
	if err != nil {
		return s.respondError(ctx, err, "Failed to update asset")
	}

	return ctx.JSON(http.StatusOK, toAsset(a))
}

func (s *Server) DeleteAsset(ctx echo.Context) error {
	var req AssetIDRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := s.validator.Struct(req); err != nil {
		return badRequest(ctx, err)
	}

	if err := s.server.DeleteAsset(ctx.Request().Context(), req.ID); err != nil {
		return s.respondError(ctx, err, "Failed to delete asset")
	}

	return ctx.NoContent(http.StatusNoContent)
}

type AssetSummary struct {
	TotalItems int `json:"totalItems"`
	TotalValue int `json:"totalValue"`
	AvgValue   int `json:"avgValue"`
	Categories int `json:"categories"`
}

func (s *Server) GetAssetSummary(ctx echo.Context) error {
	sum, err := s.server.GetAssetSummary(ctx.Request().Context())
	if err != nil {
		return s.respondError(ctx, err, "Failed to fetch summary")
	}

	return ctx.JSON(http.StatusOK, AssetSummary{
		TotalItems: sum.TotalItems,
		TotalValue: sum.TotalValue,
		AvgValue:   sum.AvgValue,
		Categories: sum.Categories,
	})
}

type GetAssetLabelRequest struct {
	ID   int `param:"id" validate:"required,gte=1"`
	Size int `query:"size" validate:"omitempty,gte=64,lte=1024"`
}

func (s *Server) GetAssetLabel(ctx echo.Context) error {
	var req GetAssetLabelRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := s.validator.Struct(req); err != nil {
		return badRequest(ctx, err)
	}

	png, err := s.server.GetAssetLabel(ctx.Request().Context(), req.ID, req.Size)
	if err != nil {
		return s.respondError(ctx, err, "Failed to render label")
	}

	ctx.Response().Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(time.Hour.Seconds())))
	return ctx.Blob(http.StatusOK, "image/png", png)
}
