package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/librarease/assetvault/internal/usecase"
)

type ExportAssetsRequest struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Sort     string `json:"sort" validate:"omitempty,oneof=value-high value-low name date-new date-old"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type ExportAssetsRes struct {
	ID string `json:"id"`
}

func (s *Server) ExportAssets(ctx echo.Context) error {
	var req ExportAssetsRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := s.validator.Struct(req); err != nil {
		return badRequest(ctx, err)
	}

	id, err := s.server.ExportAssets(ctx.Request().Context(), usecase.ExportAssetsOption{
		Search:   req.Search,
		Category: req.Category,
		SortBy:   req.Sort,
		Email:    req.Email,
	})
	if err != nil {
		return s.respondError(ctx, err, "Failed to start export")
	}

	return ctx.JSON(http.StatusAccepted, ExportAssetsRes{ID: id.String()})
}

type Job struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type GetJobRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (s *Server) GetExportJob(ctx echo.Context) error {
	var req GetJobRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := s.validator.Struct(req); err != nil {
		return badRequest(ctx, err)
	}

	id, _ := uuid.Parse(req.ID)
	job, err := s.server.GetJob(ctx.Request().Context(), id)
	if err != nil {
		return s.respondError(ctx, err, "Failed to fetch job")
	}

	j := Job{
		ID:     job.ID.String(),
		Type:   job.Type,
		Status: job.Status,
		Error:  job.Error,
	}
	if json.Valid(job.Result) {
		j.Result = job.Result
	}

	return ctx.JSON(http.StatusOK, j)
}
