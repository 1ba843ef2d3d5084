package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/librarease/assetvault/internal/usecase"
)

// ErrorRes is the body of every non-2xx JSON response.
type ErrorRes struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, ErrorRes{
		Error:   "invalid_request",
		Message: validationMessage(err),
	})
}

// validationMessage lists the failing fields of a validator error in a
// form a person can act on.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if m, ok := he.Message.(string); ok {
				return m
			}
		}
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "oneof":
			parts = append(parts, fe.Field()+" must be one of: "+fe.Param())
		default:
			parts = append(parts, fe.Field()+" failed "+fe.Tag()+" "+fe.Param())
		}
	}
	return strings.TrimSpace(strings.Join(parts, "; "))
}

// respondError maps usecase errors to status codes. Anything unexpected
// is logged and answered with a generic 500.
func (s *Server) respondError(ctx echo.Context, err error, msg string) error {
	var nf usecase.ErrNotFound
	switch {
	case errors.As(err, &nf):
		return ctx.JSON(http.StatusNotFound, ErrorRes{Error: nf.Code, Message: nf.Message})
	case errors.Is(err, usecase.ErrUnsupportedMedia), errors.Is(err, usecase.ErrFileTooLarge):
		return ctx.JSON(http.StatusBadRequest, ErrorRes{Error: "invalid_upload", Message: err.Error()})
	case errors.Is(err, usecase.ErrQueueUnavailable), errors.Is(err, usecase.ErrStorageUnavailable):
		return ctx.JSON(http.StatusServiceUnavailable, ErrorRes{Error: "unavailable", Message: err.Error()})
	}

	s.logger.ErrorContext(ctx.Request().Context(), msg,
		slog.String("err", err.Error()),
		slog.String("uri", ctx.Request().RequestURI),
	)
	return ctx.JSON(http.StatusInternalServerError, ErrorRes{Error: "internal_error", Message: msg})
}
