package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) healthHandler(ctx echo.Context) error {
	stats := s.server.Health()
	code := http.StatusOK
	if stats["status"] != "up" {
		code = http.StatusServiceUnavailable
	}
	return ctx.JSON(code, stats)
}
