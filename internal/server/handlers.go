package server

import "github.com/labstack/echo/v4"

func (s *Server) healthHandler(ctx echo.Context) error {
	stats := s.server.Health()
	if stats["status"] != "up" {
		return ctx.JSON(503, stats)
	}
	return ctx.JSON(200, stats)
}
