package server

import (
	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/labstack/echo/v4"
)

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	// Role is passed through as-is; anything that does not parse into
	// the role enum falls back to USER downstream.
	Role string `json:"role"`
}

func (s *Server) RegisterUser(ctx echo.Context) error {
	var req RegisterUserRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	u, err := s.server.RegisterUser(ctx.Request().Context(), usecase.RegisterUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(201, Res{
		Success: true,
		Data:    ConvertUser(u),
	})
}

func (s *Server) GetMe(ctx echo.Context) error {
	u, err := s.server.GetMe(ctx.Request().Context())
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertUser(u),
	})
}
