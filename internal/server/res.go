package server

import (
	"errors"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/labstack/echo/v4"
)

type Meta struct {
	Total  int  `json:"total"`
	Skip   int  `json:"skip"`
	Limit  int  `json:"limit"`
	Unread *int `json:"unread,omitempty"`
}

type Res struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// errJSON is the single mapping point from domain errors to HTTP
// statuses. Unknown errors become a generic 500; their detail stays in
// the logs.
func (s *Server) errJSON(ctx echo.Context, err error) error {
	var (
		unauthenticated usecase.ErrUnauthenticated
		forbidden       usecase.ErrForbidden
		notFound        usecase.ErrNotFound
		validation      usecase.ErrValidation
		conflict        usecase.ErrConflict
	)

	switch {
	case errors.As(err, &unauthenticated):
		return ctx.JSON(401, Res{Error: unauthenticated.Error()})
	case errors.As(err, &forbidden):
		return ctx.JSON(403, Res{Error: forbidden.Error()})
	case errors.As(err, &notFound):
		return ctx.JSON(404, Res{Error: notFound.Error()})
	case errors.As(err, &validation):
		return ctx.JSON(400, Res{Error: validation.Error()})
	case errors.As(err, &conflict):
		return ctx.JSON(409, Res{Error: conflict.Error()})
	}

	ctx.Logger().Error(err)
	return ctx.JSON(500, Res{Error: "internal server error"})
}

// errJSONConflict400 downgrades conflicts to 400 for the assignment
// endpoints, matching their established API contract.
func (s *Server) errJSONConflict400(ctx echo.Context, err error) error {
	var conflict usecase.ErrConflict
	if errors.As(err, &conflict) {
		return ctx.JSON(400, Res{Error: conflict.Error()})
	}
	return s.errJSON(ctx, err)
}
