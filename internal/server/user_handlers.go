package server

import (
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	DeletedAt *string `json:"deleted_at,omitempty"`
}

func ConvertUser(u usecase.User) User {
	var d *string
	if u.DeletedAt != nil {
		tmp := u.DeletedAt.UTC().Format(time.RFC3339)
		d = &tmp
	}
	return User{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
		DeletedAt: d,
	}
}

type ListUsersRequest struct {
	Skip   int    `query:"skip"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	SortBy string `query:"sort_by" validate:"omitempty,oneof=created_at updated_at name email"`
	SortIn string `query:"sort_in" validate:"omitempty,oneof=ASC DESC"`

	Name  string `query:"name"`
	Email string `query:"email"`
	Role  string `query:"role" validate:"omitempty,oneof=USER MANAGER SUPER_ADMIN"`
}

func (s *Server) ListUsers(ctx echo.Context) error {
	var req ListUsersRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	users, total, err := s.server.ListUsers(ctx.Request().Context(), usecase.ListUsersOption{
		Skip:   req.Skip,
		Limit:  req.Limit,
		SortBy: req.SortBy,
		SortIn: req.SortIn,
		Name:   req.Name,
		Email:  req.Email,
		Role:   usecase.Role(req.Role),
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	list := make([]User, 0, len(users))
	for _, u := range users {
		list = append(list, ConvertUser(u))
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    list,
		Meta: &Meta{
			Total: total,
			Skip:  req.Skip,
			Limit: req.Limit,
		},
	})
}

func (s *Server) GetUserByID(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid user id"})
	}

	u, err := s.server.GetUserByID(ctx.Request().Context(), id)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertUser(u),
	})
}

type ChangeUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER MANAGER SUPER_ADMIN"`
}

func (s *Server) ChangeUserRole(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid user id"})
	}

	var req ChangeUserRoleRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	u, err := s.server.ChangeUserRole(ctx.Request().Context(), id, usecase.Role(req.Role))
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertUser(u),
		Message: "User role updated successfully",
	})
}

func (s *Server) ListUserAssets(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid user id"})
	}

	assignments, total, err := s.server.ListUserAssets(ctx.Request().Context(), id)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	list := make([]AssetAssignment, 0, len(assignments))
	for _, a := range assignments {
		list = append(list, ConvertAssignment(a))
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    list,
		Meta: &Meta{
			Total: total,
		},
	})
}
