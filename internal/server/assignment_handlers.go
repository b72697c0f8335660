package server

import (
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AssetAssignment struct {
	ID         string  `json:"id"`
	AssetID    string  `json:"asset_id"`
	UserID     string  `json:"user_id"`
	AssignedAt string  `json:"assigned_at"`
	ReturnedAt *string `json:"returned_at,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`

	Asset *Asset `json:"asset,omitempty"`
	User  *User  `json:"user,omitempty"`
}

func ConvertAssignment(a usecase.AssetAssignment) AssetAssignment {
	var returnedAt *string
	if a.ReturnedAt != nil {
		tmp := a.ReturnedAt.UTC().Format(time.RFC3339)
		returnedAt = &tmp
	}

	asg := AssetAssignment{
		ID:         a.ID.String(),
		AssetID:    a.AssetID.String(),
		UserID:     a.UserID.String(),
		AssignedAt: a.AssignedAt.UTC().Format(time.RFC3339),
		ReturnedAt: returnedAt,
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  a.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if a.Asset != nil {
		asset := ConvertAsset(*a.Asset)
		asg.Asset = &asset
	}
	if a.User != nil {
		user := ConvertUser(*a.User)
		asg.User = &user
	}

	return asg
}

type ListAssignmentsRequest struct {
	Skip   int    `query:"skip"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	SortBy string `query:"sort_by" validate:"omitempty,oneof=assigned_at returned_at created_at"`
	SortIn string `query:"sort_in" validate:"omitempty,oneof=ASC DESC"`

	AssetID  string `query:"asset_id" validate:"omitempty,uuid"`
	UserID   string `query:"user_id" validate:"omitempty,uuid"`
	IsActive bool   `query:"is_active"`
}

func (s *Server) ListAssignments(ctx echo.Context) error {
	var req ListAssignmentsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	var assetID, userID uuid.UUID
	if req.AssetID != "" {
		assetID, _ = uuid.Parse(req.AssetID)
	}
	if req.UserID != "" {
		userID, _ = uuid.Parse(req.UserID)
	}

	assignments, total, err := s.server.ListAssignments(ctx.Request().Context(), usecase.ListAssignmentsOption{
		Skip:     req.Skip,
		Limit:    req.Limit,
		SortBy:   req.SortBy,
		SortIn:   req.SortIn,
		AssetID:  assetID,
		UserID:   userID,
		IsActive: req.IsActive,
	})
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
			Skip:  req.Skip,
			Limit: req.Limit,
		},
	})
}

type AssignAssetRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Notes  string `json:"notes"`
}

func (s *Server) AssignAsset(ctx echo.Context) error {
	assetID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset id"})
	}

	var req AssignAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	userID, _ := uuid.Parse(req.UserID)

	assignment, err := s.server.AssignAsset(ctx.Request().Context(), assetID, userID, req.Notes)
	if err != nil {
		return s.errJSONConflict400(ctx, err)
	}

	return ctx.JSON(201, Res{
		Success: true,
		Data:    ConvertAssignment(assignment),
		Message: "Asset assigned successfully",
	})
}

type ReturnAssetRequest struct {
	Condition string `json:"condition" validate:"omitempty,oneof=GOOD DAMAGED LOST"`
	Notes     string `json:"notes"`
}

func (s *Server) ReturnAsset(ctx echo.Context) error {
	assetID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset id"})
	}

	var req ReturnAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	condition := usecase.ReturnCondition(req.Condition)
	if condition == "" {
		condition = usecase.ConditionGood
	}

	assignment, err := s.server.ReturnAsset(ctx.Request().Context(), assetID, condition, req.Notes)
	if err != nil {
		return s.errJSONConflict400(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertAssignment(assignment),
		Message: "Asset returned successfully",
	})
}

type RevokeAssetRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) RevokeAsset(ctx echo.Context) error {
	assetID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset id"})
	}

	var req RevokeAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	assignment, err := s.server.RevokeAsset(ctx.Request().Context(), assetID, req.Reason)
	if err != nil {
		return s.errJSONConflict400(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertAssignment(assignment),
		Message: "Asset revoked successfully",
	})
}
