package server

import (
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AssetType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	DeletedAt   *string `json:"deleted_at,omitempty"`

	Configurations []AssetConfiguration `json:"configurations,omitempty"`
}

type AssetConfiguration struct {
	ID           string `json:"id"`
	AssetTypeID  string `json:"asset_type_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DataType     string `json:"data_type"`
	Options      string `json:"options,omitempty"`
	IsRequired   bool   `json:"is_required"`
	DefaultValue string `json:"default_value,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func ConvertAssetType(t usecase.AssetType) AssetType {
	var d *string
	if t.DeletedAt != nil {
		tmp := t.DeletedAt.UTC().Format(time.RFC3339)
		d = &tmp
	}
	at := AssetType{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
		DeletedAt:   d,
	}
	for _, c := range t.Configurations {
		at.Configurations = append(at.Configurations, ConvertAssetConfiguration(c))
	}
	return at
}

func ConvertAssetConfiguration(c usecase.AssetConfiguration) AssetConfiguration {
	return AssetConfiguration{
		ID:           c.ID.String(),
		AssetTypeID:  c.AssetTypeID.String(),
		Name:         c.Name,
		Description:  c.Description,
		DataType:     c.DataType,
		Options:      c.Options,
		IsRequired:   c.IsRequired,
		DefaultValue: c.DefaultValue,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type ListAssetTypesRequest struct {
	Skip            int    `query:"skip"`
	Limit           int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	Name            string `query:"name"`
	Category        string `query:"category"`
	IncludeConfigs  bool   `query:"include_configs"`
	IncludeInactive bool   `query:"include_inactive"`
}

func (s *Server) ListAssetTypes(ctx echo.Context) error {
	var req ListAssetTypesRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	types, total, err := s.server.ListAssetTypes(ctx.Request().Context(), usecase.ListAssetTypesOption{
		Skip:            req.Skip,
		Limit:           req.Limit,
		Name:            req.Name,
		Category:        req.Category,
		IncludeConfigs:  req.IncludeConfigs,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	list := make([]AssetType, 0, len(types))
	for _, t := range types {
		list = append(list, ConvertAssetType(t))
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

func (s *Server) GetAssetTypeByID(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset type id"})
	}

	t, err := s.server.GetAssetTypeByID(ctx.Request().Context(), id)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertAssetType(t),
	})
}

type CreateAssetTypeRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (s *Server) CreateAssetType(ctx echo.Context) error {
	var req CreateAssetTypeRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	t, err := s.server.CreateAssetType(ctx.Request().Context(), usecase.AssetType{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(201, Res{
		Success: true,
		Data:    ConvertAssetType(t),
	})
}

type UpdateAssetTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsActive    *bool  `json:"is_active"`
}

func (s *Server) UpdateAssetType(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset type id"})
	}

	var req UpdateAssetTypeRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	existing, err := s.server.GetAssetTypeByID(ctx.Request().Context(), id)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	t, err := s.server.UpdateAssetType(ctx.Request().Context(), usecase.AssetType{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IsActive:    isActive,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertAssetType(t),
	})
}

func (s *Server) ListAssetConfigurations(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset type id"})
	}

	configs, err := s.server.ListAssetConfigurations(ctx.Request().Context(), id)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	list := make([]AssetConfiguration, 0, len(configs))
	for _, c := range configs {
		list = append(list, ConvertAssetConfiguration(c))
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    list,
	})
}

type CreateAssetConfigurationRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	DataType     string `json:"data_type" validate:"omitempty,oneof=text number select boolean"`
	Options      string `json:"options"`
	IsRequired   bool   `json:"is_required"`
	DefaultValue string `json:"default_value"`
	DisplayOrder int    `json:"display_order"`
}

func (s *Server) CreateAssetConfiguration(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset type id"})
	}

	var req CreateAssetConfigurationRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	dataType := req.DataType
	if dataType == "" {
		dataType = "text"
	}

	c, err := s.server.CreateAssetConfiguration(ctx.Request().Context(), usecase.AssetConfiguration{
		AssetTypeID:  id,
		Name:         req.Name,
		Description:  req.Description,
		DataType:     dataType,
		Options:      req.Options,
		IsRequired:   req.IsRequired,
		DefaultValue: req.DefaultValue,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(201, Res{
		Success: true,
		Data:    ConvertAssetConfiguration(c),
	})
}

type UpdateAssetConfigurationRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DataType     string `json:"data_type" validate:"omitempty,oneof=text number select boolean"`
	Options      string `json:"options"`
	IsRequired   bool   `json:"is_required"`
	DefaultValue string `json:"default_value"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

func (s *Server) UpdateAssetConfiguration(ctx echo.Context) error {
	configID, err := uuid.Parse(ctx.Param("configId"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid configuration id"})
	}

	var req UpdateAssetConfigurationRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	c, err := s.server.UpdateAssetConfiguration(ctx.Request().Context(), usecase.AssetConfiguration{
		ID:           configID,
		Name:         req.Name,
		Description:  req.Description,
		DataType:     req.DataType,
		Options:      req.Options,
		IsRequired:   req.IsRequired,
		DefaultValue: req.DefaultValue,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertAssetConfiguration(c),
	})
}

func (s *Server) DeleteAssetConfiguration(ctx echo.Context) error {
	configID, err := uuid.Parse(ctx.Param("configId"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid configuration id"})
	}

	if err := s.server.DeleteAssetConfiguration(ctx.Request().Context(), configID); err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Message: "Configuration deleted successfully",
	})
}
