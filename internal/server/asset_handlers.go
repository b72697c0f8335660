package server

import (
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Asset struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	SerialNumber   string   `json:"serial_number,omitempty"`
	Model          string   `json:"model,omitempty"`
	Brand          string   `json:"brand,omitempty"`
	Category       string   `json:"category"`
	Location       string   `json:"location,omitempty"`
	Value          *float64 `json:"value,omitempty"`
	PurchaseDate   *string  `json:"purchase_date,omitempty"`
	WarrantyExpiry *string  `json:"warranty_expiry,omitempty"`
	Status         string   `json:"status"`
	AssetTypeID    *string  `json:"asset_type_id,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
	DeletedAt      *string  `json:"deleted_at,omitempty"`

	AssetType    *AssetType       `json:"asset_type,omitempty"`
	Assignment   *AssetAssignment `json:"assignment,omitempty"`
	HistoryCount int              `json:"history_count,omitempty"`
}

func ConvertAsset(a usecase.Asset) Asset {
	var d *string
	if a.DeletedAt != nil {
		tmp := a.DeletedAt.UTC().Format(time.RFC3339)
		d = &tmp
	}
	var purchaseDate, warrantyExpiry *string
	if a.PurchaseDate != nil {
		tmp := a.PurchaseDate.UTC().Format(time.RFC3339)
		purchaseDate = &tmp
	}
	if a.WarrantyExpiry != nil {
		tmp := a.WarrantyExpiry.UTC().Format(time.RFC3339)
		warrantyExpiry = &tmp
	}
	var assetTypeID *string
	if a.AssetTypeID != nil {
		tmp := a.AssetTypeID.String()
		assetTypeID = &tmp
	}

	asset := Asset{
		ID:             a.ID.String(),
		Name:           a.Name,
		Description:    a.Description,
		SerialNumber:   a.SerialNumber,
		Model:          a.Model,
		Brand:          a.Brand,
		Category:       a.Category,
		Location:       a.Location,
		Value:          a.Value,
		PurchaseDate:   purchaseDate,
		WarrantyExpiry: warrantyExpiry,
		Status:         string(a.Status),
		AssetTypeID:    assetTypeID,
		CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.UTC().Format(time.RFC3339),
		DeletedAt:      d,
		HistoryCount:   a.HistoryCount,
	}

	if a.AssetType != nil {
		at := ConvertAssetType(*a.AssetType)
		asset.AssetType = &at
	}
	if a.Assignment != nil {
		asg := ConvertAssignment(*a.Assignment)
		asset.Assignment = &asg
	}

	return asset
}

type ListAssetsRequest struct {
	Skip   int    `query:"skip"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	SortBy string `query:"sort_by" validate:"omitempty,oneof=created_at updated_at name category status"`
	SortIn string `query:"sort_in" validate:"omitempty,oneof=ASC DESC"`

	Name        string `query:"name"`
	Category    string `query:"category"`
	Status      string `query:"status" validate:"omitempty,oneof=AVAILABLE ASSIGNED MAINTENANCE RETIRED LOST"`
	AssetTypeID string `query:"asset_type_id" validate:"omitempty,uuid"`
}

func (s *Server) ListAssets(ctx echo.Context) error {
	var req ListAssetsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	var assetTypeID uuid.UUID
	if req.AssetTypeID != "" {
		assetTypeID, _ = uuid.Parse(req.AssetTypeID)
	}

	assets, total, err := s.server.ListAssets(ctx.Request().Context(), usecase.ListAssetsOption{
		Skip:        req.Skip,
		Limit:       req.Limit,
		SortBy:      req.SortBy,
		SortIn:      req.SortIn,
		Name:        req.Name,
		Category:    req.Category,
		Status:      usecase.AssetStatus(req.Status),
		AssetTypeID: assetTypeID,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	list := make([]Asset, 0, len(assets))
	for _, a := range assets {
		list = append(list, ConvertAsset(a))
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

func (s *Server) GetAssetByID(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset id"})
	}

	a, err := s.server.GetAssetByID(ctx.Request().Context(), id)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertAsset(a),
	})
}

type CreateAssetRequest struct {
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description"`
	SerialNumber   string   `json:"serial_number"`
	Model          string   `json:"model"`
	Brand          string   `json:"brand"`
	Category       string   `json:"category" validate:"required"`
	Location       string   `json:"location"`
	Value          *float64 `json:"value"`
	PurchaseDate   string   `json:"purchase_date" validate:"omitempty"`
	WarrantyExpiry string   `json:"warranty_expiry" validate:"omitempty"`
	AssetTypeID    string   `json:"asset_type_id" validate:"omitempty,uuid"`
}

func (req CreateAssetRequest) toUsecase() (usecase.Asset, error) {
	var asset usecase.Asset

	if req.PurchaseDate != "" {
		t, err := time.Parse(time.RFC3339, req.PurchaseDate)
		if err != nil {
			return asset, err
		}
		asset.PurchaseDate = &t
	}
	if req.WarrantyExpiry != "" {
		t, err := time.Parse(time.RFC3339, req.WarrantyExpiry)
		if err != nil {
			return asset, err
		}
		asset.WarrantyExpiry = &t
	}
	if req.AssetTypeID != "" {
		id, err := uuid.Parse(req.AssetTypeID)
		if err != nil {
			return asset, err
		}
		asset.AssetTypeID = &id
	}

	asset.Name = req.Name
	asset.Description = req.Description
	asset.SerialNumber = req.SerialNumber
	asset.Model = req.Model
	asset.Brand = req.Brand
	asset.Category = req.Category
	asset.Location = req.Location
	asset.Value = req.Value

	return asset, nil
}

func (s *Server) CreateAsset(ctx echo.Context) error {
	var req CreateAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	asset, err := req.toUsecase()
	if err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	created, err := s.server.CreateAsset(ctx.Request().Context(), asset)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(201, Res{
		Success: true,
		Data:    ConvertAsset(created),
	})
}

func (s *Server) UpdateAsset(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset id"})
	}

	var req CreateAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	asset, err := req.toUsecase()
	if err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	asset.ID = id

	updated, err := s.server.UpdateAsset(ctx.Request().Context(), asset)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertAsset(updated),
	})
}

type RetireAssetRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) RetireAsset(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset id"})
	}

	var req RetireAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	if err := s.server.RetireAsset(ctx.Request().Context(), id, req.Reason); err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Message: "Asset retired successfully",
	})
}

type RecoverAssetRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) MarkAssetAvailable(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset id"})
	}

	var req RecoverAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	if err := s.server.MarkAssetAvailable(ctx.Request().Context(), id, req.Notes); err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Message: "Asset marked available",
	})
}

func (s *Server) GetAssetTag(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset id"})
	}

	png, err := s.server.AssetTagPNG(ctx.Request().Context(), id)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.Blob(200, "image/png", png)
}

type ListAssetHistoryRequest struct {
	Skip   int    `query:"skip"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	Action string `query:"action"`
}

type AssetHistoryEntry struct {
	ID        string `json:"id"`
	AssetID   string `json:"asset_id"`
	UserID    string `json:"user_id"`
	Action    string `json:"action"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`

	User *User `json:"user,omitempty"`
}

func (s *Server) ListAssetHistory(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid asset id"})
	}

	var req ListAssetHistoryRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	entries, total, err := s.server.ListAssetHistory(ctx.Request().Context(), usecase.ListAssetHistoryOption{
		Skip:    req.Skip,
		Limit:   req.Limit,
		AssetID: id,
		Action:  req.Action,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	list := make([]AssetHistoryEntry, 0, len(entries))
	for _, e := range entries {
		entry := AssetHistoryEntry{
			ID:        e.ID.String(),
			AssetID:   e.AssetID.String(),
			UserID:    e.UserID.String(),
			Action:    e.Action,
			Details:   e.Details,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if e.User != nil {
			u := ConvertUser(*e.User)
			entry.User = &u
		}
		list = append(list, entry)
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

type ExportAssetsRequest struct {
	Category    string `json:"category"`
	Status      string `json:"status" validate:"omitempty,oneof=AVAILABLE ASSIGNED MAINTENANCE RETIRED LOST"`
	AssetTypeID string `json:"asset_type_id" validate:"omitempty,uuid"`
}

func (s *Server) ExportAssets(ctx echo.Context) error {
	var req ExportAssetsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	var assetTypeID uuid.UUID
	if req.AssetTypeID != "" {
		assetTypeID, _ = uuid.Parse(req.AssetTypeID)
	}

	jobID, err := s.server.ExportAssets(ctx.Request().Context(), usecase.ExportAssetsOption{
		Category:    req.Category,
		Status:      usecase.AssetStatus(req.Status),
		AssetTypeID: assetTypeID,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(202, Res{
		Success: true,
		Data:    map[string]string{"job_id": jobID},
		Message: "Export started",
	})
}
