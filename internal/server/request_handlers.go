package server

import (
	"encoding/json"
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Request struct {
	ID          string          `json:"id"`
	RequestedBy string          `json:"requested_by"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    string          `json:"priority"`
	DeviceType  string          `json:"device_type,omitempty"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
	AssetID     *string         `json:"asset_id,omitempty"`
	Status      string          `json:"status"`
	ApprovedBy  *string         `json:"approved_by,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`

	Requester *User  `json:"requester,omitempty"`
	Asset     *Asset `json:"asset,omitempty"`
	Approver  *User  `json:"approver,omitempty"`
}

func ConvertRequest(r usecase.Request) Request {
	req := Request{
		ID:          r.ID.String(),
		RequestedBy: r.RequestedBy.String(),
		Type:        string(r.Type),
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		DeviceType:  r.DeviceType,
		Preferences: r.Preferences,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if r.AssetID != nil {
		id := r.AssetID.String()
		req.AssetID = &id
	}
	if r.ApprovedBy != nil {
		id := r.ApprovedBy.String()
		req.ApprovedBy = &id
	}

	if r.Requester != nil {
		u := ConvertUser(*r.Requester)
		req.Requester = &u
	}
	if r.Asset != nil {
		a := ConvertAsset(*r.Asset)
		req.Asset = &a
	}
	if r.Approver != nil {
		u := ConvertUser(*r.Approver)
		req.Approver = &u
	}

	return req
}

type SubmitRequestRequest struct {
	Type        string          `json:"type" validate:"required,oneof=NEW_ASSET REPLACEMENT COMPLAINT MAINTENANCE"`
	Description string          `json:"description" validate:"required"`
	Urgency     string          `json:"urgency" validate:"omitempty,oneof=low medium high"`
	DeviceType  string          `json:"device_type"`
	Preferences json.RawMessage `json:"preferences"`
	AssetID     string          `json:"asset_id" validate:"omitempty,uuid"`
}

func (s *Server) SubmitRequest(ctx echo.Context) error {
	var req SubmitRequestRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	var assetID *uuid.UUID
	if req.AssetID != "" {
		id, _ := uuid.Parse(req.AssetID)
		assetID = &id
	}

	r, err := s.server.SubmitRequest(ctx.Request().Context(), usecase.SubmitRequestOption{
		Type:        req.Type,
		Description: req.Description,
		Urgency:     req.Urgency,
		DeviceType:  req.DeviceType,
		Preferences: req.Preferences,
		AssetID:     assetID,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(201, Res{
		Success: true,
		Data:    ConvertRequest(r),
		Message: "Request submitted successfully",
	})
}

type ListRequestsRequest struct {
	Skip   int    `query:"skip"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	SortBy string `query:"sort_by" validate:"omitempty,oneof=created_at updated_at priority"`
	SortIn string `query:"sort_in" validate:"omitempty,oneof=ASC DESC"`

	RequestedBy string `query:"requested_by" validate:"omitempty,uuid"`
	Status      string `query:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED IN_PROGRESS COMPLETED CANCELLED"`
	Type        string `query:"type" validate:"omitempty,oneof=NEW_ASSET REPLACEMENT COMPLAINT MAINTENANCE"`
}

func (s *Server) ListRequests(ctx echo.Context) error {
	var req ListRequestsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	var requestedBy uuid.UUID
	if req.RequestedBy != "" {
		requestedBy, _ = uuid.Parse(req.RequestedBy)
	}

	requests, total, err := s.server.ListRequests(ctx.Request().Context(), usecase.ListRequestsOption{
		Skip:        req.Skip,
		Limit:       req.Limit,
		SortBy:      req.SortBy,
		SortIn:      req.SortIn,
		RequestedBy: requestedBy,
		Status:      usecase.RequestStatus(req.Status),
		Type:        usecase.RequestType(req.Type),
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	list := make([]Request, 0, len(requests))
	for _, r := range requests {
		list = append(list, ConvertRequest(r))
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

func (s *Server) GetRequestByID(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid request id"})
	}

	r, err := s.server.GetRequestByID(ctx.Request().Context(), id)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Success: true, Data: ConvertRequest(r)})
}

type DecideRequestRequest struct {
	Decision string `json:"decision" validate:"required,oneof=APPROVED REJECTED"`
}

func (s *Server) DecideRequest(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid request id"})
	}

	var req DecideRequestRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	r, err := s.server.DecideRequest(ctx.Request().Context(), id, usecase.RequestStatus(req.Decision))
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertRequest(r),
		Message: "Request " + req.Decision,
	})
}

type AdvanceRequestRequest struct {
	Status string `json:"status" validate:"required,oneof=IN_PROGRESS COMPLETED"`
}

func (s *Server) AdvanceRequest(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid request id"})
	}

	var req AdvanceRequestRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	r, err := s.server.AdvanceRequest(ctx.Request().Context(), id, usecase.RequestStatus(req.Status))
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertRequest(r),
		Message: "Request status updated",
	})
}

func (s *Server) CancelRequest(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid request id"})
	}

	r, err := s.server.CancelRequest(ctx.Request().Context(), id)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    ConvertRequest(r),
		Message: "Request cancelled",
	})
}
