package server

import (
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Notification struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Message       string  `json:"message"`
	ReferenceID   *string `json:"reference_id,omitempty"`
	ReferenceType string  `json:"reference_type"`
	ReadAt        *string `json:"read_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func ConvertNotification(n usecase.Notification) Notification {
	var readAt, refID *string
	if n.ReadAt != nil {
		t := n.ReadAt.UTC().Format(time.RFC3339)
		readAt = &t
	}
	if n.ReferenceID != nil {
		id := n.ReferenceID.String()
		refID = &id
	}
	return Notification{
		ID:            n.ID.String(),
		Title:         n.Title,
		Message:       n.Message,
		ReferenceID:   refID,
		ReferenceType: n.ReferenceType,
		ReadAt:        readAt,
		CreatedAt:     n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type ListNotificationsRequest struct {
	Skip  int `query:"skip"`
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

func (s *Server) ListNotifications(ctx echo.Context) error {
	var req ListNotificationsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	notifications, unread, total, err := s.server.ListNotifications(ctx.Request().Context(), usecase.ListNotificationsOption{
		Skip:  req.Skip,
		Limit: req.Limit,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	list := make([]Notification, 0, len(notifications))
	for _, n := range notifications {
		list = append(list, ConvertNotification(n))
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    list,
		Meta: &Meta{
			Total:  total,
			Skip:   req.Skip,
			Limit:  req.Limit,
			Unread: &unread,
		},
	})
}

func (s *Server) ReadNotification(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid notification id"})
	}

	if err := s.server.ReadNotification(ctx.Request().Context(), id); err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Message: "Notification marked as read",
	})
}
