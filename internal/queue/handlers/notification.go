package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// HandleNotificationEmail delivers a stored notification by email.
func (h *Handlers) HandleNotificationEmail(ctx context.Context, task *asynq.Task) error {
	var payload TaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Printf("[Queue] Failed to parse task payload: %v\n", err)
		return err
	}

	var inner struct {
		NotificationID uuid.UUID `json:"notification_id"`
	}
	if err := json.Unmarshal([]byte(payload.Payload), &inner); err != nil {
		log.Printf("[Queue] Invalid notification payload: %v\n", err)
		return err
	}

	if err := h.usecase.ProcessNotificationEmail(ctx, inner.NotificationID); err != nil {
		log.Printf("[Queue] Failed to send notification email %s: %v\n", inner.NotificationID, err)
		return err
	}

	return nil
}
