package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Message       string
	ReferenceID   *uuid.UUID
	ReferenceType string
	ReadAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

type ListNotificationsOption struct {
	Skip   int
	Limit  int
	UserID uuid.UUID
}

type notificationEmailPayload struct {
	NotificationID uuid.UUID `json:"notification_id"`
}

// CreateNotification persists the notification and hands email
// delivery to the worker. Delivery is best effort; the row is the
// source of truth.
func (u Usecase) CreateNotification(ctx context.Context, n Notification) error {
	created, err := u.repo.CreateNotification(ctx, n)
	if err != nil {
		return err
	}

	if u.queueClient == nil {
		return nil
	}

	payload, err := json.Marshal(notificationEmailPayload{NotificationID: created.ID})
	if err != nil {
		return err
	}
	if err := u.queueClient.EnqueueJob(ctx, created.ID, "notification:email", payload); err != nil {
		fmt.Printf("notification: failed to enqueue email: %v\n", err)
	}
	return nil
}

func (u Usecase) ListNotifications(ctx context.Context, opt ListNotificationsOption) ([]Notification, int, int, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return nil, 0, 0, err
	}
	return u.repo.ListNotifications(ctx, ListNotificationsOption{
		Skip:   opt.Skip,
		Limit:  opt.Limit,
		UserID: actor.ID,
	})
}

func (u Usecase) ReadNotification(ctx context.Context, id uuid.UUID) error {
	actor, err := u.actor(ctx)
	if err != nil {
		return err
	}
	n, err := u.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != actor.ID {
		return ErrForbidden{}
	}
	return u.repo.ReadNotification(ctx, id)
}

// ProcessNotificationEmail is called by the queue worker to deliver a
// stored notification by email.
func (u Usecase) ProcessNotificationEmail(ctx context.Context, notificationID uuid.UUID) error {
	n, err := u.repo.GetNotificationByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("failed to get notification: %w", err)
	}
	user, err := u.repo.GetUserByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user.Email == "" {
		return nil
	}
	return u.SendNotificationEmail(ctx, user, n)
}
