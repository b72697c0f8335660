package database

import (
	"context"
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Notification struct {
	ID            uuid.UUID  `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID        uuid.UUID  `gorm:"column:user_id;type:uuid;index"`
	User          *User      `gorm:"foreignKey:UserID;references:ID"`
	Title         string     `gorm:"column:title"`
	Message       string     `gorm:"column:message"`
	ReferenceID   *uuid.UUID `gorm:"column:reference_id;type:uuid"`
	ReferenceType string     `gorm:"column:reference_type"`
	ReadAt        *time.Time `gorm:"column:read_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
	DeletedAt     *gorm.DeletedAt
}

func (Notification) TableName() string {
	return "notifications"
}

func (s *service) CreateNotification(ctx context.Context, un usecase.Notification) (usecase.Notification, error) {
	n := Notification{
		UserID:        un.UserID,
		Title:         un.Title,
		Message:       un.Message,
		ReferenceID:   un.ReferenceID,
		ReferenceType: un.ReferenceType,
	}

	if err := s.db.
		WithContext(ctx).
		Clauses(clause.Returning{}).
		Create(&n).Error; err != nil {
		return usecase.Notification{}, err
	}

	return n.ConvertToUsecase(), nil
}

func (s *service) GetNotificationByID(ctx context.Context, id uuid.UUID) (usecase.Notification, error) {
	var n Notification

	err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return usecase.Notification{}, usecase.ErrNotFound{Message: "Notification not found"}
		}
		return usecase.Notification{}, err
	}

	return n.ConvertToUsecase(), nil
}

// ListNotifications returns the page, the unread count and the total.
func (s *service) ListNotifications(ctx context.Context, opt usecase.ListNotificationsOption) ([]usecase.Notification, int, int, error) {
	var (
		notifications []Notification
		total         int64
	)

	query := s.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ?", opt.UserID).
		Order("created_at desc").
		Limit(opt.Limit).
		Offset(opt.Skip)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, 0, err
	}

	var unreadCount int64
	if err := s.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND read_at IS NULL", opt.UserID).
		Count(&unreadCount).Error; err != nil {
		return nil, 0, 0, err
	}

	result := make([]usecase.Notification, len(notifications))
	for i, n := range notifications {
		result[i] = n.ConvertToUsecase()
	}

	return result, int(unreadCount), int(total), nil
}

func (s *service) ReadNotification(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Update("read_at", time.Now()).Error
}

func (n Notification) ConvertToUsecase() usecase.Notification {
	var d *time.Time
	if n.DeletedAt != nil {
		d = &n.DeletedAt.Time
	}
	return usecase.Notification{
		ID:            n.ID,
		UserID:        n.UserID,
		Title:         n.Title,
		Message:       n.Message,
		ReferenceID:   n.ReferenceID,
		ReferenceType: n.ReferenceType,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
		DeletedAt:     d,
	}
}
