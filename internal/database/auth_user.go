package database

import (
	"context"
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthUser struct {
	UID       string          `gorm:"column:uid;primaryKey;type:varchar(255);"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;uniqueIndex"`
	User      *User           `gorm:"foreignKey:UserID;references:ID"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
	DeletedAt *gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (AuthUser) TableName() string {
	return "auth_users"
}

func (s *service) CreateAuthUser(ctx context.Context, au usecase.AuthUser) (usecase.AuthUser, error) {
	u := AuthUser{
		UID:    au.UID,
		UserID: au.UserID,
	}
	err := s.db.WithContext(ctx).Create(&u).Error
	if err != nil {
		return usecase.AuthUser{}, err
	}

	return u.ConvertToUsecase(), nil
}

// GetAuthUserByUID is on the hot path: the auth middleware calls it for
// every authenticated request, so the user row rides along in one query.
func (s *service) GetAuthUserByUID(ctx context.Context, uid string) (usecase.AuthUser, error) {
	var u AuthUser

	err := s.db.
		WithContext(ctx).
		Model(&AuthUser{}).
		Preload("User").
		First(&u, "uid = ?", uid).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return usecase.AuthUser{}, usecase.ErrNotFound{Message: "User not found"}
		}
		return usecase.AuthUser{}, err
	}

	au := u.ConvertToUsecase()
	if u.User != nil {
		user := u.User.ConvertToUsecase()
		au.User = &user
	}

	return au, nil
}

func (a AuthUser) ConvertToUsecase() usecase.AuthUser {
	var d *time.Time
	if a.DeletedAt != nil {
		d = &a.DeletedAt.Time
	}
	return usecase.AuthUser{
		UID:       a.UID,
		UserID:    a.UserID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		DeletedAt: d,
	}
}
