package database

import (
	"context"
	"slices"
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type User struct {
	ID        uuid.UUID       `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name      string          `gorm:"column:name;type:varchar(255)"`
	Email     string          `gorm:"column:email;type:varchar(255);uniqueIndex"`
	Role      string          `gorm:"column:role;check:role IN ('SUPER_ADMIN', 'MANAGER', 'USER');default:'USER'"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
	DeletedAt *gorm.DeletedAt `gorm:"column:deleted_at"`

	Assignments []AssetAssignment
	Requests    []Request
}

func (User) TableName() string {
	return "users"
}

func (s *service) ListUsers(ctx context.Context, opt usecase.ListUsersOption) ([]usecase.User, int, error) {
	var (
		users  []User
		uusers []usecase.User
		count  int64
	)

	db := s.db.Model([]User{}).WithContext(ctx)

	if opt.Name != "" {
		db = db.Where("name ILIKE ?", "%"+opt.Name+"%")
	}
	if opt.Email != "" {
		db = db.Where("email ILIKE ?", "%"+opt.Email+"%")
	}
	if opt.Role != "" {
		db = db.Where("role = ?", opt.Role)
	}

	var (
		orderIn = "DESC"
		orderBy = "created_at"
	)
	if slices.Contains([]string{"ASC", "DESC"}, opt.SortIn) {
		orderIn = opt.SortIn
	}
	if slices.Contains([]string{"created_at", "updated_at", "name", "email"}, opt.SortBy) {
		orderBy = opt.SortBy
	}
	db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: orderIn == "DESC"})

	if err := db.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if opt.Limit > 0 {
		db = db.Limit(opt.Limit)
	}
	if opt.Skip > 0 {
		db = db.Offset(opt.Skip)
	}

	if err := db.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	for _, u := range users {
		uusers = append(uusers, u.ConvertToUsecase())
	}

	return uusers, int(count), nil
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (usecase.User, error) {
	var u User

	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return usecase.User{}, usecase.ErrNotFound{Message: "User not found"}
		}
		return usecase.User{}, err
	}

	return u.ConvertToUsecase(), nil
}

func (s *service) CreateUser(ctx context.Context, user usecase.User) (usecase.User, error) {
	u := User{
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}

	err := s.db.WithContext(ctx).Create(&u).Error
	if err != nil {
		if isUniqueViolation(err) {
			return usecase.User{}, usecase.ErrConflict{Message: "User with this email already exists"}
		}
		return usecase.User{}, err
	}

	return u.ConvertToUsecase(), nil
}

func (s *service) UpdateUser(ctx context.Context, user usecase.User) (usecase.User, error) {
	u := User{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}

	err := s.db.
		WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", u.ID).
		Updates(&u).Error
	if err != nil {
		return usecase.User{}, err
	}

	return u.ConvertToUsecase(), nil
}

func (u User) ConvertToUsecase() usecase.User {
	var d *time.Time
	if u.DeletedAt != nil {
		d = &u.DeletedAt.Time
	}
	return usecase.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      usecase.Role(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: d,
	}
}
