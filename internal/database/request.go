package database

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Request struct {
	ID          uuid.UUID       `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	RequestedBy uuid.UUID       `gorm:"column:requested_by;type:uuid;NOT NULL;index"`
	Type        string          `gorm:"column:type;check:type IN ('NEW_ASSET', 'REPLACEMENT', 'COMPLAINT', 'MAINTENANCE');NOT NULL"`
	Title       string          `gorm:"column:title;type:varchar(100)"`
	Description string          `gorm:"column:description;type:text;NOT NULL"`
	Priority    string          `gorm:"column:priority;type:varchar(50);default:'medium'"`
	DeviceType  string          `gorm:"column:device_type;type:varchar(255)"`
	Preferences datatypes.JSON  `gorm:"column:preferences"`
	AssetID     *uuid.UUID      `gorm:"column:asset_id;type:uuid"`
	Status      string          `gorm:"column:status;check:status IN ('PENDING', 'APPROVED', 'REJECTED', 'IN_PROGRESS', 'COMPLETED', 'CANCELLED');default:'PENDING';index"`
	ApprovedBy  *uuid.UUID      `gorm:"column:approved_by;type:uuid"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
	DeletedAt   *gorm.DeletedAt `gorm:"column:deleted_at"`

	Requester *User  `gorm:"foreignKey:RequestedBy;references:ID"`
	Asset     *Asset `gorm:"foreignKey:AssetID;references:ID"`
	Approver  *User  `gorm:"foreignKey:ApprovedBy;references:ID"`
}

func (Request) TableName() string {
	return "requests"
}

func (s *service) ListRequests(ctx context.Context, opt usecase.ListRequestsOption) ([]usecase.Request, int, error) {
	var (
		reqs  []Request
		ureqs []usecase.Request
		count int64
	)

	db := s.db.Model([]Request{}).WithContext(ctx)

	if opt.RequestedBy != uuid.Nil {
		db = db.Where("requested_by = ?", opt.RequestedBy)
	}
	if opt.Status != "" {
		db = db.Where("status = ?", opt.Status)
	}
	if opt.Type != "" {
		db = db.Where("type = ?", opt.Type)
	}

	var (
		orderIn = "DESC"
		orderBy = "created_at"
	)
	if slices.Contains([]string{"ASC", "DESC"}, opt.SortIn) {
		orderIn = opt.SortIn
	}
	if slices.Contains([]string{"created_at", "updated_at", "priority", "status"}, opt.SortBy) {
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

	err := db.
		Preload("Requester").
		Preload("Asset").
		Preload("Approver").
		Find(&reqs).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, r := range reqs {
		ureqs = append(ureqs, r.toUsecaseWithRelations())
	}

	return ureqs, int(count), nil
}

func (s *service) GetRequestByID(ctx context.Context, id uuid.UUID) (usecase.Request, error) {
	var r Request

	err := s.db.
		WithContext(ctx).
		Preload("Requester").
		Preload("Asset").
		Preload("Approver").
		First(&r, "id = ?", id).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return usecase.Request{}, usecase.ErrNotFound{Message: "Request not found"}
		}
		return usecase.Request{}, err
	}

	return r.toUsecaseWithRelations(), nil
}

func (s *service) CreateRequest(ctx context.Context, req usecase.Request) (usecase.Request, error) {
	r := Request{
		RequestedBy: req.RequestedBy,
		Type:        string(req.Type),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DeviceType:  req.DeviceType,
		Preferences: datatypes.JSON(req.Preferences),
		AssetID:     req.AssetID,
		Status:      string(req.Status),
	}

	if err := s.db.
		WithContext(ctx).
		Clauses(clause.Returning{}).
		Create(&r).Error; err != nil {
		return usecase.Request{}, err
	}

	return r.ConvertToUsecase(), nil
}

// UpdateRequest applies the update only while the row still holds the
// from status. Zero rows affected means another writer transitioned
// the request first, which is a conflict rather than an overwrite.
func (s *service) UpdateRequest(ctx context.Context, req usecase.Request, from usecase.RequestStatus) (usecase.Request, error) {
	r := Request{
		ID:          req.ID,
		Type:        string(req.Type),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DeviceType:  req.DeviceType,
		Preferences: datatypes.JSON(req.Preferences),
		AssetID:     req.AssetID,
		Status:      string(req.Status),
		ApprovedBy:  req.ApprovedBy,
	}

	res := s.db.
		WithContext(ctx).
		Clauses(clause.Returning{}).
		Model(&r).
		Where("id = ? AND status = ?", req.ID, string(from)).
		Updates(&r)
	if res.Error != nil {
		return usecase.Request{}, res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.Request{}, usecase.ErrConflict{Message: fmt.Sprintf("Request is no longer %s", from)}
	}

	return r.ConvertToUsecase(), nil
}

func (r Request) toUsecaseWithRelations() usecase.Request {
	ur := r.ConvertToUsecase()

	if r.Requester != nil {
		user := r.Requester.ConvertToUsecase()
		ur.Requester = &user
	}
	if r.Asset != nil {
		asset := r.Asset.ConvertToUsecase()
		ur.Asset = &asset
	}
	if r.Approver != nil {
		user := r.Approver.ConvertToUsecase()
		ur.Approver = &user
	}

	return ur
}

func (r Request) ConvertToUsecase() usecase.Request {
	var d *time.Time
	if r.DeletedAt != nil {
		d = &r.DeletedAt.Time
	}
	return usecase.Request{
		ID:          r.ID,
		RequestedBy: r.RequestedBy,
		Type:        usecase.RequestType(r.Type),
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		DeviceType:  r.DeviceType,
		Preferences: []byte(r.Preferences),
		AssetID:     r.AssetID,
		Status:      usecase.RequestStatus(r.Status),
		ApprovedBy:  r.ApprovedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		DeletedAt:   d,
	}
}
