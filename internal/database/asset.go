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

type Asset struct {
	ID             uuid.UUID       `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name           string          `gorm:"column:name;type:varchar(255);NOT NULL"`
	Description    string          `gorm:"column:description;type:text"`
	SerialNumber   string          `gorm:"column:serial_number;type:varchar(255)"`
	Model          string          `gorm:"column:model;type:varchar(255)"`
	Brand          string          `gorm:"column:brand;type:varchar(255)"`
	Category       string          `gorm:"column:category;type:varchar(255);NOT NULL;index"`
	Location       string          `gorm:"column:location;type:varchar(255)"`
	Value          *float64        `gorm:"column:value"`
	PurchaseDate   *time.Time      `gorm:"column:purchase_date"`
	WarrantyExpiry *time.Time      `gorm:"column:warranty_expiry"`
	Status         string          `gorm:"column:status;check:status IN ('AVAILABLE', 'ASSIGNED', 'MAINTENANCE', 'RETIRED', 'LOST');default:'AVAILABLE';index"`
	AssetTypeID    *uuid.UUID      `gorm:"column:asset_type_id;type:uuid"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
	DeletedAt      *gorm.DeletedAt `gorm:"column:deleted_at"`

	AssetType   *AssetType        `gorm:"foreignKey:AssetTypeID;references:ID"`
	Assignments []AssetAssignment `gorm:"foreignKey:AssetID;references:ID"`
	History     []AssetHistory    `gorm:"foreignKey:AssetID;references:ID"`
}

func (Asset) TableName() string {
	return "assets"
}

func (s *service) ListAssets(ctx context.Context, opt usecase.ListAssetsOption) ([]usecase.Asset, int, error) {
	var (
		assets  []Asset
		uassets []usecase.Asset
		count   int64
	)

	db := s.db.Model([]Asset{}).WithContext(ctx)

	if opt.Name != "" {
		db = db.Where("name ILIKE ?", "%"+opt.Name+"%")
	}
	if opt.Category != "" {
		db = db.Where("category = ?", opt.Category)
	}
	if opt.Status != "" {
		db = db.Where("status = ?", opt.Status)
	}
	if opt.AssetTypeID != uuid.Nil {
		db = db.Where("asset_type_id = ?", opt.AssetTypeID)
	}

	var (
		orderIn = "DESC"
		orderBy = "created_at"
	)
	if slices.Contains([]string{"ASC", "DESC"}, opt.SortIn) {
		orderIn = opt.SortIn
	}
	if slices.Contains([]string{"created_at", "updated_at", "name", "category", "status"}, opt.SortBy) {
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
		Preload("AssetType").
		Preload("Assignments", "returned_at IS NULL").
		Preload("Assignments.User").
		Find(&assets).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, a := range assets {
		uassets = append(uassets, a.toUsecaseWithRelations())
	}

	return uassets, int(count), nil
}

func (s *service) GetAssetByID(ctx context.Context, id uuid.UUID) (usecase.Asset, error) {
	var a Asset

	err := s.db.
		WithContext(ctx).
		Preload("AssetType").
		Preload("AssetType.Configurations").
		Preload("Assignments", "returned_at IS NULL").
		Preload("Assignments.User").
		First(&a, "id = ?", id).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return usecase.Asset{}, usecase.ErrNotFound{Message: "Asset not found"}
		}
		return usecase.Asset{}, err
	}

	ua := a.toUsecaseWithRelations()

	var historyCount int64
	if err := s.db.
		WithContext(ctx).
		Model(&AssetHistory{}).
		Where("asset_id = ?", id).
		Count(&historyCount).
		Error; err != nil {
		return usecase.Asset{}, err
	}
	ua.HistoryCount = int(historyCount)

	return ua, nil
}

// CreateAsset writes the asset row and its "created" history entry in
// one transaction.
func (s *service) CreateAsset(ctx context.Context, asset usecase.Asset, h usecase.AssetHistory) (usecase.Asset, error) {
	a := Asset{
		Name:           asset.Name,
		Description:    asset.Description,
		SerialNumber:   asset.SerialNumber,
		Model:          asset.Model,
		Brand:          asset.Brand,
		Category:       asset.Category,
		Location:       asset.Location,
		Value:          asset.Value,
		PurchaseDate:   asset.PurchaseDate,
		WarrantyExpiry: asset.WarrantyExpiry,
		Status:         string(asset.Status),
		AssetTypeID:    asset.AssetTypeID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		return tx.Create(&AssetHistory{
			AssetID: a.ID,
			UserID:  h.UserID,
			Action:  h.Action,
			Details: h.Details,
		}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return usecase.Asset{}, usecase.ErrConflict{Message: "Asset with this serial number already exists"}
		}
		return usecase.Asset{}, err
	}

	return a.ConvertToUsecase(), nil
}

func (s *service) UpdateAsset(ctx context.Context, asset usecase.Asset) (usecase.Asset, error) {
	a := Asset{
		ID:             asset.ID,
		Name:           asset.Name,
		Description:    asset.Description,
		SerialNumber:   asset.SerialNumber,
		Model:          asset.Model,
		Brand:          asset.Brand,
		Category:       asset.Category,
		Location:       asset.Location,
		Value:          asset.Value,
		PurchaseDate:   asset.PurchaseDate,
		WarrantyExpiry: asset.WarrantyExpiry,
		AssetTypeID:    asset.AssetTypeID,
	}

	err := s.db.
		WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", a.ID).
		Updates(&a).Error
	if err != nil {
		return usecase.Asset{}, err
	}

	return a.ConvertToUsecase(), nil
}

// UpdateAssetStatus flips the status and appends the history entry in
// one transaction.
func (s *service) UpdateAssetStatus(ctx context.Context, id uuid.UUID, status usecase.AssetStatus, h usecase.AssetHistory) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Asset{}).Where("id = ?", id).Update("status", string(status))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrNotFound{Message: "Asset not found"}
		}
		return tx.Create(&AssetHistory{
			AssetID: id,
			UserID:  h.UserID,
			Action:  h.Action,
			Details: h.Details,
		}).Error
	})
}

func (a Asset) toUsecaseWithRelations() usecase.Asset {
	ua := a.ConvertToUsecase()

	if a.AssetType != nil {
		at := a.AssetType.ConvertToUsecase()
		for _, c := range a.AssetType.Configurations {
			at.Configurations = append(at.Configurations, c.ConvertToUsecase())
		}
		ua.AssetType = &at
	}

	if len(a.Assignments) > 0 {
		asg := a.Assignments[0].ConvertToUsecase()
		if a.Assignments[0].User != nil {
			user := a.Assignments[0].User.ConvertToUsecase()
			asg.User = &user
		}
		ua.Assignment = &asg
	}

	return ua
}

func (a Asset) ConvertToUsecase() usecase.Asset {
	var d *time.Time
	if a.DeletedAt != nil {
		d = &a.DeletedAt.Time
	}
	return usecase.Asset{
		ID:             a.ID,
		Name:           a.Name,
		Description:    a.Description,
		SerialNumber:   a.SerialNumber,
		Model:          a.Model,
		Brand:          a.Brand,
		Category:       a.Category,
		Location:       a.Location,
		Value:          a.Value,
		PurchaseDate:   a.PurchaseDate,
		WarrantyExpiry: a.WarrantyExpiry,
		Status:         usecase.AssetStatus(a.Status),
		AssetTypeID:    a.AssetTypeID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		DeletedAt:      d,
	}
}
