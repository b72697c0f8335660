package database

import (
	"context"
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssetType struct {
	ID          uuid.UUID       `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name        string          `gorm:"column:name;type:varchar(255);NOT NULL"`
	Description string          `gorm:"column:description;type:text"`
	Category    string          `gorm:"column:category;type:varchar(255)"`
	IsActive    bool            `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
	DeletedAt   *gorm.DeletedAt `gorm:"column:deleted_at"`

	Configurations []AssetConfiguration `gorm:"foreignKey:AssetTypeID;references:ID"`
}

func (AssetType) TableName() string {
	return "asset_types"
}

type AssetConfiguration struct {
	ID           uuid.UUID       `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	AssetTypeID  uuid.UUID       `gorm:"column:asset_type_id;type:uuid;NOT NULL"`
	Name         string          `gorm:"column:name;type:varchar(255);NOT NULL"`
	Description  string          `gorm:"column:description;type:text"`
	DataType     string          `gorm:"column:data_type;check:data_type IN ('text', 'number', 'select', 'boolean');default:'text'"`
	Options      string          `gorm:"column:options;type:text"`
	IsRequired   bool            `gorm:"column:is_required;default:false"`
	DefaultValue string          `gorm:"column:default_value;type:varchar(255)"`
	DisplayOrder int             `gorm:"column:display_order;default:0"`
	IsActive     bool            `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
	DeletedAt    *gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (AssetConfiguration) TableName() string {
	return "asset_configurations"
}

func (s *service) ListAssetTypes(ctx context.Context, opt usecase.ListAssetTypesOption) ([]usecase.AssetType, int, error) {
	var (
		types  []AssetType
		utypes []usecase.AssetType
		count  int64
	)

	db := s.db.Model([]AssetType{}).WithContext(ctx)

	if opt.Name != "" {
		db = db.Where("name = ?", opt.Name)
	}
	if opt.Category != "" {
		db = db.Where("category = ?", opt.Category)
	}
	if !opt.IncludeInactive {
		db = db.Where("is_active = ?", true)
	}

	if err := db.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if opt.Limit > 0 {
		db = db.Limit(opt.Limit)
	}
	if opt.Skip > 0 {
		db = db.Offset(opt.Skip)
	}

	if opt.IncludeConfigs {
		db = db.Preload("Configurations", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		})
	}

	if err := db.Order("name ASC").Find(&types).Error; err != nil {
		return nil, 0, err
	}

	for _, t := range types {
		ut := t.ConvertToUsecase()
		for _, c := range t.Configurations {
			ut.Configurations = append(ut.Configurations, c.ConvertToUsecase())
		}
		utypes = append(utypes, ut)
	}

	return utypes, int(count), nil
}

func (s *service) GetAssetTypeByID(ctx context.Context, id uuid.UUID) (usecase.AssetType, error) {
	var t AssetType

	err := s.db.
		WithContext(ctx).
		Preload("Configurations", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&t, "id = ?", id).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return usecase.AssetType{}, usecase.ErrNotFound{Message: "Asset type not found"}
		}
		return usecase.AssetType{}, err
	}

	ut := t.ConvertToUsecase()
	for _, c := range t.Configurations {
		ut.Configurations = append(ut.Configurations, c.ConvertToUsecase())
	}

	return ut, nil
}

func (s *service) CreateAssetType(ctx context.Context, at usecase.AssetType) (usecase.AssetType, error) {
	t := AssetType{
		Name:        at.Name,
		Description: at.Description,
		Category:    at.Category,
		IsActive:    true,
	}

	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.AssetType{}, usecase.ErrConflict{Message: "Asset type with this name already exists"}
		}
		return usecase.AssetType{}, err
	}

	return t.ConvertToUsecase(), nil
}

func (s *service) UpdateAssetType(ctx context.Context, at usecase.AssetType) (usecase.AssetType, error) {
	t := AssetType{
		ID:          at.ID,
		Name:        at.Name,
		Description: at.Description,
		Category:    at.Category,
		IsActive:    at.IsActive,
	}

	err := s.db.
		WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", t.ID).
		Updates(&t).Error
	if err != nil {
		return usecase.AssetType{}, err
	}

	return t.ConvertToUsecase(), nil
}

func (s *service) ListAssetConfigurations(ctx context.Context, assetTypeID uuid.UUID) ([]usecase.AssetConfiguration, error) {
	var (
		configs  []AssetConfiguration
		uconfigs []usecase.AssetConfiguration
	)

	err := s.db.
		WithContext(ctx).
		Where("asset_type_id = ?", assetTypeID).
		Order("display_order ASC").
		Find(&configs).
		Error
	if err != nil {
		return nil, err
	}

	for _, c := range configs {
		uconfigs = append(uconfigs, c.ConvertToUsecase())
	}

	return uconfigs, nil
}

func (s *service) CreateAssetConfiguration(ctx context.Context, uc usecase.AssetConfiguration) (usecase.AssetConfiguration, error) {
	c := AssetConfiguration{
		AssetTypeID:  uc.AssetTypeID,
		Name:         uc.Name,
		Description:  uc.Description,
		DataType:     uc.DataType,
		Options:      uc.Options,
		IsRequired:   uc.IsRequired,
		DefaultValue: uc.DefaultValue,
		DisplayOrder: uc.DisplayOrder,
		IsActive:     true,
	}

	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return usecase.AssetConfiguration{}, err
	}

	return c.ConvertToUsecase(), nil
}

func (s *service) UpdateAssetConfiguration(ctx context.Context, uc usecase.AssetConfiguration) (usecase.AssetConfiguration, error) {
	c := AssetConfiguration{
		ID:           uc.ID,
		Name:         uc.Name,
		Description:  uc.Description,
		DataType:     uc.DataType,
		Options:      uc.Options,
		IsRequired:   uc.IsRequired,
		DefaultValue: uc.DefaultValue,
		DisplayOrder: uc.DisplayOrder,
		IsActive:     uc.IsActive,
	}

	err := s.db.
		WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", c.ID).
		Updates(&c).Error
	if err != nil {
		return usecase.AssetConfiguration{}, err
	}

	return c.ConvertToUsecase(), nil
}

func (s *service) DeleteAssetConfiguration(ctx context.Context, id uuid.UUID) error {
	return s.db.
		WithContext(ctx).
		Delete(&AssetConfiguration{}, "id = ?", id).
		Error
}

func (t AssetType) ConvertToUsecase() usecase.AssetType {
	var d *time.Time
	if t.DeletedAt != nil {
		d = &t.DeletedAt.Time
	}
	return usecase.AssetType{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DeletedAt:   d,
	}
}

func (c AssetConfiguration) ConvertToUsecase() usecase.AssetConfiguration {
	var d *time.Time
	if c.DeletedAt != nil {
		d = &c.DeletedAt.Time
	}
	return usecase.AssetConfiguration{
		ID:           c.ID,
		AssetTypeID:  c.AssetTypeID,
		Name:         c.Name,
		Description:  c.Description,
		DataType:     c.DataType,
		Options:      c.Options,
		IsRequired:   c.IsRequired,
		DefaultValue: c.DefaultValue,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		DeletedAt:    d,
	}
}
