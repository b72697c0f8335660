package database

import (
	"context"
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
)

// AssetHistory rows are append-only: written inside the transaction of
// the state change they record, never updated or deleted. No gorm
// DeletedAt on purpose.
type AssetHistory struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	AssetID   uuid.UUID `gorm:"column:asset_id;type:uuid;NOT NULL;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;NOT NULL"`
	Action    string    `gorm:"column:action;type:varchar(50);NOT NULL"`
	Details   string    `gorm:"column:details;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
}

func (AssetHistory) TableName() string {
	return "asset_histories"
}

func (s *service) ListAssetHistory(ctx context.Context, opt usecase.ListAssetHistoryOption) ([]usecase.AssetHistory, int, error) {
	var (
		entries  []AssetHistory
		uentries []usecase.AssetHistory
		count    int64
	)

	db := s.db.Model([]AssetHistory{}).WithContext(ctx)

	if opt.AssetID != uuid.Nil {
		db = db.Where("asset_id = ?", opt.AssetID)
	}
	if opt.UserID != uuid.Nil {
		db = db.Where("user_id = ?", opt.UserID)
	}
	if opt.Action != "" {
		db = db.Where("action = ?", opt.Action)
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

	err := db.
		Order("created_at DESC").
		Preload("User").
		Find(&entries).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, e := range entries {
		ue := e.ConvertToUsecase()
		if e.User != nil {
			user := e.User.ConvertToUsecase()
			ue.User = &user
		}
		uentries = append(uentries, ue)
	}

	return uentries, int(count), nil
}

func (h AssetHistory) ConvertToUsecase() usecase.AssetHistory {
	return usecase.AssetHistory{
		ID:        h.ID,
		AssetID:   h.AssetID,
		UserID:    h.UserID,
		Action:    h.Action,
		Details:   h.Details,
		CreatedAt: h.CreatedAt,
	}
}
