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

type AssetAssignment struct {
	ID         uuid.UUID       `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	AssetID    uuid.UUID       `gorm:"column:asset_id;type:uuid;NOT NULL;index"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:uuid;NOT NULL;index"`
	AssignedAt time.Time       `gorm:"column:assigned_at;default:now()"`
	ReturnedAt *time.Time      `gorm:"column:returned_at"`
	Notes      string          `gorm:"column:notes;type:text"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
	DeletedAt  *gorm.DeletedAt `gorm:"column:deleted_at"`

	Asset *Asset `gorm:"foreignKey:AssetID;references:ID"`
	User  *User  `gorm:"foreignKey:UserID;references:ID"`
}

func (AssetAssignment) TableName() string {
	return "asset_assignments"
}

// AssignAsset creates the assignment, flips the asset to ASSIGNED and
// writes the history entry in one transaction. The partial unique index
// on (asset_id) WHERE returned_at IS NULL serializes concurrent assigns;
// the losing transaction rolls back with a unique violation.
func (s *service) AssignAsset(ctx context.Context, asg usecase.AssetAssignment, h usecase.AssetHistory) (usecase.AssetAssignment, error) {
	a := AssetAssignment{
		AssetID:    asg.AssetID,
		UserID:     asg.UserID,
		AssignedAt: asg.AssignedAt,
		Notes:      asg.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		if err := tx.Model(&Asset{}).
			Where("id = ?", a.AssetID).
			Update("status", string(usecase.AssetStatusAssigned)).Error; err != nil {
			return err
		}
		return tx.Create(&AssetHistory{
			AssetID: a.AssetID,
			UserID:  h.UserID,
			Action:  h.Action,
			Details: h.Details,
		}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return usecase.AssetAssignment{}, usecase.ErrConflict{Message: "Asset is already assigned to another user"}
		}
		return usecase.AssetAssignment{}, err
	}

	return a.ConvertToUsecase(), nil
}

// CloseAssignment stamps returned_at, moves the asset to its next
// status and writes the history entry in one transaction. Closing an
// already-closed assignment is a conflict, not an update.
func (s *service) CloseAssignment(ctx context.Context, opt usecase.CloseAssignmentOption) (usecase.AssetAssignment, error) {
	var a AssetAssignment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Clauses(clause.Returning{}).
			Model(&a).
			Where("id = ? AND returned_at IS NULL", opt.AssignmentID).
			Updates(map[string]any{
				"returned_at": opt.ReturnedAt,
				"notes":       opt.Notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrConflict{Message: "Asset is not currently assigned"}
		}
		if err := tx.Model(&Asset{}).
			Where("id = ?", a.AssetID).
			Update("status", string(opt.NewStatus)).Error; err != nil {
			return err
		}
		return tx.Create(&AssetHistory{
			AssetID: a.AssetID,
			UserID:  opt.History.UserID,
			Action:  opt.History.Action,
			Details: opt.History.Details,
		}).Error
	})
	if err != nil {
		return usecase.AssetAssignment{}, err
	}

	return a.ConvertToUsecase(), nil
}

func (s *service) ListAssignments(ctx context.Context, opt usecase.ListAssignmentsOption) ([]usecase.AssetAssignment, int, error) {
	var (
		asgs  []AssetAssignment
		uasgs []usecase.AssetAssignment
		count int64
	)

	db := s.db.Model([]AssetAssignment{}).WithContext(ctx)

	if opt.AssetID != uuid.Nil {
		db = db.Where("asset_id = ?", opt.AssetID)
	}
	if opt.UserID != uuid.Nil {
		db = db.Where("user_id = ?", opt.UserID)
	}
	if opt.IsActive {
		db = db.Where("returned_at IS NULL")
	}

	var (
		orderIn = "DESC"
		orderBy = "assigned_at"
	)
	if slices.Contains([]string{"ASC", "DESC"}, opt.SortIn) {
		orderIn = opt.SortIn
	}
	if slices.Contains([]string{"assigned_at", "returned_at", "created_at"}, opt.SortBy) {
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
		Preload("Asset").
		Preload("User").
		Find(&asgs).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, a := range asgs {
		ua := a.ConvertToUsecase()
		if a.Asset != nil {
			asset := a.Asset.ConvertToUsecase()
			ua.Asset = &asset
		}
		if a.User != nil {
			user := a.User.ConvertToUsecase()
			ua.User = &user
		}
		uasgs = append(uasgs, ua)
	}

	return uasgs, int(count), nil
}

func (a AssetAssignment) ConvertToUsecase() usecase.AssetAssignment {
	var d *time.Time
	if a.DeletedAt != nil {
		d = &a.DeletedAt.Time
	}
	return usecase.AssetAssignment{
		ID:         a.ID,
		AssetID:    a.AssetID,
		UserID:     a.UserID,
		AssignedAt: a.AssignedAt,
		ReturnedAt: a.ReturnedAt,
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
		DeletedAt:  d,
	}
}
