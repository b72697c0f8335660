package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// AssetType is a configurable category of assets (e.g. "Laptop"),
// carrying a set of typed configuration fields.
type AssetType struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time

	Configurations []AssetConfiguration
}

type AssetConfiguration struct {
	ID           uuid.UUID
	AssetTypeID  uuid.UUID
	Name         string
	Description  string
	DataType     string // text, number, select, boolean
	Options      string
	IsRequired   bool
	DefaultValue string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type ListAssetTypesOption struct {
	Skip  int
	Limit int

	Name            string
	Category        string
	IncludeConfigs  bool
	IncludeInactive bool
}

func (u Usecase) ListAssetTypes(ctx context.Context, opt ListAssetTypesOption) ([]AssetType, int, error) {
	if _, err := u.actor(ctx); err != nil {
		return nil, 0, err
	}
	return u.repo.ListAssetTypes(ctx, opt)
}

func (u Usecase) GetAssetTypeByID(ctx context.Context, id uuid.UUID) (AssetType, error) {
	if _, err := u.actor(ctx); err != nil {
		return AssetType{}, err
	}
	return u.repo.GetAssetTypeByID(ctx, id)
}

func (u Usecase) CreateAssetType(ctx context.Context, at AssetType) (AssetType, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return AssetType{}, err
	}
	if !actor.Can(CapManageAssets) {
		return AssetType{}, ErrForbidden{}
	}

	// Name is unique; report a collision before hitting the constraint
	// so the caller gets a stable message.
	existing, _, err := u.repo.ListAssetTypes(ctx, ListAssetTypesOption{
		Name:            at.Name,
		IncludeInactive: true,
		Limit:           1,
	})
	if err != nil {
		return AssetType{}, err
	}
	if len(existing) > 0 {
		return AssetType{}, ErrConflict{Message: "Asset type with this name already exists"}
	}

	return u.repo.CreateAssetType(ctx, at)
}

func (u Usecase) UpdateAssetType(ctx context.Context, at AssetType) (AssetType, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return AssetType{}, err
	}
	if !actor.Can(CapManageAssets) {
		return AssetType{}, ErrForbidden{}
	}
	return u.repo.UpdateAssetType(ctx, at)
}

func (u Usecase) ListAssetConfigurations(ctx context.Context, assetTypeID uuid.UUID) ([]AssetConfiguration, error) {
	if _, err := u.actor(ctx); err != nil {
		return nil, err
	}
	if _, err := u.repo.GetAssetTypeByID(ctx, assetTypeID); err != nil {
		return nil, err
	}
	return u.repo.ListAssetConfigurations(ctx, assetTypeID)
}

func (u Usecase) CreateAssetConfiguration(ctx context.Context, c AssetConfiguration) (AssetConfiguration, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return AssetConfiguration{}, err
	}
	if !actor.Can(CapManageAssets) {
		return AssetConfiguration{}, ErrForbidden{}
	}
	if _, err := u.repo.GetAssetTypeByID(ctx, c.AssetTypeID); err != nil {
		var nf ErrNotFound
		if errors.As(err, &nf) {
			return AssetConfiguration{}, ErrNotFound{Message: "Asset type not found"}
		}
		return AssetConfiguration{}, err
	}
	return u.repo.CreateAssetConfiguration(ctx, c)
}

func (u Usecase) UpdateAssetConfiguration(ctx context.Context, c AssetConfiguration) (AssetConfiguration, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return AssetConfiguration{}, err
	}
	if !actor.Can(CapManageAssets) {
		return AssetConfiguration{}, ErrForbidden{}
	}
	return u.repo.UpdateAssetConfiguration(ctx, c)
}

func (u Usecase) DeleteAssetConfiguration(ctx context.Context, id uuid.UUID) error {
	actor, err := u.actor(ctx)
	if err != nil {
		return err
	}
	if !actor.Can(CapManageAssets) {
		return ErrForbidden{}
	}
	return u.repo.DeleteAssetConfiguration(ctx, id)
}
