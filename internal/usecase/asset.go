package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// AssetStatus is derived state: it must always agree with whether an
// open assignment exists for the asset. The partial unique index on
// asset_assignments keeps the two from diverging under concurrency.
type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "AVAILABLE"
	AssetStatusAssigned    AssetStatus = "ASSIGNED"
	AssetStatusMaintenance AssetStatus = "MAINTENANCE"
	AssetStatusRetired     AssetStatus = "RETIRED"
	AssetStatusLost        AssetStatus = "LOST"
)

type Asset struct {
	ID             uuid.UUID
	Name           string
	Description    string
	SerialNumber   string
	Model          string
	Brand          string
	Category       string
	Location       string
	Value          *float64
	PurchaseDate   *time.Time
	WarrantyExpiry *time.Time
	Status         AssetStatus
	AssetTypeID    *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time

	AssetType *AssetType
	// Assignment is the open assignment, if any.
	Assignment   *AssetAssignment
	HistoryCount int
}

type ListAssetsOption struct {
	Skip   int
	Limit  int
	SortBy string
	SortIn string

	Name        string
	Category    string
	Status      AssetStatus
	AssetTypeID uuid.UUID
}

func (u Usecase) ListAssets(ctx context.Context, opt ListAssetsOption) ([]Asset, int, error) {
	if _, err := u.actor(ctx); err != nil {
		return nil, 0, err
	}
	return u.repo.ListAssets(ctx, opt)
}

func (u Usecase) GetAssetByID(ctx context.Context, id uuid.UUID) (Asset, error) {
	if _, err := u.actor(ctx); err != nil {
		return Asset{}, err
	}
	return u.repo.GetAssetByID(ctx, id)
}

// CreateAsset registers a new asset in AVAILABLE state and writes the
// "created" history entry in the same transaction.
func (u Usecase) CreateAsset(ctx context.Context, asset Asset) (Asset, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return Asset{}, err
	}
	if !actor.Can(CapManageAssets) {
		return Asset{}, ErrForbidden{}
	}
	if asset.Name == "" || asset.Category == "" {
		return Asset{}, ErrValidation{Message: "Name and category are required"}
	}
	if asset.AssetTypeID != nil {
		if _, err := u.repo.GetAssetTypeByID(ctx, *asset.AssetTypeID); err != nil {
			return Asset{}, err
		}
	}

	asset.Status = AssetStatusAvailable

	creator, err := u.repo.GetUserByID(ctx, actor.ID)
	if err != nil {
		return Asset{}, err
	}

	return u.repo.CreateAsset(ctx, asset, AssetHistory{
		UserID:  actor.ID,
		Action:  "created",
		Details: fmt.Sprintf("Asset created by %s", displayName(creator)),
	})
}

func (u Usecase) UpdateAsset(ctx context.Context, asset Asset) (Asset, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return Asset{}, err
	}
	if !actor.Can(CapManageAssets) {
		return Asset{}, ErrForbidden{}
	}
	return u.repo.UpdateAsset(ctx, asset)
}

// RetireAsset moves an asset into the terminal RETIRED state. An asset
// currently held by someone must be returned or revoked first.
func (u Usecase) RetireAsset(ctx context.Context, id uuid.UUID, reason string) error {
	actor, err := u.actor(ctx)
	if err != nil {
		return err
	}
	if !actor.Can(CapManageAssets) {
		return ErrForbidden{}
	}

	asset, err := u.repo.GetAssetByID(ctx, id)
	if err != nil {
		return err
	}
	if asset.Status == AssetStatusAssigned {
		return ErrConflict{Message: "Asset is currently assigned"}
	}
	if asset.Status == AssetStatusRetired {
		return ErrConflict{Message: "Asset is already retired"}
	}

	details := "Asset retired"
	if reason != "" {
		details += ". Reason: " + reason
	}
	return u.repo.UpdateAssetStatus(ctx, id, AssetStatusRetired, AssetHistory{
		UserID:  actor.ID,
		Action:  "retired",
		Details: details,
	})
}

// MarkAssetAvailable completes maintenance or recovers a lost asset,
// putting it back into circulation.
func (u Usecase) MarkAssetAvailable(ctx context.Context, id uuid.UUID, notes string) error {
	actor, err := u.actor(ctx)
	if err != nil {
		return err
	}
	if !actor.Can(CapManageAssets) {
		return ErrForbidden{}
	}

	asset, err := u.repo.GetAssetByID(ctx, id)
	if err != nil {
		return err
	}
	if asset.Status != AssetStatusMaintenance && asset.Status != AssetStatusLost {
		return ErrConflict{Message: fmt.Sprintf("Asset cannot be recovered from %s", asset.Status)}
	}

	details := "Asset marked available"
	if notes != "" {
		details += ": " + notes
	}
	return u.repo.UpdateAssetStatus(ctx, id, AssetStatusAvailable, AssetHistory{
		UserID:  actor.ID,
		Action:  "recovered",
		Details: details,
	})
}

// AssetTagPNG renders the printable QR tag for an asset. The code
// encodes the asset id; scanners resolve it against the API.
func (u Usecase) AssetTagPNG(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := u.actor(ctx); err != nil {
		return nil, err
	}
	asset, err := u.repo.GetAssetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(asset.ID.String(), qrcode.Medium, 256)
}

func displayName(u User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
