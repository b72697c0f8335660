package usecase_test

import (
	"testing"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAsset(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	uc := newTestUsecase(repo)

	asset, err := uc.CreateAsset(authCtx(admin.ID, admin.Role), usecase.Asset{
		Name:     "ThinkPad X1",
		Category: "laptop",
		// A caller-supplied status must not stick.
		Status: usecase.AssetStatusRetired,
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.AssetStatusAvailable, asset.Status)
	assert.Equal(t, []string{"created"}, repo.historyActions(asset.ID))
}

func TestCreateAssetValidation(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	user := repo.addUser(usecase.RoleUser)
	uc := newTestUsecase(repo)

	_, err := uc.CreateAsset(authCtx(user.ID, user.Role), usecase.Asset{Name: "x", Category: "y"})
	assert.ErrorAs(t, err, &usecase.ErrForbidden{})

	_, err = uc.CreateAsset(authCtx(admin.ID, admin.Role), usecase.Asset{Name: "no category"})
	assert.ErrorAs(t, err, &usecase.ErrValidation{})

	_, err = uc.CreateAsset(authCtx(admin.ID, admin.Role), usecase.Asset{Category: "no name"})
	assert.ErrorAs(t, err, &usecase.ErrValidation{})
}

func TestCreateAssetUnknownType(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	uc := newTestUsecase(repo)

	ghost := repo.addAsset(usecase.AssetStatusAvailable).ID
	_, err := uc.CreateAsset(authCtx(admin.ID, admin.Role), usecase.Asset{
		Name:        "Monitor",
		Category:    "display",
		AssetTypeID: &ghost,
	})
	assert.ErrorAs(t, err, &usecase.ErrNotFound{})
}

func TestRetireAsset(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)
	ctx := authCtx(admin.ID, admin.Role)

	require.NoError(t, uc.RetireAsset(ctx, asset.ID, "end of life"))

	got, err := uc.GetAssetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.AssetStatusRetired, got.Status)
	assert.Contains(t, repo.historyActions(asset.ID), "retired")

	// Retired is terminal.
	err = uc.RetireAsset(ctx, asset.ID, "")
	assert.ErrorAs(t, err, &usecase.ErrConflict{})
}

func TestRetireAssignedAsset(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	holder := repo.addUser(usecase.RoleUser)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)
	ctx := authCtx(admin.ID, admin.Role)

	_, err := uc.AssignAsset(ctx, asset.ID, holder.ID, "")
	require.NoError(t, err)

	err = uc.RetireAsset(ctx, asset.ID, "")
	assert.ErrorAs(t, err, &usecase.ErrConflict{})
}

func TestMarkAssetAvailable(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	uc := newTestUsecase(repo)
	ctx := authCtx(admin.ID, admin.Role)

	for _, status := range []usecase.AssetStatus{
		usecase.AssetStatusMaintenance,
		usecase.AssetStatusLost,
	} {
		asset := repo.addAsset(status)
		require.NoError(t, uc.MarkAssetAvailable(ctx, asset.ID, "fixed"))

		got, err := uc.GetAssetByID(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, usecase.AssetStatusAvailable, got.Status)
		assert.Contains(t, repo.historyActions(asset.ID), "recovered")
	}

	// Available and retired assets have nothing to recover from.
	for _, status := range []usecase.AssetStatus{
		usecase.AssetStatusAvailable,
		usecase.AssetStatusRetired,
	} {
		asset := repo.addAsset(status)
		err := uc.MarkAssetAvailable(ctx, asset.ID, "")
		assert.ErrorAs(t, err, &usecase.ErrConflict{}, "status %s", status)
	}
}

func TestAssetTagPNG(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser(usecase.RoleUser)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)

	png, err := uc.AssetTagPNG(authCtx(user.ID, user.Role), asset.ID)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestCreateAssetTypeNameCollision(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	uc := newTestUsecase(repo)
	ctx := authCtx(admin.ID, admin.Role)

	_, err := uc.CreateAssetType(ctx, usecase.AssetType{Name: "Laptop", Category: "computing", IsActive: true})
	require.NoError(t, err)

	_, err = uc.CreateAssetType(ctx, usecase.AssetType{Name: "Laptop", Category: "computing", IsActive: true})
	assert.ErrorAs(t, err, &usecase.ErrConflict{})
}

func TestAssetConfigurationRequiresParentType(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	uc := newTestUsecase(repo)
	ctx := authCtx(admin.ID, admin.Role)

	missing := repo.addAsset(usecase.AssetStatusAvailable).ID
	_, err := uc.CreateAssetConfiguration(ctx, usecase.AssetConfiguration{
		AssetTypeID: missing,
		Name:        "RAM",
		DataType:    "number",
	})
	assert.ErrorAs(t, err, &usecase.ErrNotFound{})

	at, err := uc.CreateAssetType(ctx, usecase.AssetType{Name: "Server", Category: "computing", IsActive: true})
	require.NoError(t, err)

	cfg, err := uc.CreateAssetConfiguration(ctx, usecase.AssetConfiguration{
		AssetTypeID: at.ID,
		Name:        "RAM",
		DataType:    "number",
	})
	require.NoError(t, err)
	assert.Equal(t, at.ID, cfg.AssetTypeID)
}
