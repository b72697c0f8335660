package usecase_test

import (
	"sync"
	"testing"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignAsset(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	holder := repo.addUser(usecase.RoleUser)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)

	ctx := authCtx(admin.ID, admin.Role)

	assignment, err := uc.AssignAsset(ctx, asset.ID, holder.ID, "new starter kit")
	require.NoError(t, err)
	assert.Equal(t, asset.ID, assignment.AssetID)
	assert.Equal(t, holder.ID, assignment.UserID)
	assert.Nil(t, assignment.ReturnedAt)

	got, err := uc.GetAssetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.AssetStatusAssigned, got.Status)
	require.NotNil(t, got.Assignment)
	assert.Equal(t, holder.ID, got.Assignment.UserID)

	assert.Contains(t, repo.historyActions(asset.ID), "assigned")
}

func TestAssignAssetRequiresSuperAdmin(t *testing.T) {
	repo := newFakeRepo()
	manager := repo.addUser(usecase.RoleManager)
	holder := repo.addUser(usecase.RoleUser)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)

	_, err := uc.AssignAsset(authCtx(manager.ID, manager.Role), asset.ID, holder.ID, "")
	assert.ErrorAs(t, err, &usecase.ErrForbidden{})
}

func TestAssignAssetNotAvailable(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	holder := repo.addUser(usecase.RoleUser)
	uc := newTestUsecase(repo)
	ctx := authCtx(admin.ID, admin.Role)

	for _, status := range []usecase.AssetStatus{
		usecase.AssetStatusMaintenance,
		usecase.AssetStatusRetired,
		usecase.AssetStatusLost,
	} {
		asset := repo.addAsset(status)
		_, err := uc.AssignAsset(ctx, asset.ID, holder.ID, "")
		assert.ErrorAs(t, err, &usecase.ErrConflict{}, "status %s", status)
	}
}

func TestAssignAssetAlreadyAssigned(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	first := repo.addUser(usecase.RoleUser)
	second := repo.addUser(usecase.RoleUser)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)
	ctx := authCtx(admin.ID, admin.Role)

	_, err := uc.AssignAsset(ctx, asset.ID, first.ID, "")
	require.NoError(t, err)

	_, err = uc.AssignAsset(ctx, asset.ID, second.ID, "")
	assert.ErrorAs(t, err, &usecase.ErrConflict{})
}

func TestAssignAssetConcurrent(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)
	ctx := authCtx(admin.ID, admin.Role)

	holders := make([]usecase.User, 4)
	for i := range holders {
		holders[i] = repo.addUser(usecase.RoleUser)
	}

	// All four assigns race the same asset; the open-assignment
	// constraint lets exactly one through.
	errs := make([]error, len(holders))
	var wg sync.WaitGroup
	for i, h := range holders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = uc.AssignAsset(ctx, asset.ID, h.ID, "")
		}()
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorAs(t, err, &usecase.ErrConflict{})
		}
	}
	assert.Equal(t, 1, won)

	got, err := uc.GetAssetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.AssetStatusAssigned, got.Status)
	require.NotNil(t, got.Assignment)
}

func TestAssignAssetTargetNotFound(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)

	ghost := repo.addUser(usecase.RoleUser)
	repo.mu.Lock()
	delete(repo.users, ghost.ID)
	repo.mu.Unlock()

	_, err := uc.AssignAsset(authCtx(admin.ID, admin.Role), asset.ID, ghost.ID, "")
	assert.ErrorAs(t, err, &usecase.ErrNotFound{})
}

func TestReturnAssetByHolder(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	holder := repo.addUser(usecase.RoleUser)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)

	_, err := uc.AssignAsset(authCtx(admin.ID, admin.Role), asset.ID, holder.ID, "")
	require.NoError(t, err)

	closed, err := uc.ReturnAsset(authCtx(holder.ID, holder.Role), asset.ID, usecase.ConditionGood, "all fine")
	require.NoError(t, err)
	require.NotNil(t, closed.ReturnedAt)

	got, err := uc.GetAssetByID(authCtx(admin.ID, admin.Role), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.AssetStatusAvailable, got.Status)
	assert.Nil(t, got.Assignment)
	assert.Contains(t, repo.historyActions(asset.ID), "returned")
}

func TestReturnAssetConditionDrivesStatus(t *testing.T) {
	tests := []struct {
		condition usecase.ReturnCondition
		want      usecase.AssetStatus
	}{
		{usecase.ConditionGood, usecase.AssetStatusAvailable},
		{usecase.ConditionDamaged, usecase.AssetStatusMaintenance},
		{usecase.ConditionLost, usecase.AssetStatusLost},
	}

	for _, tt := range tests {
		t.Run(string(tt.condition), func(t *testing.T) {
			repo := newFakeRepo()
			admin := repo.addUser(usecase.RoleSuperAdmin)
			holder := repo.addUser(usecase.RoleUser)
			asset := repo.addAsset(usecase.AssetStatusAvailable)
			uc := newTestUsecase(repo)
			ctx := authCtx(admin.ID, admin.Role)

			_, err := uc.AssignAsset(ctx, asset.ID, holder.ID, "")
			require.NoError(t, err)

			_, err = uc.ReturnAsset(ctx, asset.ID, tt.condition, "")
			require.NoError(t, err)

			got, err := uc.GetAssetByID(ctx, asset.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestReturnAssetForbiddenForStranger(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	holder := repo.addUser(usecase.RoleUser)
	stranger := repo.addUser(usecase.RoleUser)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)

	_, err := uc.AssignAsset(authCtx(admin.ID, admin.Role), asset.ID, holder.ID, "")
	require.NoError(t, err)

	_, err = uc.ReturnAsset(authCtx(stranger.ID, stranger.Role), asset.ID, usecase.ConditionGood, "")
	assert.ErrorAs(t, err, &usecase.ErrForbidden{})
}

func TestReturnAssetNotAssigned(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)

	_, err := uc.ReturnAsset(authCtx(admin.ID, admin.Role), asset.ID, usecase.ConditionGood, "")
	assert.ErrorAs(t, err, &usecase.ErrConflict{})
}

func TestReturnAssetTwice(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	holder := repo.addUser(usecase.RoleUser)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)
	ctx := authCtx(admin.ID, admin.Role)

	_, err := uc.AssignAsset(ctx, asset.ID, holder.ID, "")
	require.NoError(t, err)
	_, err = uc.ReturnAsset(ctx, asset.ID, usecase.ConditionGood, "")
	require.NoError(t, err)

	_, err = uc.ReturnAsset(ctx, asset.ID, usecase.ConditionGood, "")
	assert.ErrorAs(t, err, &usecase.ErrConflict{})
}

func TestRevokeAsset(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	holder := repo.addUser(usecase.RoleUser)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)
	ctx := authCtx(admin.ID, admin.Role)

	_, err := uc.AssignAsset(ctx, asset.ID, holder.ID, "")
	require.NoError(t, err)

	closed, err := uc.RevokeAsset(ctx, asset.ID, "offboarding")
	require.NoError(t, err)
	require.NotNil(t, closed.ReturnedAt)
	assert.Contains(t, closed.Notes, "offboarding")

	got, err := uc.GetAssetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.AssetStatusAvailable, got.Status)
	assert.Contains(t, repo.historyActions(asset.ID), "revoked")
}

func TestRevokeAssetRequiresSuperAdmin(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	holder := repo.addUser(usecase.RoleUser)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)

	_, err := uc.AssignAsset(authCtx(admin.ID, admin.Role), asset.ID, holder.ID, "")
	require.NoError(t, err)

	_, err = uc.RevokeAsset(authCtx(holder.ID, holder.Role), asset.ID, "")
	assert.ErrorAs(t, err, &usecase.ErrForbidden{})
}

func TestListUserAssetsScoping(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addUser(usecase.RoleSuperAdmin)
	holder := repo.addUser(usecase.RoleUser)
	other := repo.addUser(usecase.RoleUser)
	asset := repo.addAsset(usecase.AssetStatusAvailable)
	uc := newTestUsecase(repo)

	_, err := uc.AssignAsset(authCtx(admin.ID, admin.Role), asset.ID, holder.ID, "")
	require.NoError(t, err)

	own, _, err := uc.ListUserAssets(authCtx(holder.ID, holder.Role), holder.ID)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	// Admins may inspect anyone's holdings.
	byAdmin, _, err := uc.ListUserAssets(authCtx(admin.ID, admin.Role), holder.ID)
	require.NoError(t, err)
	assert.Len(t, byAdmin, 1)

	// Another plain user may not.
	_, _, err = uc.ListUserAssets(authCtx(other.ID, other.Role), holder.ID)
	assert.ErrorAs(t, err, &usecase.ErrForbidden{})
}
