package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFileStorage struct {
	files map[string][]byte
}

func (f *fakeFileStorage) UploadFile(_ context.Context, path string, data []byte) error {
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[path] = data
	return nil
}

func (f *fakeFileStorage) GetPresignedURL(_ context.Context, path string) (string, error) {
	return "https://storage.example.com/" + path + "?signed", nil
}

func TestExportAssetsRequiresManager(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser(usecase.RoleUser)
	uc := newTestUsecase(repo)

	_, err := uc.ExportAssets(authCtx(user.ID, user.Role), usecase.ExportAssetsOption{})
	assert.ErrorAs(t, err, &usecase.ErrForbidden{})
}

func TestExportAssetsPipeline(t *testing.T) {
	repo := newFakeRepo()
	manager := repo.addUser(usecase.RoleManager)
	repo.addAsset(usecase.AssetStatusAvailable)
	repo.addAsset(usecase.AssetStatusMaintenance)

	fsp := &fakeFileStorage{}
	uc := usecase.New(repo, nil, fsp, nil, nil)
	ctx := authCtx(manager.ID, manager.Role)

	jobID, err := uc.ExportAssets(ctx, usecase.ExportAssetsOption{})
	require.NoError(t, err)

	id, err := uuid.Parse(jobID)
	require.NoError(t, err)

	job, err := uc.GetJobByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", job.Status)
	assert.Equal(t, "export:assets", job.Type)
	assert.Equal(t, manager.ID, job.CreatedBy)

	// Worker side.
	require.NoError(t, uc.ProcessExportAssetsJob(context.Background(), id))

	job, err = uc.GetJobByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", job.Status)
	require.NotNil(t, job.StartedAt)
	require.NotNil(t, job.FinishedAt)

	require.Len(t, fsp.files, 1)
	for path, data := range fsp.files {
		assert.True(t, strings.HasPrefix(path, "exports/assets-export-"))
		content := string(data)
		assert.Contains(t, content, "Name,Serial Number,Category")
		// Header plus one line per asset.
		assert.Equal(t, 3, strings.Count(content, "\n"))
	}

	url, err := uc.GetJobDownloadURL(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, url, "exports/assets-export-")
}

func TestGetJobDownloadURLBeforeCompletion(t *testing.T) {
	repo := newFakeRepo()
	manager := repo.addUser(usecase.RoleManager)
	fsp := &fakeFileStorage{}
	uc := usecase.New(repo, nil, fsp, nil, nil)
	ctx := authCtx(manager.ID, manager.Role)

	jobID, err := uc.ExportAssets(ctx, usecase.ExportAssetsOption{})
	require.NoError(t, err)
	id, _ := uuid.Parse(jobID)

	_, err = uc.GetJobDownloadURL(ctx, id)
	assert.ErrorAs(t, err, &usecase.ErrConflict{})
}

func TestJobVisibilityScoping(t *testing.T) {
	repo := newFakeRepo()
	manager := repo.addUser(usecase.RoleManager)
	other := repo.addUser(usecase.RoleManager)
	admin := repo.addUser(usecase.RoleSuperAdmin)
	uc := usecase.New(repo, nil, &fakeFileStorage{}, nil, nil)

	jobID, err := uc.ExportAssets(authCtx(manager.ID, manager.Role), usecase.ExportAssetsOption{})
	require.NoError(t, err)
	id, _ := uuid.Parse(jobID)

	// Another manager sees neither the job nor its artifact.
	_, err = uc.GetJobByID(authCtx(other.ID, other.Role), id)
	assert.ErrorAs(t, err, &usecase.ErrForbidden{})

	jobs, _, err := uc.ListJobs(authCtx(other.ID, other.Role), usecase.ListJobsOption{})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	// Super admins see everything.
	_, err = uc.GetJobByID(authCtx(admin.ID, admin.Role), id)
	assert.NoError(t, err)
}
