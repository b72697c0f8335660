package usecase_test

import (
	"context"
	"testing"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNotificationsOwnOnly(t *testing.T) {
	repo := newFakeRepo()
	alice := repo.addUser(usecase.RoleUser)
	bob := repo.addUser(usecase.RoleUser)
	uc := newTestUsecase(repo)

	require.NoError(t, uc.CreateNotification(context.Background(), usecase.Notification{
		UserID: alice.ID, Title: "Asset Assigned", Message: "A laptop is yours now",
	}))
	require.NoError(t, uc.CreateNotification(context.Background(), usecase.Notification{
		UserID: bob.ID, Title: "Request Approved", Message: "Approved",
	}))

	list, unread, total, err := uc.ListNotifications(authCtx(alice.ID, alice.Role), usecase.ListNotificationsOption{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, unread)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Asset Assigned", list[0].Title)
}

func TestReadNotification(t *testing.T) {
	repo := newFakeRepo()
	alice := repo.addUser(usecase.RoleUser)
	bob := repo.addUser(usecase.RoleUser)
	uc := newTestUsecase(repo)

	require.NoError(t, uc.CreateNotification(context.Background(), usecase.Notification{
		UserID: alice.ID, Title: "Export Ready", Message: "download it",
	}))

	list, _, _, err := uc.ListNotifications(authCtx(alice.ID, alice.Role), usecase.ListNotificationsOption{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	// Reading someone else's notification is forbidden.
	err = uc.ReadNotification(authCtx(bob.ID, bob.Role), id)
	assert.ErrorAs(t, err, &usecase.ErrForbidden{})

	require.NoError(t, uc.ReadNotification(authCtx(alice.ID, alice.Role), id))

	_, unread, _, err := uc.ListNotifications(authCtx(alice.ID, alice.Role), usecase.ListNotificationsOption{})
	require.NoError(t, err)
	assert.Equal(t, 0, unread)
}
