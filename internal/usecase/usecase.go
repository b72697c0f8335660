package usecase

import (
	"context"
	"fmt"

	"github.com/assetdesk/assetdesk/internal/config"

	"github.com/google/uuid"
)

func New(
	repo Repository,
	ip IdentityProvider,
	fsp FileStorageProvider,
	mp EmailProvider,
	qc QueueClient,
) Usecase {
	return Usecase{
		repo:                repo,
		identityProvider:    ip,
		fileStorageProvider: fsp,
		mailProvider:        mp,
		queueClient:         qc,
	}
}

type Repository interface {
	Health() map[string]string
	Close() error

	ListUsers(context.Context, ListUsersOption) ([]User, int, error)
	GetUserByID(context.Context, uuid.UUID) (User, error)
	CreateUser(context.Context, User) (User, error)
	UpdateUser(context.Context, User) (User, error)

	CreateAuthUser(context.Context, AuthUser) (AuthUser, error)
	GetAuthUserByUID(context.Context, string) (AuthUser, error)

	ListAssetTypes(context.Context, ListAssetTypesOption) ([]AssetType, int, error)
	GetAssetTypeByID(context.Context, uuid.UUID) (AssetType, error)
	CreateAssetType(context.Context, AssetType) (AssetType, error)
	UpdateAssetType(context.Context, AssetType) (AssetType, error)

	ListAssetConfigurations(context.Context, uuid.UUID) ([]AssetConfiguration, error)
	CreateAssetConfiguration(context.Context, AssetConfiguration) (AssetConfiguration, error)
	UpdateAssetConfiguration(context.Context, AssetConfiguration) (AssetConfiguration, error)
	DeleteAssetConfiguration(context.Context, uuid.UUID) error

	ListAssets(context.Context, ListAssetsOption) ([]Asset, int, error)
	GetAssetByID(context.Context, uuid.UUID) (Asset, error)
	CreateAsset(context.Context, Asset, AssetHistory) (Asset, error)
	UpdateAsset(context.Context, Asset) (Asset, error)
	UpdateAssetStatus(context.Context, uuid.UUID, AssetStatus, AssetHistory) error

	AssignAsset(context.Context, AssetAssignment, AssetHistory) (AssetAssignment, error)
	CloseAssignment(context.Context, CloseAssignmentOption) (AssetAssignment, error)
	ListAssignments(context.Context, ListAssignmentsOption) ([]AssetAssignment, int, error)

	ListAssetHistory(context.Context, ListAssetHistoryOption) ([]AssetHistory, int, error)

	ListRequests(context.Context, ListRequestsOption) ([]Request, int, error)
	GetRequestByID(context.Context, uuid.UUID) (Request, error)
	CreateRequest(context.Context, Request) (Request, error)
	// UpdateRequest only applies while the row is still in the given
	// status, so concurrent transitions cannot both win.
	UpdateRequest(ctx context.Context, req Request, from RequestStatus) (Request, error)

	CreateJob(context.Context, Job) (Job, error)
	GetJobByID(context.Context, uuid.UUID) (Job, error)
	UpdateJob(context.Context, Job) (Job, error)
	ListJobs(context.Context, ListJobsOption) ([]Job, int, error)

	CreateNotification(context.Context, Notification) (Notification, error)
	GetNotificationByID(context.Context, uuid.UUID) (Notification, error)
	ListNotifications(context.Context, ListNotificationsOption) ([]Notification, int, int, error)
	ReadNotification(context.Context, uuid.UUID) error
}

// IdentityProvider is the external authenticator. It owns credentials;
// this service only resolves verified uids to local users.
type IdentityProvider interface {
	CreateUser(ctx context.Context, ru RegisterUser) (string, error)
	VerifyIDToken(ctx context.Context, token string) (string, error)
}

type FileStorageProvider interface {
	UploadFile(ctx context.Context, path string, data []byte) error
	GetPresignedURL(ctx context.Context, path string) (string, error)
}

type EmailProvider interface {
	SendEmail(ctx context.Context, email Email) error
}

type QueueClient interface {
	EnqueueJob(ctx context.Context, jobID uuid.UUID, jobType string, payload []byte) error
}

type Usecase struct {
	repo                Repository
	identityProvider    IdentityProvider
	fileStorageProvider FileStorageProvider
	mailProvider        EmailProvider
	queueClient         QueueClient
}

func (u Usecase) Health() map[string]string {
	return u.repo.Health()
}

func (u Usecase) Close() error {
	return u.repo.Close()
}

// Actor is the verified identity of the caller, re-derived from the
// credential on every request by the auth middleware.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) Can(cap Capability) bool {
	return Allowed(a.Role, cap)
}

func (u Usecase) actor(ctx context.Context) (Actor, error) {
	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return Actor{}, ErrUnauthenticated{Message: "user id not found in context"}
	}
	role, ok := ctx.Value(config.CTX_KEY_USER_ROLE).(Role)
	if !ok {
		return Actor{}, ErrUnauthenticated{Message: "user role not found in context"}
	}
	if role.Rank() == 0 {
		return Actor{}, ErrUnauthenticated{Message: fmt.Sprintf("unknown role %q", role)}
	}
	return Actor{ID: userID, Role: role}, nil
}
