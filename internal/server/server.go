package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/assetdesk/assetdesk/internal/config"
	"github.com/assetdesk/assetdesk/internal/database"
	"github.com/assetdesk/assetdesk/internal/email"
	"github.com/assetdesk/assetdesk/internal/filestorage"
	"github.com/assetdesk/assetdesk/internal/firebase"
	"github.com/assetdesk/assetdesk/internal/queue"
	"github.com/assetdesk/assetdesk/internal/usecase"
)

// Service is what the handlers need from the domain layer.
type Service interface {
	Health() map[string]string
	Close() error

	RegisterUser(context.Context, usecase.RegisterUser) (usecase.User, error)
	VerifyIDToken(context.Context, string) (string, error)
	GetAuthUserByUID(context.Context, string) (usecase.AuthUser, error)
	GetMe(context.Context) (usecase.User, error)

	ListUsers(context.Context, usecase.ListUsersOption) ([]usecase.User, int, error)
	GetUserByID(context.Context, uuid.UUID) (usecase.User, error)
	ChangeUserRole(context.Context, uuid.UUID, usecase.Role) (usecase.User, error)
	ListUserAssets(context.Context, uuid.UUID) ([]usecase.AssetAssignment, int, error)

	ListAssetTypes(context.Context, usecase.ListAssetTypesOption) ([]usecase.AssetType, int, error)
	GetAssetTypeByID(context.Context, uuid.UUID) (usecase.AssetType, error)
	CreateAssetType(context.Context, usecase.AssetType) (usecase.AssetType, error)
	UpdateAssetType(context.Context, usecase.AssetType) (usecase.AssetType, error)
	ListAssetConfigurations(context.Context, uuid.UUID) ([]usecase.AssetConfiguration, error)
	CreateAssetConfiguration(context.Context, usecase.AssetConfiguration) (usecase.AssetConfiguration, error)
	UpdateAssetConfiguration(context.Context, usecase.AssetConfiguration) (usecase.AssetConfiguration, error)
	DeleteAssetConfiguration(context.Context, uuid.UUID) error

	ListAssets(context.Context, usecase.ListAssetsOption) ([]usecase.Asset, int, error)
	GetAssetByID(context.Context, uuid.UUID) (usecase.Asset, error)
	CreateAsset(context.Context, usecase.Asset) (usecase.Asset, error)
	UpdateAsset(context.Context, usecase.Asset) (usecase.Asset, error)
	RetireAsset(context.Context, uuid.UUID, string) error
	MarkAssetAvailable(context.Context, uuid.UUID, string) error
	AssetTagPNG(context.Context, uuid.UUID) ([]byte, error)

	AssignAsset(ctx context.Context, assetID, userID uuid.UUID, notes string) (usecase.AssetAssignment, error)
	ReturnAsset(ctx context.Context, assetID uuid.UUID, condition usecase.ReturnCondition, notes string) (usecase.AssetAssignment, error)
	RevokeAsset(ctx context.Context, assetID uuid.UUID, reason string) (usecase.AssetAssignment, error)
	ListAssignments(context.Context, usecase.ListAssignmentsOption) ([]usecase.AssetAssignment, int, error)

	ListAssetHistory(context.Context, usecase.ListAssetHistoryOption) ([]usecase.AssetHistory, int, error)

	SubmitRequest(context.Context, usecase.SubmitRequestOption) (usecase.Request, error)
	ListRequests(context.Context, usecase.ListRequestsOption) ([]usecase.Request, int, error)
	GetRequestByID(context.Context, uuid.UUID) (usecase.Request, error)
	DecideRequest(context.Context, uuid.UUID, usecase.RequestStatus) (usecase.Request, error)
	AdvanceRequest(context.Context, uuid.UUID, usecase.RequestStatus) (usecase.Request, error)
	CancelRequest(context.Context, uuid.UUID) (usecase.Request, error)

	ExportAssets(context.Context, usecase.ExportAssetsOption) (string, error)
	ListJobs(context.Context, usecase.ListJobsOption) ([]usecase.Job, int, error)
	GetJobByID(context.Context, uuid.UUID) (usecase.Job, error)
	GetJobDownloadURL(context.Context, uuid.UUID) (string, error)

	ListNotifications(context.Context, usecase.ListNotificationsOption) ([]usecase.Notification, int, int, error)
	ReadNotification(context.Context, uuid.UUID) error
}

type Server struct {
	port int

	server    Service
	validator *validator.Validate
	logger    *slog.Logger
	redis     *redis.Client
}

func NewApp() *http.Server {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if endpoint := os.Getenv(config.ENV_KEY_OTLP_ENDPOINT); endpoint != "" {
		if _, err := InitTracing(endpoint); err != nil {
			logger.Error("failed to init tracing", "err", err)
		}
	}

	repo := database.New(logger)

	fb := firebase.New()
	mp := email.NewEmailProvider(
		os.Getenv(config.ENV_KEY_SMTP_HOST),
		os.Getenv(config.ENV_KEY_SMTP_USERNAME),
		os.Getenv(config.ENV_KEY_SMTP_PASSWORD),
		os.Getenv(config.ENV_KEY_SMTP_PORT),
	)

	var (
		bucket     = os.Getenv(config.ENV_KEY_STORAGE_BUCKET)
		exportPath = os.Getenv(config.ENV_KEY_EXPORT_PATH)
	)
	var fsp usecase.FileStorageProvider
	switch os.Getenv(config.ENV_KEY_STORAGE_PROVIDER) {
	case "s3":
		fsp = filestorage.New(bucket, exportPath)
	default:
		fsp = filestorage.NewMinIOStorage(
			bucket,
			exportPath,
			os.Getenv(config.ENV_KEY_MINIO_ENDPOINT),
			os.Getenv(config.ENV_KEY_MINIO_ACCESS_KEY),
			os.Getenv(config.ENV_KEY_MINIO_SECRET_KEY),
		)
	}

	redisAddr := fmt.Sprintf("%s:%s",
		os.Getenv(config.ENV_KEY_REDIS_HOST),
		os.Getenv(config.ENV_KEY_REDIS_PORT),
	)
	redisPassword := os.Getenv(config.ENV_KEY_REDIS_PASSWORD)

	qc := queue.NewClient(redisAddr, redisPassword)

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
	})

	sv := usecase.New(repo, fb, fsp, mp, qc)
	v := validator.New()

	port, _ := strconv.Atoi(os.Getenv(config.ENV_KEY_PORT))
	app := &Server{
		port:      port,
		server:    sv,
		validator: v,
		logger:    logger,
		redis:     rdb,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", app.port),
		Handler:      app.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
