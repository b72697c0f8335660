package queue

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"

	"github.com/assetdesk/assetdesk/internal/config"
	"github.com/assetdesk/assetdesk/internal/database"
	"github.com/assetdesk/assetdesk/internal/email"
	"github.com/assetdesk/assetdesk/internal/filestorage"
	"github.com/assetdesk/assetdesk/internal/firebase"
	"github.com/assetdesk/assetdesk/internal/queue/handlers"
	"github.com/assetdesk/assetdesk/internal/usecase"
)

// Server wraps asynq.Server for processing tasks
type Server struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
}

// Worker represents a worker application with all its dependencies
type Worker struct {
	server *Server
	repo   interface{ Close() error }
}

// NewWorker creates a fully configured worker with all dependencies
func NewWorker() (*Worker, error) {
	log.Println("Initializing worker dependencies...")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

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

	// Workers never enqueue, so no queue client.
	uc := usecase.New(repo, fb, fsp, mp, nil)

	redisAddr := fmt.Sprintf("%s:%s",
		os.Getenv(config.ENV_KEY_REDIS_HOST),
		os.Getenv(config.ENV_KEY_REDIS_PORT),
	)
	redisPassword := os.Getenv(config.ENV_KEY_REDIS_PASSWORD)

	workerConcurrency := 10
	if wc := os.Getenv(config.ENV_KEY_WORKER_CONCURRENCY); wc != "" {
		var n int
		if _, err := fmt.Sscanf(wc, "%d", &n); err == nil && n > 0 {
			workerConcurrency = n
		}
	}

	asynqServer := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
		},
		asynq.Config{
			Concurrency: workerConcurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	mux := asynq.NewServeMux()

	h := handlers.NewHandlers(uc)

	// Register task handlers - one line per job type
	mux.HandleFunc("export:assets", h.HandleExportAssets)
	mux.HandleFunc("notification:email", h.HandleNotificationEmail)

	log.Println("Worker registered handlers:")
	log.Println("  - export:assets")
	log.Println("  - notification:email")

	server := &Server{
		asynqServer: asynqServer,
		mux:         mux,
	}

	return &Worker{
		server: server,
		repo:   repo,
	}, nil
}

// Start starts the worker server
func (w *Worker) Start() error {
	log.Println("Worker started successfully")
	return w.server.asynqServer.Start(w.server.mux)
}

// Stop stops the worker server gracefully
func (w *Worker) Stop() {
	log.Println("Stopping worker...")
	w.server.asynqServer.Shutdown()

	if err := w.repo.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}
