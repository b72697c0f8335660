package database

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/assetdesk/assetdesk/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"
)

// implements server/Service interface
type service struct {
	db *gorm.DB
}

var (
	database = os.Getenv(config.ENV_KEY_DB_DATABASE)
	password = os.Getenv(config.ENV_KEY_DB_PASSWORD)
	username = os.Getenv(config.ENV_KEY_DB_USER)
	port     = os.Getenv(config.ENV_KEY_DB_PORT)
	host     = os.Getenv(config.ENV_KEY_DB_HOST)
)

func New(logger *slog.Logger) *service {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", username, password, host, port, database)

	gormDB, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: NewSlogGormLogger(logger),
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		log.Fatal(err)
	}

	db, err := gormDB.DB()
	if err != nil {
		log.Fatal(err)
	}

	var maxOpenConnections int
	if m, err := strconv.Atoi(
		os.Getenv(config.ENV_KEY_DB_MAX_OPEN_CONNECTIONS)); err == nil {
		maxOpenConnections = m
	}
	db.SetMaxOpenConns(maxOpenConnections)

	// migrate the schema
	err = gormDB.AutoMigrate(
		User{},
		AuthUser{},
		AssetType{},
		AssetConfiguration{},
		Asset{},
		AssetAssignment{},
		AssetHistory{},
		Request{},
		Job{},
		Notification{},
	)
	if err != nil {
		log.Fatal(err)
	}

	// An asset can have at most one open assignment. Concurrent assigns
	// race on this index; the loser gets a unique violation.
	_, err = db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_asset_id_returned_at_null
        ON asset_assignments (asset_id)
        WHERE returned_at IS NULL
		AND deleted_at IS NULL;
    `)
	if err != nil {
		log.Fatal(err)
	}

	return &service{db: gormDB}
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	db, _ := s.db.DB()

	err := db.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	if dbStats.OpenConnections > 40 {
		stats["message"] = "The database is experiencing heavy load."
	}

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	if dbStats.MaxIdleClosed > int64(dbStats.OpenConnections)/2 {
		stats["message"] = "Many idle connections are being closed, consider revising the connection pool settings."
	}

	if dbStats.MaxLifetimeClosed > int64(dbStats.OpenConnections)/2 {
		stats["message"] = "Many connections are being closed due to max lifetime, consider increasing max lifetime or revising the connection usage pattern."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	log.Printf("Disconnected from database: %s", database)
	return db.Close()
}
