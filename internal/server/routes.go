package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(otelecho.Middleware(serviceName))
	e.Use(NewEchoLogger(s.logger))
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(s.RateLimitMiddleware)

	e.GET("/api/health", s.healthHandler)

	var authGroup = e.Group("/api/v1/auth")
	authGroup.POST("/register", s.RegisterUser)

	var userGroup = e.Group("/api/v1/users", s.AuthMiddleware)
	userGroup.GET("", s.ListUsers)
	userGroup.GET("/me", s.GetMe)
	userGroup.GET("/:id", s.GetUserByID)
	userGroup.PATCH("/:id/role", s.ChangeUserRole)
	userGroup.GET("/:id/assets", s.ListUserAssets)

	var assetTypeGroup = e.Group("/api/v1/asset-types", s.AuthMiddleware)
	assetTypeGroup.GET("", s.ListAssetTypes)
	assetTypeGroup.POST("", s.CreateAssetType)
	assetTypeGroup.GET("/:id", s.GetAssetTypeByID)
	assetTypeGroup.PUT("/:id", s.UpdateAssetType)
	assetTypeGroup.GET("/:id/configurations", s.ListAssetConfigurations)
	assetTypeGroup.POST("/:id/configurations", s.CreateAssetConfiguration)
	assetTypeGroup.PUT("/:id/configurations/:configId", s.UpdateAssetConfiguration)
	assetTypeGroup.DELETE("/:id/configurations/:configId", s.DeleteAssetConfiguration)

	var assetGroup = e.Group("/api/v1/assets", s.AuthMiddleware)
	assetGroup.GET("", s.ListAssets)
	assetGroup.POST("", s.CreateAsset)
	assetGroup.GET("/:id", s.GetAssetByID)
	assetGroup.PUT("/:id", s.UpdateAsset)
	assetGroup.POST("/:id/assign", s.AssignAsset)
	assetGroup.POST("/:id/return", s.ReturnAsset)
	assetGroup.POST("/:id/revoke", s.RevokeAsset)
	assetGroup.POST("/:id/recover", s.MarkAssetAvailable)
	assetGroup.POST("/:id/retire", s.RetireAsset)
	assetGroup.GET("/:id/tag", s.GetAssetTag)
	assetGroup.GET("/:id/history", s.ListAssetHistory)
	assetGroup.POST("/export", s.ExportAssets)

	var assignmentGroup = e.Group("/api/v1/assignments", s.AuthMiddleware)
	assignmentGroup.GET("", s.ListAssignments)

	var requestGroup = e.Group("/api/v1/requests", s.AuthMiddleware)
	requestGroup.GET("", s.ListRequests)
	requestGroup.POST("", s.SubmitRequest)
	requestGroup.GET("/:id", s.GetRequestByID)
	requestGroup.POST("/:id/decide", s.DecideRequest)
	requestGroup.POST("/:id/advance", s.AdvanceRequest)
	requestGroup.POST("/:id/cancel", s.CancelRequest)

	var jobGroup = e.Group("/api/v1/jobs", s.AuthMiddleware)
	jobGroup.GET("", s.ListJobs)
	jobGroup.GET("/:id", s.GetJobByID)
	jobGroup.GET("/:id/download", s.GetJobDownloadURL)

	var notificationGroup = e.Group("/api/v1/notifications", s.AuthMiddleware)
	notificationGroup.GET("", s.ListNotifications)
	notificationGroup.PATCH("/:id/read", s.ReadNotification)

	return e
}
