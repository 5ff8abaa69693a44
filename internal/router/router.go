package router

import (
	"github.com/gin-gonic/gin"

	"rxlens/internal/config"
	"rxlens/internal/handler"
	"rxlens/internal/middleware"
	"rxlens/internal/ws"
)

// Setup configures the Gin engine with all routes and middleware. The image
// endpoint, the liveness check, and the websocket upgrade stay public so
// browsers can reach them without header plumbing; everything else sits
// behind the API key.
func Setup(
	cfg *config.Config,
	hub *ws.Hub,
	healthH *handler.HealthHandler,
	prescriptionH *handler.PrescriptionHandler,
	configH *handler.ConfigHandler,
	exportH *handler.ExportHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/ws", gin.WrapF(hub.HandleUpgrade))

	api := r.Group("/api")

	// Public routes
	api.GET("/health", healthH.Check)
	api.GET("/prescriptions/:id/image", prescriptionH.GetImage)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.APIKey(cfg.API.Key, cfg.Server.Production()))

	protected.GET("/health/db", healthH.DB)

	prescriptions := protected.Group("/prescriptions")
	prescriptions.GET("", prescriptionH.List)
	prescriptions.GET("/:id", prescriptionH.Get)
	prescriptions.POST("/upload", prescriptionH.Upload)
	prescriptions.POST("/:id/process", prescriptionH.Process)
	prescriptions.POST("/:id/process-existing", prescriptionH.ProcessExisting)
	prescriptions.POST("/:id/retry", prescriptionH.Retry)
	prescriptions.POST("/:id/reprocess", prescriptionH.Reprocess)
	prescriptions.DELETE("/:id", prescriptionH.Delete)
	prescriptions.PATCH("/:id/extracted-data", prescriptionH.UpdateExtractedData)

	configs := protected.Group("/configs")
	configs.GET("", configH.List)
	configs.POST("", configH.Create)
	configs.PUT("/:id", configH.Update)
	configs.DELETE("/:id", configH.Delete)

	export := protected.Group("/export")
	export.GET("/csv", exportH.CSV)
	export.GET("/json", exportH.JSON)
	export.GET("/xlsx", exportH.XLSX)

	return r
}
