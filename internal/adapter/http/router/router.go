package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/grammate-io/grammate-api/internal/adapter/client"
	"github.com/grammate-io/grammate-api/internal/adapter/http/handler"
	"github.com/grammate-io/grammate-api/internal/adapter/http/middleware"
	"github.com/grammate-io/grammate-api/internal/usecase"
)

// Deps carries the long-lived dependencies the router wires together
type Deps struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	Annotator   *client.GrammarClient
	Runner      *usecase.BatchRunner
	AnnotateUC  usecase.AnnotateUsecase
	HistoryUC   usecase.HistoryUsecase
	Logger      *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(deps Deps) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.DB, deps.RedisClient, deps.Annotator)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize handlers
	batchHandler := handler.NewBatchHandler(deps.Runner)
	annotateHandler := handler.NewAnnotateHandler(deps.AnnotateUC)
	historyHandler := handler.NewHistoryHandler(deps.HistoryUC)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/annotate", annotateHandler.Annotate)

		batches := v1.Group("/batches")
		{
			batches.POST("", batchHandler.StartBatch)
			batches.POST("/ingest", batchHandler.IngestBatch)
			batches.GET("/current", batchHandler.GetBatch)
			batches.POST("/current/pause", batchHandler.PauseBatch)
			batches.POST("/current/resume", batchHandler.ResumeBatch)
			batches.POST("/current/stop", batchHandler.StopBatch)
			batches.POST("/current/reset", batchHandler.ResetBatch)
			batches.GET("/current/results", batchHandler.GetResults)
			batches.GET("/current/stats", batchHandler.GetStats)
		}

		history := v1.Group("/history")
		{
			history.GET("", historyHandler.ListHistory)
			history.GET("/:id", historyHandler.GetRecord)
		}
	}

	return router
}
