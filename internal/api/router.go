package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thanhnp/pow-ledger/internal/api/handlers"
	"github.com/thanhnp/pow-ledger/internal/api/middleware"
)

// maxBodyBytes bounds block payloads submitted over HTTP
const maxBodyBytes = 1 << 20

// Router wraps the Gin router with handlers
type Router struct {
	engine       *gin.Engine
	blockHandler *handlers.BlockHandler
	log          logrus.FieldLogger
}

// NewRouter creates a new Router with all handlers
func NewRouter(ledger handlers.Ledger, log logrus.FieldLogger) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:       gin.New(),
		blockHandler: handlers.NewBlockHandler(ledger),
		log:          log.WithField("component", "api"),
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// setupMiddleware configures middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.CORS())
	r.engine.Use(middleware.MaxBodySize(maxBodyBytes))
}

// setupRoutes configures API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", r.blockHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		// Block routes
		blocks := v1.Group("/blocks")
		{
			blocks.GET("", r.blockHandler.List)
			blocks.POST("", r.blockHandler.Append)
			blocks.GET("/latest", r.blockHandler.GetLatest)
			blocks.GET("/height/:height", r.blockHandler.GetByHeight)
			blocks.GET("/:hash", r.blockHandler.GetByHash)
		}

		v1.GET("/chain/validate", r.blockHandler.Validate)
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
