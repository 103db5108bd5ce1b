package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paragraph-backend/internal/shared/metrics"
	"paragraph-backend/internal/shared/server/middleware"
)

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps collects everything the HTTP router needs.
type RouterDeps struct {
	Env             string
	CORSAllowOrigin []string
	Handlers        []RouteRegistrar
}

// NewRouter assembles the gin engine with the shared middleware chain
// and mounts every handler under /api/v1.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(deps.CORSAllowOrigin))

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	r.GET("/healthz", health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", health)
	for _, h := range deps.Handlers {
		h.RegisterRoutes(api)
	}
	return r
}
