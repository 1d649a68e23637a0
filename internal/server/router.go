package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/planforge/planforge/internal/logger"
)

// newRouter builds the gin engine with middleware and routes.
func newRouter(cfg Config, h *handlers, log *logger.Logger) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))

	// The browser frontend is served separately, so CORS stays permissive
	// for the API.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	engine.Use(cors.New(corsCfg))

	api := engine.Group("/api")
	{
		api.GET("/health", h.Health)
		api.POST("/generate-lesson-plan", h.GenerateLessonPlan)
		api.POST("/fetch-external-resources", h.FetchExternalResources)
	}

	return engine
}
