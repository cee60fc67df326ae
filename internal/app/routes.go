package app

import (
	"net/http"
	"time"

	"github.com/chalkroute/core/internal/middleware"
	"github.com/chalkroute/core/internal/modules/auth"
	"github.com/chalkroute/core/internal/modules/content/chapter"
	"github.com/chalkroute/core/internal/modules/curriculum/class"
	"github.com/chalkroute/core/internal/modules/curriculum/subject"
	"github.com/chalkroute/core/internal/modules/enrich"
	"github.com/chalkroute/core/internal/modules/migrate"
	"github.com/chalkroute/core/internal/modules/summarize"
	"github.com/chalkroute/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	rateLimitMax    = 120
	rateLimitWindow = time.Minute
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "chalkroute-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/chalkroute/core",
	}

	// Generation endpoints burn provider quota; cheap reads stay unmetered.
	rateLimitMW := middleware.RateLimit(db, a.rc.Raw(), a.logger, rateLimitMax, rateLimitWindow)

	api := r.Group("/api/v2")

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	// Auth
	auth.NewHandler(auth.NewService(db)).RegisterRoutes(api)

	// Curriculum
	class.NewHandler(class.NewService(db)).RegisterRoutes(api, authMW)
	subject.NewHandler(subject.NewService(db)).RegisterRoutes(api, authMW)

	// Chapters
	chapter.NewHandler(chapter.NewService(db)).RegisterRoutes(api, authMW)

	// Summary generation (streaming)
	summarizeSvc := summarize.NewService(db, a.rc, a.cfg, a.logger)
	summarize.NewHandler(summarizeSvc, a.logger).Register(api, rateLimitMW)

	// Chapter enrichment (questions, references, quizzes, ask)
	enrichSvc := enrich.NewService(a.cfg, a.logger)
	enrich.NewHandler(db, enrichSvc, a.logger).Register(api, rateLimitMW)

	// Legacy imports
	migrate.NewHandler(migrate.NewService(db, a.logger)).RegisterRoutes(api, authMW)
}
