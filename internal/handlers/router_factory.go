// Package handlers wires the HTTP routes of the math games backend.
package handlers

import (
	"net/http"
	"time"

	"mathgames/internal/config"
	"mathgames/internal/middleware"
	"mathgames/internal/models"
	"mathgames/internal/observability"
	"mathgames/internal/services"
	"mathgames/internal/version"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// ServiceName identifies the backend in traces, logs and /v1/version
const ServiceName = "mathgames-backend"

// NewRouter creates the gin engine with all middleware and routes
func NewRouter(cfg *config.Config, generator services.StoryGeneratorInterface, logger *observability.Logger) *gin.Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(accessLogMiddleware(logger))

	// Health check endpoint (defined before any middleware)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": ServiceName})
	})

	router.Use(observability.GinMiddlewareWithErrorHandling(ServiceName)...)
	router.Use(middleware.ErrorRecoveryMiddleware(logger, &middleware.ErrorRecoveryConfig{
		IncludeStack: cfg.Server.Debug,
		SkipPaths:    []string{StoryRoute},
	}))

	router.RedirectTrailingSlash = false

	router.Use(skipPath(StoryRoute, cors.New(newCORSConfig(cfg.Server.CORSOrigins))))

	secureConfig := secure.DefaultConfig()
	secureConfig.SSLRedirect = false
	secureConfig.ContentSecurityPolicy = config.DefaultCSP
	router.Use(secure.New(secureConfig))

	storyHandler := NewStoryHandler(generator, cfg, logger)
	puzzleHandler := NewPuzzleHandler(logger)

	// The story endpoint answers every method itself
	router.Any(StoryRoute, storyHandler.Generate)

	v1 := router.Group("/v1")
	{
		v1.GET("/version", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"backend": version.Get(ServiceName)})
		})

		puzzles := v1.Group("/puzzles")
		{
			puzzles.GET("/word-problem", puzzleHandler.GetWordProblem)
			puzzles.GET("/comparison", puzzleHandler.GetComparison)
			puzzles.POST("/comparison/check", puzzleHandler.CheckComparison)
			puzzles.GET("/equations", puzzleHandler.GetEquationPuzzle)
			puzzles.GET("/ten-frame", puzzleHandler.GetTenFrame)
			puzzles.GET("/hundred-chart/activity", puzzleHandler.GetHundredChartActivity)
			puzzles.GET("/hundred-chart/multiples", puzzleHandler.GetMultiples)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		// methods gin.Any does not register still belong to the story endpoint
		if c.Request.URL.Path == StoryRoute {
			storyHandler.Generate(c)
			return
		}
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
	})

	// Automatic route listing at root path
	routeListing := NewRouteListingHandler(ServiceName)
	routeListing.CollectRoutes(router)
	router.GET("/", func(c *gin.Context) {
		if c.Query("json") == "true" {
			routeListing.GetRouteListingJSON(c)
		} else {
			routeListing.GetRouteListingPage(c)
		}
	})

	return router
}

// newCORSConfig restricts the JSON API to the configured origins, or to none when unset
func newCORSConfig(origins []string) cors.Config {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Requested-With"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	return corsConfig
}

// skipPath runs next for every request except those to path.
// The story endpoint writes its own wildcard CORS headers.
func skipPath(path string, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == path {
			c.Next()
			return
		}
		next(c)
	}
}

// accessLogMiddleware logs one structured line per request
func accessLogMiddleware(logger *observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"http.method":      c.Request.Method,
			"http.path":        c.Request.URL.Path,
			"http.status_code": statusCode,
			"http.latency_ms":  time.Since(start).Milliseconds(),
			"http.client_ip":   c.ClientIP(),
			"http.user_agent":  c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["http.error"] = c.Errors.String()
		}

		switch {
		case statusCode >= 500:
			fields["http.error_type"] = "server_error"
			logger.Error(c.Request.Context(), "HTTP request failed", nil, fields)
		case statusCode >= 400:
			fields["http.error_type"] = "client_error"
			logger.Warn(c.Request.Context(), "HTTP request warning", fields)
		default:
			logger.Info(c.Request.Context(), "HTTP request", fields)
		}
	}
}
