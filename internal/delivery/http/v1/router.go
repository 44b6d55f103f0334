package v1

import (
	"net/http"
	"time"

	"muzza-postulaciones/config"
	"muzza-postulaciones/internal/delivery/http/middleware"
	"muzza-postulaciones/internal/delivery/http/response"
	"muzza-postulaciones/internal/domain"
	"muzza-postulaciones/internal/usecase"
	"muzza-postulaciones/pkg/pixel"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ApplicationUC domain.ApplicationUsecase
	HealthUC      usecase.HealthUsecase
	Pixel         *pixel.Loader
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger()) // Use standard Gin logger
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
	r.Use(middleware.ErrorHandler())

	NewLandingHandler(r, deps.Pixel)

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		data := map[string]string{"status": "ok"}
		if deps.HealthUC != nil {
			data = deps.HealthUC.Check(c.Request.Context())
		}
		response.Success(c, http.StatusOK, "System operational", data)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes, sessions are identified by their unguessable id
	NewApplicationHandler(v1, deps.ApplicationUC, ApplicationHandlerConfig{
		CVMaxBytes:      deps.Config.CVMaxBytes,
		SubmitLimit:     deps.Config.RateLimitSubmitThreshold,
		RateLimitWindow: window,
	})

	return r
}
