package handlers

import (
	"strings"

	"github.com/commerceos/commerceos_backend/cmd/docs"
	"github.com/commerceos/commerceos_backend/internal/middleware"
	"github.com/commerceos/commerceos_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// registerCustomValidations adds binding validations beyond the built-ins.
// "notblank" rejects strings that are empty after trimming whitespace.
func registerCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container interfaces.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	registerCustomValidations()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", GetHome)

	registerAuthRoutes(r, cfg, services)
	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes sets up the public authentication routes with per-IP rate
// limiting on the credential endpoints.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	authHandler := NewAuthHandler(services.User, cfg)
	googleHandler := NewGoogleOAuthHandler(authHandler, services.User, cfg)

	rate, _ := limiter.NewRateFromFormatted("10-M")
	store := memory.NewStore()
	limitMiddleware := middleware.RateLimit(limiter.New(store, rate))

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, authHandler.Login)
		auth.POST("/register", limitMiddleware, authHandler.Register)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/google/exchange-code", limitMiddleware, googleHandler.ExchangeCodeGoogle)
	}
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-entity route registrations. Tenant-scoped resources nest under
// /organizations/:organizationID; the services authorize membership and role
// on every call.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User)
	registerOrganizationRoutes(v1, services.Organization)

	org := v1.Group("/organizations/:organizationID")
	registerSessionRoutes(org, services.Session)
	registerAuditRoutes(org, services.Audit)
	registerProductRoutes(org, services.Product)
	registerSupplyRoutes(org, services.Supply)
	registerProviderRoutes(org, services.Provider)
	registerCommitmentRoutes(org, services.Commitment)
	registerWastageRoutes(org, services.Wastage)
	registerReportingRoutes(org, services.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
