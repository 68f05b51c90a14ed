package handlers

import (
	"net/http"

	"github.com/SscSPs/couple_finance_app/cmd/docs"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/middleware"
	"github.com/SscSPs/couple_finance_app/internal/platform/config"
	"github.com/SscSPs/couple_finance_app/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type routeDeps struct {
	loginLimit gin.HandlerFunc
	posthog    *utils.PosthogClientWrapper
}

// RouteOption configures optional middleware for RegisterRoutes.
type RouteOption func(*routeDeps)

// WithLoginRateLimit guards /auth/login with the given middleware.
func WithLoginRateLimit(mw gin.HandlerFunc) RouteOption {
	return func(d *routeDeps) {
		d.loginLimit = mw
	}
}

// WithPosthog enables analytics events on authenticated routes.
func WithPosthog(client *utils.PosthogClientWrapper) RouteOption {
	return func(d *routeDeps) {
		d.posthog = client
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	opts ...RouteOption,
) {
	deps := &routeDeps{}
	for _, opt := range opts {
		opt(deps)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Meta calls the webhook without a bearer token.
	RegisterWhatsAppRoutes(r, services.WhatsApp)

	public := r.Group("/api/v1")
	RegisterAuthRoutes(public, services.User, services.Token, deps.loginLimit)

	setupAPIV1Routes(r, cfg, services, deps)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated /api/v1 group and the
// group-scoped subtree under /api/v1/groups/:group_id.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	deps *routeDeps,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret), middleware.PosthogMiddleware(deps.posthog))

	registerMeRoute(v1, service.User)
	RegisterAccountRoutes(v1, service.FinancialAccount)
	RegisterGroupRoutes(v1, service.Group)

	group := v1.Group("/groups/:group_id")
	RegisterTransactionRoutes(group, service.Transaction, service.Comment)
	RegisterRecurringRoutes(group, service.Recurring)
	RegisterGoalRoutes(group, service.Goal)
	RegisterSettlementRoutes(group, service.Settlement, deps.posthog)
	RegisterActivityRoutes(group, service.Alert, service.Audit)
	RegisterAssistantRoutes(group, service.Assistant)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
