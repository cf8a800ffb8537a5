package server

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/caminoadmin/comunidades-go/internal/auth"
	"github.com/caminoadmin/comunidades-go/internal/handlers"
	"github.com/caminoadmin/comunidades-go/internal/middleware"

	applogger "github.com/caminoadmin/comunidades-go/internal/logger"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	EntityHandler   *handlers.EntityHandler
	OptionsHandler  *handlers.OptionsHandler
	WorkflowHandler *handlers.WorkflowHandler
	ExportHandler   *handlers.ExportHandler
	HealthHandler   *handlers.HealthHandler
	JWTService      *auth.JWTService
	CORSOrigins     []string
	Logger          *applogger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/health", cfg.HealthHandler.Health)
	router.GET("/api/version", cfg.HealthHandler.Version)

	api := router.Group("/api")
	{
		api.POST("/auth/registro", cfg.AuthHandler.Register)
		api.POST("/auth/ingreso", cfg.AuthHandler.Login)
	}

	registerLegacyRedirects(router)

	// Protected
	protected := api.Group("/")
	protected.Use(middleware.RequireAuth(cfg.JWTService))
	{
		// Generic entity CRUD + CSV export
		protected.GET("/:entity", cfg.EntityHandler.List)
		protected.GET("/:entity/esquema", cfg.EntityHandler.Describe)
		protected.GET("/:entity/exportar", cfg.ExportHandler.Export)
		protected.POST("/:entity", cfg.EntityHandler.Create)
		protected.PATCH("/:entity/:id", cfg.EntityHandler.Update)
		protected.DELETE("/:entity/:id", cfg.EntityHandler.Delete)

		// Dropdown options
		protected.GET("/opciones/:loader", cfg.OptionsHandler.Load)

		// Multi-step workflows
		protected.POST("/comunidades/fusionar", cfg.WorkflowHandler.MergeCommunities)
		protected.DELETE("/comunidades/:id/completo", cfg.WorkflowHandler.DeleteCommunity)
		protected.POST("/matrimonios", cfg.WorkflowHandler.CreateMarriage)
		protected.POST("/matrimonios/vincular", cfg.WorkflowHandler.LinkSpouses)
		protected.PUT("/equipos/:id/responsable", cfg.WorkflowHandler.AssignResponsible)
	}

	return router
}

// registerLegacyRedirects permanently redirects the old English route slugs
// to their Spanish equivalents, plus a catch-all for anything nested under
// them.
func registerLegacyRedirects(router *gin.Engine) {
	for english, spanish := range handlers.LegacyRoutes {
		from, to := "/api/"+english, "/api/"+spanish
		router.GET(from, redirectTo(to))
		router.GET(from+"/*rest", redirectPrefix(from, to))
	}
}

func redirectTo(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		dest := target
		if q := c.Request.URL.RawQuery; q != "" {
			dest = dest + "?" + q
		}
		c.Redirect(http.StatusMovedPermanently, dest)
	}
}

func redirectPrefix(from, to string) gin.HandlerFunc {
	return func(c *gin.Context) {
		target := to + strings.TrimPrefix(c.Request.URL.Path, from)
		if q := c.Request.URL.RawQuery; q != "" {
			target = target + "?" + q
		}
		c.Redirect(http.StatusMovedPermanently, target)
	}
}
