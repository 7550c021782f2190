package router

import (
	"net/http"
	"time"

	"github.com/vanotis720/SampleTaskAPI/internal/config"
	"github.com/vanotis720/SampleTaskAPI/internal/handlers"
	"github.com/vanotis720/SampleTaskAPI/internal/middleware"
	"github.com/vanotis720/SampleTaskAPI/internal/monitoring"
	"github.com/vanotis720/SampleTaskAPI/internal/ratelimit"
	"github.com/vanotis720/SampleTaskAPI/internal/response"
	"github.com/vanotis720/SampleTaskAPI/internal/services"
	"github.com/vanotis720/SampleTaskAPI/internal/storage"
	"github.com/vanotis720/SampleTaskAPI/internal/translator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the shared components the HTTP layer is built from.
type Dependencies struct {
	Config  *config.Config
	DB      *gorm.DB
	Store   storage.FileStore
	Limiter ratelimit.Limiter
	Monitor *monitoring.Monitor
	Logger  *zap.Logger
}

// New builds the engine with every API route mounted under /api.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}
	monitor := deps.Monitor
	if monitor == nil {
		monitor = monitoring.New()
	}

	authService := services.NewAuthService(cfg.Auth.TokenSecret)
	registerService := services.NewRegisterService(cfg.Auth.BCryptCost)
	categoryService := services.NewCategoryService()
	taskService := services.NewTaskService(deps.Store)

	maxBody := cfg.Storage.MaxUploadSize
	registerHandler := handlers.NewRegisterHandler(deps.DB, registerService, authService, maxBody)
	authHandler := handlers.NewAuthHandler(deps.DB, authService, maxBody)
	logoutHandler := handlers.NewLogoutHandler(deps.DB, authService)
	userHandler := handlers.NewUserHandler()
	categoryHandler := handlers.NewCategoryHandler(deps.DB, categoryService, maxBody)
	taskHandler := handlers.NewTaskHandler(deps.DB, taskService, handlers.TaskHandlerConfig{
		AppURL:       cfg.Server.AppURL,
		PublicURL:    cfg.Storage.PublicURL,
		MaxBodyBytes: maxBody,
	})
	storageHandler := handlers.NewStorageHandler(deps.Store)

	r := gin.New()
	r.MaxMultipartMemory = maxBody
	r.Use(
		middleware.RecoveryWithLog(),
		middleware.GinZapMiddleware(logger),
		cors.New(corsConfig(cfg.Server.AllowedOrigins)),
		monitor.MetricsMiddleware(),
		middleware.LanguageMiddleware(),
	)

	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.Enabled && deps.Limiter != nil {
		throttle = middleware.RateLimit(deps.Limiter)
	}

	api := r.Group("/api")
	{
		api.POST("/register", throttle, registerHandler.Registration)
		api.POST("/login", throttle, authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.TokenAuth(deps.DB, authService), throttle)
	{
		protected.POST("/logout", logoutHandler.Logout)
		protected.GET("/user", userHandler.Me)

		protected.GET("/categories", categoryHandler.ListCategories)
		protected.POST("/categories", categoryHandler.CreateCategory)
		protected.GET("/categories/:id", categoryHandler.GetCategory)
		protected.PUT("/categories/:id", categoryHandler.UpdateCategory)
		protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		protected.GET("/tasks", taskHandler.GetTasks)
		protected.POST("/tasks", taskHandler.CreateTask)
		protected.GET("/tasks/:id", taskHandler.GetTaskByID)
		protected.PUT("/tasks/:id", taskHandler.UpdateTask)
		protected.DELETE("/tasks/:id", taskHandler.DeleteTask)
		protected.POST("/tasks/:id/image", taskHandler.UploadImage)
	}

	r.GET("/storage/*filepath", storageHandler.ServeFile)

	r.GET("/health", monitor.HealthHandler())
	r.GET("/health/ready", monitor.ReadinessHandler())
	r.GET("/health/live", monitor.LivenessHandler())
	r.GET("/metrics", monitor.MetricsHandler())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, translator.T(middleware.GetLang(c), "routeNotFound"))
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
