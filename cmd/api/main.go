package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/quickbite/quickbite-api/api/swagger"
	"github.com/quickbite/quickbite-api/internal/handler"
	"github.com/quickbite/quickbite-api/internal/middleware"
	"github.com/quickbite/quickbite-api/internal/models"
	"github.com/quickbite/quickbite-api/internal/repository"
	"github.com/quickbite/quickbite-api/internal/service"
	"github.com/quickbite/quickbite-api/internal/token"
	"github.com/quickbite/quickbite-api/pkg/cache"
	"github.com/quickbite/quickbite-api/pkg/config"
	"github.com/quickbite/quickbite-api/pkg/database"
	"github.com/quickbite/quickbite-api/pkg/logger"
	corsmiddleware "github.com/quickbite/quickbite-api/pkg/middleware/cors"
	reqidmiddleware "github.com/quickbite/quickbite-api/pkg/middleware/requestid"
)

// @title QuickBite API
// @version 1.0.0
// @description Food delivery backend: auth, restaurants, orders, payments
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The API serves without cache; listings just skip Redis.
		logr.Warn("redis unavailable, cache disabled", zap.Error(err))
		redisClient = nil
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshExpiration)

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	globalCategoryRepo := repository.NewGlobalCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Services.
	metricsSvc := service.NewMetricsService()
	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	authSvc := service.NewAuthService(userRepo, tokens, validate, logr)
	userSvc := service.NewUserService(userRepo, logr)
	restaurantSvc := service.NewRestaurantService(restaurantRepo, categoryRepo, cacheSvc, validate, logr)
	categorySvc := service.NewCategoryService(categoryRepo, restaurantRepo, validate, logr)
	globalCategorySvc := service.NewGlobalCategoryService(globalCategoryRepo, validate, logr)
	orderSvc := service.NewOrderService(orderRepo, restaurantRepo, validate, logr)
	addressSvc := service.NewAddressService(addressRepo, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, orderRepo, validate, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc, userSvc)
	userHandler := handler.NewUserHandler(userSvc)
	restaurantHandler := handler.NewRestaurantHandler(restaurantSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	globalCategoryHandler := handler.NewGlobalCategoryHandler(globalCategorySvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	addressHandler := handler.NewAddressHandler(addressSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.Authenticate(tokens), authHandler.Me)
	}

	restaurants := api.Group("/restaurants")
	{
		restaurants.GET("", restaurantHandler.List)
		restaurants.GET("/:id", restaurantHandler.Get)
		restaurants.GET("/:id/menu", restaurantHandler.Menu)
		restaurants.POST("", middleware.Authenticate(tokens), middleware.Authorize(models.RoleAdmin), restaurantHandler.Create)
		restaurants.PUT("/:id", middleware.Authenticate(tokens), middleware.Authorize(models.RoleAdmin), restaurantHandler.Update)
		restaurants.POST("/:id/menu", middleware.Authenticate(tokens), middleware.Authorize(models.RoleAdmin), restaurantHandler.AddMenuItem)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.List)
		categories.POST("", middleware.Authenticate(tokens), middleware.Authorize(models.RoleAdmin), categoryHandler.Create)
	}

	globalCategories := api.Group("/global-categories")
	{
		globalCategories.GET("", middleware.OptionalAuthenticate(tokens), globalCategoryHandler.List)
		globalCategories.GET("/:slug", globalCategoryHandler.Get)
		globalCategories.POST("", middleware.Authenticate(tokens), middleware.Authorize(models.RoleAdmin), globalCategoryHandler.Create)
		globalCategories.PUT("/:id", middleware.Authenticate(tokens), middleware.Authorize(models.RoleAdmin), globalCategoryHandler.Update)
		globalCategories.DELETE("/:id", middleware.Authenticate(tokens), middleware.Authorize(models.RoleAdmin), globalCategoryHandler.Delete)
	}

	orders := api.Group("/orders", middleware.Authenticate(tokens))
	{
		orders.POST("", orderHandler.Create)
		orders.GET("", orderHandler.List)
		orders.GET("/export", middleware.Authorize(models.RoleAdmin), orderHandler.Export)
		orders.GET("/:id", orderHandler.Get)
		orders.GET("/:id/receipt", orderHandler.Receipt)
		orders.PATCH("/:id/status", middleware.Authorize(models.RoleRestaurantOwner, models.RoleDriver, models.RoleAdmin), orderHandler.UpdateStatus)
	}

	addresses := api.Group("/addresses", middleware.Authenticate(tokens))
	{
		addresses.GET("", addressHandler.List)
		addresses.POST("", addressHandler.Create)
		addresses.PUT("/:id", addressHandler.Update)
		addresses.DELETE("/:id", addressHandler.Delete)
	}

	payments := api.Group("/payments", middleware.Authenticate(tokens))
	{
		payments.POST("", paymentHandler.Create)
		payments.GET("/order/:order_id", paymentHandler.ListByOrder)
		payments.GET("/:id", paymentHandler.Get)
		payments.PATCH("/:id/status", middleware.Authorize(models.RoleAdmin), paymentHandler.UpdateStatus)
	}

	admin := api.Group("/users", middleware.Authenticate(tokens), middleware.Authorize(models.RoleAdmin))
	{
		admin.GET("", userHandler.List)
	}

	api.GET("/metrics/snapshot", middleware.Authenticate(tokens), middleware.Authorize(models.RoleAdmin), metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
