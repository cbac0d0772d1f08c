package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func envBool(key string) bool {
	v := os.Getenv(key)
	return v == "true" || v == "1"
}

// @title           IT Expenditure Dashboard API
// @version         1.0
// @description     Capex and billing expenditure tracking with a multi-role invoice status workflow.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer logger.Sync()

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	fallbackPath := os.Getenv("FALLBACK_DB_PATH")
	if fallbackPath == "" {
		fallbackPath = "data/fallback.db"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	// Store selection: hosted PostgreSQL primary, local SQLite fallback.
	// OFFLINE_MODE forces the fallback; an unreachable primary degrades to it.
	var db *gorm.DB
	var fallbackDB *gorm.DB
	onFallback := false

	if envBool("OFFLINE_MODE") {
		logger.Info("offline mode enabled, using local fallback store", zap.String("path", fallbackPath))
		db, err = database.NewFallbackConnection(fallbackPath)
		if err != nil {
			logger.Fatal("fallback store connection failed", zap.Error(err))
		}
		onFallback = true
	} else {
		db, err = database.NewConnection(dsn)
		if err != nil {
			logger.Warn("hosted store unreachable, degrading to local fallback store", zap.Error(err))
			db, err = database.NewFallbackConnection(fallbackPath)
			if err != nil {
				logger.Fatal("fallback store connection failed", zap.Error(err))
			}
			onFallback = true
		} else {
			logger.Info("connected to hosted store")
			// Keep the fallback store warm for best-effort notification
			// delivery when individual primary writes fail.
			fallbackDB, err = database.NewFallbackConnection(fallbackPath)
			if err != nil {
				logger.Warn("fallback store unavailable, notifications lose their fallback path", zap.Error(err))
				fallbackDB = nil
			}
		}
	}

	if err := database.SeedDefaultSettings(db); err != nil {
		logger.Fatal("settings seed failed", zap.Error(err))
	}

	trackerCfg := service.TrackerConfig{
		StrictTransitions: envBool("STRICT_TRANSITIONS"),
		OptimisticLocking: envBool("OPTIMISTIC_LOCKING"),
	}
	logger.Info("tracker configuration",
		zap.Bool("strict_transitions", trackerCfg.StrictTransitions),
		zap.Bool("optimistic_locking", trackerCfg.OptimisticLocking),
		zap.Bool("on_fallback_store", onFallback))

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	capexRepo := repository.NewCapexRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	var fallbackNotificationRepo repository.NotificationRepository
	if fallbackDB != nil {
		fallbackNotificationRepo = repository.NewNotificationRepository(fallbackDB)
	}

	notificationService := service.NewNotificationService(notificationRepo, fallbackNotificationRepo, wsHub, logger)
	userService := service.NewUserService(userRepo, vendorRepo, txManager)
	vendorService := service.NewVendorService(vendorRepo)
	departmentService := service.NewDepartmentService(departmentRepo)
	capexService := service.NewCapexService(capexRepo, vendorRepo, departmentRepo, settingRepo)
	billingService := service.NewBillingService(billingRepo, vendorRepo, settingRepo)
	trackerService := service.NewTrackerService(billingRepo, notificationService, trackerCfg)
	settingService := service.NewSettingService(settingRepo)
	statsService := service.NewStatsService(capexRepo, billingRepo, settingRepo)
	reportService := service.NewReportService(billingRepo, capexRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	departmentHandler := handler.NewDepartmentHandler(departmentService)
	capexHandler := handler.NewCapexHandler(capexService)
	billingHandler := handler.NewBillingHandler(billingService, trackerService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	settingHandler := handler.NewSettingHandler(settingService)
	statsHandler := handler.NewStatsHandler(statsService)
	reportHandler := handler.NewReportHandler(reportService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK", "fallback_store": onFallback})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	root := router.Group("")
	userHandler.RegisterRoutes(root)
	vendorHandler.RegisterRoutes(root)
	departmentHandler.RegisterRoutes(root)
	capexHandler.RegisterRoutes(root)
	billingHandler.RegisterRoutes(root)
	notificationHandler.RegisterRoutes(root)
	settingHandler.RegisterRoutes(root)
	statsHandler.RegisterRoutes(root)
	reportHandler.RegisterRoutes(root)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
