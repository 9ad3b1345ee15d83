package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zhenglaizhang/batter-store-api/database"
	"github.com/zhenglaizhang/batter-store-api/internal/config"
	"github.com/zhenglaizhang/batter-store-api/internal/handlers"
	"github.com/zhenglaizhang/batter-store-api/internal/logger"
	"github.com/zhenglaizhang/batter-store-api/internal/middleware"
	"github.com/zhenglaizhang/batter-store-api/internal/repositories"
	"github.com/zhenglaizhang/batter-store-api/internal/routes"
	"github.com/zhenglaizhang/batter-store-api/internal/services"
	"github.com/zhenglaizhang/batter-store-api/internal/storage"
	"github.com/zhenglaizhang/batter-store-api/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(mysql.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("AutoMigrate failed", "error", err)
	}
	if err := database.SeedLookups(gormDB); err != nil {
		logger.Fatal("Lookup seeding failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, sqlDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full gin engine. Tests call it directly with
// their own DB handle.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB) *gin.Engine {
	local, err := storage.NewLocalStorage(cfg.Upload.BasePath, cfg.Upload.BaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize local storage", "error", err)
	}

	var remote storage.Remote
	if cfg.COS.Enabled {
		creds := storage.NewCredentialCache(storage.NewHTTPCredentialSource(cfg.COS.AuthEndpoint))
		var tagger *storage.MetadataTagger
		if cfg.COS.OpenAPIBase != "" {
			tagger = storage.NewMetadataTagger(cfg.COS.OpenAPIBase)
		}
		remote = storage.NewCosStore(storage.CosConfig{
			Bucket:   cfg.COS.Bucket,
			Region:   cfg.COS.Region,
			Endpoint: cfg.COS.Endpoint,
		}, creds, tagger)
		logger.Info("Remote object store enabled", "bucket", cfg.COS.Bucket, "region", cfg.COS.Region)
	} else {
		logger.Warn("Remote object store disabled, uploads go to local storage")
	}

	serviceContainer := initializeServices(cfg, remote, local)
	appHandlers := initializeHandlers(serviceContainer, local)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, cfg.JWT.Secret, local.BasePath())

	return ginRouter
}

func initializeServices(cfg *config.Config, remote storage.Remote, local storage.Local) *services.ServiceContainer {
	accountRepo := repositories.NewAccountRepository()
	regRepo := repositories.NewRegistrationRepository()
	orderRepo := repositories.NewOrderRepository()

	authService := services.NewAuthService(accountRepo, services.AuthConfig{
		JWTSecret:     cfg.JWT.Secret,
		UserTokenTTL:  time.Duration(cfg.JWT.UserTTLDays) * 24 * time.Hour,
		AdminTokenTTL: time.Duration(cfg.JWT.AdminTTLHours) * time.Hour,
		AdminUsername: cfg.Admin.Username,
		AdminPassHash: cfg.Admin.PasswordHash,
	})
	registrationService := services.NewRegistrationService(regRepo, accountRepo, authService)
	ingestService := services.NewIngestService(remote, local, orderRepo, regRepo, services.UploadLimits{
		MaxPhotoSize:    cfg.Upload.MaxPhotoSize,
		MaxDocumentSize: cfg.Upload.MaxDocumentSize,
	})
	orderService := services.NewOrderService(orderRepo, regRepo, ingestService)

	return &services.ServiceContainer{
		AuthService:         authService,
		RegistrationService: registrationService,
		IngestService:       ingestService,
		OrderService:        orderService,
	}
}

func initializeHandlers(sc *services.ServiceContainer, local storage.Local) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, sc.AuthService),
		RegistrationHandler: handlers.NewRegistrationHandler(baseHandler, sc.RegistrationService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, sc.IngestService, sc.RegistrationService, local),
		OrderHandler:        handlers.NewOrderHandler(baseHandler, sc.OrderService, sc.RegistrationService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
