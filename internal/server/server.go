package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ahmadrf/ticketeer/config"
	"github.com/ahmadrf/ticketeer/internal/handlers"
	"github.com/ahmadrf/ticketeer/internal/middleware"
	"github.com/ahmadrf/ticketeer/internal/repository"
	"github.com/ahmadrf/ticketeer/internal/service"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	var cache *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse redis url: %v", err)
		}
		cache = redis.NewClient(opts)
	}

	r := gin.Default()

	setupRoutes(r, db, cache, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, cache *redis.Client, logger *zap.Logger) {
	store := repository.NewGormStore(db)

	sales := service.NewSalesReportService(store, logger)
	attendance := service.NewAttendanceService(store, logger)
	dashboard := service.NewDashboardService(store, cache, logger)
	issuance := service.NewIssuanceService(store, logger)
	checkin := service.NewCheckInService(store, logger)

	reportHandler := handlers.NewReportHandler(sales, attendance)
	dashboardHandler := handlers.NewDashboardHandler(dashboard)
	checkoutHandler := handlers.NewCheckoutHandler(issuance)
	scanHandler := handlers.NewScanHandler(checkin)

	r.Use(middleware.DatabaseMiddleware(db))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		reports := protected.Group("/reports")
		{
			reports.GET("/sales", reportHandler.Sales)
			reports.GET("/attendance/:eventId", reportHandler.Attendance)
		}

		protected.GET("/dashboard/stats", dashboardHandler.Stats)
		protected.POST("/orders/checkout", checkoutHandler.Checkout)
		protected.POST("/scan", scanHandler.Scan)
		protected.GET("/tickets/:id/qr", handlers.TicketQR)
	}
}
