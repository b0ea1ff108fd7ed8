package main

import (
	"lead-service/internal/handler"
	"lead-service/internal/mail"
	mid "lead-service/internal/middleware"
	"lead-service/internal/queue"
	"lead-service/pkg/config"
	"lead-service/pkg/database"
	"lead-service/pkg/jwtutil"
	"lead-service/pkg/logger"
	"lead-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: "lead-service",
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting lead-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Optional lead event broker
	if appConfig.Queue.URL != "" {
		producer, err := queue.Connect(appConfig.Queue.URL, appConfig.Queue.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer producer.Close()
		handler.Publisher = producer
		log.Info("Lead event publisher initialized", zap.String("exchange", appConfig.Queue.Exchange))
	}

	// Optional new-lead email notifications
	if appConfig.Mail.Host != "" {
		handler.Notifier = mail.NewSender(&appConfig.Mail)
		log.Info("Lead notification sender initialized", zap.String("smtp_host", appConfig.Mail.Host))
	}

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Storefront-facing endpoints, no auth
	e.POST("/api/leads/existence", handler.RecordContactAttempt)
	e.POST("/api/analytics/access", handler.CreatePageAccess)

	// Lead API routes - Apply auth middleware to validate JWT
	leadAPI := e.Group("/api/leads", mid.AuthMiddleware)
	leadAPI.GET("", handler.ListLeads)
	leadAPI.GET("/search", handler.SearchLeads)
	leadAPI.GET("/:id", handler.GetLead)
	leadAPI.POST("", handler.CreateLead)
	leadAPI.PUT("/:id", handler.UpdateLead)
	leadAPI.DELETE("/:id", handler.DeleteLead)

	// Lead type API routes
	typeAPI := e.Group("/api/lead-types", mid.AuthMiddleware)
	typeAPI.GET("", handler.ListLeadTypes)
	typeAPI.GET("/:id", handler.GetLeadType)
	typeAPI.POST("", handler.CreateLeadType)

	// Dashboard metrics routes
	metricsAPI := e.Group("/api/metrics/leads", mid.AuthMiddleware)
	metricsAPI.GET("/overview", handler.LeadMetricsOverview)
	metricsAPI.GET("/by-status", handler.LeadMetricsByStatus)
	metricsAPI.GET("/by-type", handler.LeadMetricsByType)
	metricsAPI.GET("/trends", handler.LeadMetricsTrends)
	metricsAPI.GET("/daily-metrics", handler.LeadMetricsDaily)
	metricsAPI.GET("/recent-activity", handler.LeadMetricsRecentActivity)
	metricsAPI.GET("/conversion-funnel", handler.LeadMetricsFunnel)

	// Page analytics dashboard routes
	analyticsAPI := e.Group("/api/analytics", mid.AuthMiddleware)
	analyticsAPI.GET("/access", handler.ListPageAccesses)
	analyticsAPI.GET("/summary", handler.AnalyticsSummaryHandler)
	analyticsAPI.GET("/trends", handler.AnalyticsTrends)
	analyticsAPI.GET("/sections", handler.AnalyticsSections)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
