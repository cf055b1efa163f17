package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/forecast"
	"github.com/camstore/store_backend/handlers"
	"github.com/camstore/store_backend/middlewares"
	"github.com/camstore/store_backend/models"
)

const defaultPort = "8080"

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("x-request-id")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set("x-request-id", rid)
		c.Next()
	}
}

func registerRoutes(r *gin.Engine, analyzer *forecast.Analyzer, logger *logrus.Logger) {
	api := r.Group("/api")

	api.POST("/auth/login", handlers.LoginHandler())
	api.GET("/auth/me", middlewares.RequireAuth(), handlers.MeHandler())

	api.GET("/products", handlers.ListProductsHandler())
	api.GET("/products/:id", handlers.GetProductHandler())
	api.GET("/products/barcode/:barcode", handlers.GetProductByBarcodeHandler())
	api.POST("/products", middlewares.RequireAuth(), handlers.CreateProductHandler())
	api.PUT("/products/:id", middlewares.RequireAuth(), handlers.UpdateProductHandler())
	api.DELETE("/products/:id", middlewares.RequireAdmin(), handlers.DeleteProductHandler())
	api.GET("/products/:id/pulse", handlers.PulseDiscountHandler())

	api.POST("/batches", middlewares.RequireAuth(), handlers.CreateBatchHandler())
	api.GET("/batches/:id", handlers.GetBatchHandler())
	api.GET("/batches/expiring", handlers.ExpiringBatchesHandler())
	api.GET("/cron/daily-check", handlers.DailyExpiryCheckHandler())

	api.POST("/transactions", middlewares.RequireAuth(), handlers.CreateTransactionHandler(logger))
	api.GET("/transactions", handlers.ListTransactionsHandler())

	api.GET("/suppliers", handlers.ListSuppliersHandler())
	api.POST("/suppliers", middlewares.RequireAdmin(), handlers.CreateSupplierHandler())
	api.GET("/purchase-orders", handlers.ListPurchaseOrdersHandler())
	api.PUT("/purchase-orders/:id/status", middlewares.RequireAuth(), handlers.AdvancePurchaseOrderHandler())

	api.GET("/dashboard", handlers.DashboardStatsHandler())
	api.GET("/dashboard/kpi", handlers.DashboardKPIHandler())
	api.GET("/analytics/revenue", handlers.RevenueAnalyticsHandler())
	api.GET("/analytics/wastage", handlers.WastageReportHandler())
	api.GET("/analytics/categories", handlers.CategoryBreakdownHandler())
	api.GET("/categories", handlers.ListCategoriesHandler())

	api.GET("/ml/seasonal", handlers.SeasonalPredictionsHandler(analyzer))
	api.GET("/ml/insights", handlers.SeasonalInsightsHandler(analyzer))
	api.POST("/ml/retrain", middlewares.RequireAdmin(), handlers.RetrainHandler(analyzer, logger))
}

// trainAnalyzer trains from recorded sales first; when that leaves the
// analyzer cold (fresh install, empty ledger) it falls back to the
// bundled retail dataset so seasonal endpoints have something better
// than pure heuristics from day one.
func trainAnalyzer(ctx context.Context, analyzer *forecast.Analyzer, logger *logrus.Logger) {
	if err := analyzer.TrainFromTransactions(ctx); err != nil {
		logger.WithFields(logrus.Fields{
			"field": "trainAnalyzer",
		}).Warn("training from transactions failed: " + err.Error())
	}
	if analyzer.IsTrained() {
		return
	}
	path := os.Getenv("SEASONAL_DATASET")
	if path == "" {
		logger.WithFields(logrus.Fields{
			"field": "trainAnalyzer",
		}).Info("no sales history and no SEASONAL_DATASET; seasonal predictions run on heuristics")
		return
	}
	if err := analyzer.TrainFromXlsx(ctx, path); err != nil {
		logger.WithFields(logrus.Fields{
			"field": "trainAnalyzer",
			"path":  path,
		}).Warn("dataset training failed: " + err.Error())
	}
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP; until DB/Redis are ready we return
	// 503 for app endpoints.
	r := gin.New()
	r.Use(requestIDMiddleware())
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if allowedOrigins == "" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = allowedOrigins != ""

	r.Use(cors.New(corsConfig))
	r.Use(middlewares.AuthMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	analyzer := forecast.NewAnalyzer()
	registerRoutes(r, analyzer, logger)
	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	if err := models.SeedDefaultUsers(context.Background()); err != nil {
		logger.WithFields(logrus.Fields{"field": "seed"}).Warn("seeding default users failed: " + err.Error())
	}

	// Seasonal training runs off the request path; endpoints answer
	// with heuristics until it completes.
	go trainAnalyzer(context.Background(), analyzer, logger)

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/api")
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
