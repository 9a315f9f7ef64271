package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/quantmeter/stock-scorecard/internal/analysis"
	"github.com/quantmeter/stock-scorecard/internal/cache"
	"github.com/quantmeter/stock-scorecard/internal/errors"
	"github.com/quantmeter/stock-scorecard/internal/monitoring"
	"github.com/quantmeter/stock-scorecard/internal/quote"
	"github.com/quantmeter/stock-scorecard/internal/resilience"
	"github.com/quantmeter/stock-scorecard/internal/security"
	"github.com/quantmeter/stock-scorecard/internal/types"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	port := getEnvOrDefault("PORT", "3000")
	cacheTTL := getDurationOrDefault("CACHE_TTL", 15*time.Minute)
	requestTimeout := getDurationOrDefault("REQUEST_TIMEOUT", 2*time.Minute)

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	quoteClient := quote.NewClient()
	quoteClient.SetInstrumentation(appMetrics, appLogger)
	analyzer := analysis.NewAnalyzer(quoteClient)

	gin.SetMode(getEnvOrDefault("GIN_MODE", gin.ReleaseMode))
	r := gin.New()

	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(security.SecurityHeadersMiddleware())
	r.Use(security.RequestTimeout(requestTimeout))
	r.Use(security.ValidateContentType())
	r.Use(security.MaxBodySize(64 * 1024))

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	appCache := cache.NewCache(cacheTTL)
	r.Use(appCache.Middleware(appMetrics))

	resilience.RegisterService(quote.ServiceName, nil)
	resilience.StartHealthChecks(context.Background())

	r.POST("/analyze", func(c *gin.Context) {
		var req types.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.NewValidationError("Invalid request body"))
			c.Abort()
			return
		}
		if len(req.Tickers) == 0 {
			c.Error(errors.NewValidationError("No tickers provided"))
			c.Abort()
			return
		}
		if !resilience.IsServiceAvailable(quote.ServiceName) {
			c.Error(errors.NewProviderError("Quote provider temporarily unavailable", nil))
			c.Abort()
			return
		}

		start := time.Now()
		results := analyzer.Analyze(c.Request.Context(), req.Tickers)

		// Rank best first. Records without a score sort as zero.
		sort.SliceStable(results, func(i, j int) bool {
			return scoreOrZero(results[i].FinalScore) > scoreOrZero(results[j].FinalScore)
		})

		failed := 0
		for _, res := range results {
			if res.Error != "" {
				failed++
			}
		}
		appMetrics.AddTickersAnalyzed(len(results))
		appLogger.AnalysisLogger(len(results), failed, time.Since(start), false)

		c.JSON(http.StatusOK, gin.H{"results": results})
	})

	r.GET("/health", func(c *gin.Context) {
		services := resilience.ServiceHealthSnapshot()

		healthResponse := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
			"services":  services,
			"metrics":   appMetrics.GetStats(),
		}

		for _, service := range services {
			if service.Level == resilience.LevelEmergency {
				healthResponse["status"] = "degraded"
				c.JSON(http.StatusServiceUnavailable, healthResponse)
				return
			}
		}

		c.JSON(http.StatusOK, healthResponse)
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, appMetrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, appCache.Stats())
	})

	r.GET("/pools/quote", func(c *gin.Context) {
		c.JSON(http.StatusOK, quoteClient.PoolStats())
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quoteClient.Close()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func scoreOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", key, "default", defaultValue)
	}
	return defaultValue
}
