package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"document-review-api/config"
	"document-review-api/controllers"
	"document-review-api/middleware"
	"document-review-api/monitor"
	"document-review-api/routes"
	"document-review-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	logger := config.Logger
	defer logger.Sync()

	// Initialize database
	config.InitDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workflow, closeWorkflow, err := services.BuildReviewWorkflow(ctx, config.DB, logger)
	if err != nil {
		logger.Fatal("failed to initialize review workflow", "error", err)
	}
	defer closeWorkflow()
	controllers.UseReviewWorkflow(workflow)

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})
	router.Use(middleware.CORSMiddleware())

	// Operator routes before the catch-all in SetupRoutes
	monitor.RegisterMetricsRoute(router)
	if monitor.RegisterLogsRoute(router, monitor.LogsRouteConfig{
		Token:   config.EnvString("MONITOR_TOKEN", ""),
		LogPath: config.LogFilePath(),
	}) {
		logger.Info("log viewer enabled at /logs")
	}

	routes.SetupRoutes(router)

	port := config.EnvString("SERVER_PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", "port", port, "mode", gin.Mode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if config.EnvBool("EXPIRY_SWEEP_ENABLED", true) {
		sweeper, err := services.NewExpirySweeper(workflow, config.EnvString("EXPIRY_SWEEP_CRON", services.DefaultExpirySchedule), logger)
		if err != nil {
			logger.Fatal("failed to schedule expiry sweep", "error", err)
		}
		g.Go(func() error {
			return sweeper.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
