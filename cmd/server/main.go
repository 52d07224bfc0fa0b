// Package main runs the recording download HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nexmo-se/aws-recording-download-sample/config"
	"github.com/nexmo-se/aws-recording-download-sample/internal/archives"
	"github.com/nexmo-se/aws-recording-download-sample/internal/middleware"
	"github.com/nexmo-se/aws-recording-download-sample/internal/opentok"
	"github.com/nexmo-se/aws-recording-download-sample/internal/resolver"
	"github.com/nexmo-se/aws-recording-download-sample/internal/rooms"
	"github.com/nexmo-se/aws-recording-download-sample/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	store, err := storage.NewS3(ctx, storage.S3Config{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Bucket:          cfg.AWS.ArchivesBucket,
	}, logger)
	if err != nil {
		logger.Fatal("storage", zap.Error(err))
	}

	provider := opentok.NewClient(cfg.OpenTok.APIKey, cfg.OpenTok.APISecret, cfg.OpenTok.APIURL, logger)
	registry := rooms.NewRegistry(provider, logger)
	controller := archives.NewController(registry, provider, logger)
	media := resolver.New(provider, store, resolver.Config{
		APIKey:       cfg.OpenTok.APIKey,
		URLExpire:    time.Duration(cfg.AWS.PresignExpireMinutes) * time.Minute,
		PollInterval: time.Duration(cfg.Resolver.PollIntervalSec) * time.Second,
		MaxWait:      time.Duration(cfg.Resolver.MaxWaitSec) * time.Second,
	}, logger)

	tokenExpire := time.Duration(cfg.OpenTok.TokenExpireSec) * time.Second
	roomHandler := rooms.NewHandler(registry, provider, tokenExpire, logger)
	archiveHandler := archives.NewHandler(controller, media, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/rooms/:room_name", roomHandler.Join)
		api.POST("/rooms/:room_name/archives", archiveHandler.Start)
		api.GET("/archives/:archive_id", archiveHandler.Get)
		api.GET("/archives/:archive_id/await", archiveHandler.Await)
		api.DELETE("/archives/:archive_id", archiveHandler.Stop)
	}

	// Browser demo assets, when present.
	if dir := cfg.Server.StaticDir; dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			router.NoRoute(gin.WrapH(http.FileServer(http.Dir(dir))))
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
