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

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"scan-in/pkg/config"
	"scan-in/pkg/extract"
	"scan-in/pkg/handlers"
	"scan-in/pkg/logger"
	"scan-in/pkg/repository"
	"scan-in/pkg/services/invoice"
	"scan-in/pkg/services/ocr"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	engine, err := ocr.NewEngine(cfg.OCR)
	if err != nil {
		zl.Fatal("Failed to set up OCR engine", zap.Error(err))
	}

	extractor := extract.New(
		extract.WithLexicon(cfg.Lexicon()),
		extract.WithThreshold(cfg.Threshold),
		extract.WithLogger(zl.Named("extract")),
	)
	processor := invoice.NewService(ocr.NewService(engine, cfg.OCRTimeout, zl.Named("ocr")), extractor, zl)

	// Storage is optional; without DATABASE_URL the service only extracts.
	var store handlers.Store
	if cfg.PersistenceEnabled() {
		db, err := repository.Open(cfg.DatabaseURL)
		if err != nil {
			zl.Fatal("Failed to connect to database", zap.Error(err))
		}
		store = repository.NewInvoiceRepository(db)
	} else {
		zl.Warn("DATABASE_URL not set, invoice storage disabled")
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestID(), handlers.AccessLog(zl.Named("http")))
	r.GET("/healthz", handlers.Health)
	handlers.NewInvoiceHandler(processor, store, cfg.MaxUploadBytes, zl).Register(r)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Server listening", zap.String("addr", srv.Addr), zap.String("ocr_engine", cfg.OCR.Engine))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("Server shutdown failed", zap.Error(err))
	}
}
