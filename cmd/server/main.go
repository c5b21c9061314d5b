package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openfx/currency-widget/internal/application/service"
	"github.com/openfx/currency-widget/internal/application/view"
	"github.com/openfx/currency-widget/internal/infrastructure/api"
	"github.com/openfx/currency-widget/internal/infrastructure/config"
	"github.com/openfx/currency-widget/internal/infrastructure/handler"
	"github.com/openfx/currency-widget/internal/infrastructure/logger"
	"github.com/openfx/currency-widget/internal/infrastructure/metrics"
	"github.com/openfx/currency-widget/internal/infrastructure/middleware"
	"github.com/openfx/currency-widget/internal/infrastructure/store"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.MustLoad()

	appLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	appLogger.Info("Starting currency widget service", map[string]interface{}{
		"addr":          cfg.Server.Addr,
		"base_currency": cfg.Widget.BaseCurrency,
	})

	// Initialize instrumentation
	m := metrics.New(nil)

	// Initialize the rate client and catalog holder
	rateClient := api.NewExchangeRateClient(cfg.API, appLogger)
	catalogStore := store.NewCatalogStore()

	// Initialize the workflow and its error dismiss timer
	errorTimer := view.NewErrorTimer(cfg.Widget.ErrorDisplay)
	workflow := service.NewWorkflow(rateClient, catalogStore, errorTimer, service.Options{
		BaseCurrency:  cfg.Widget.BaseCurrency,
		DefaultFrom:   cfg.Widget.DefaultFrom,
		DefaultTo:     cfg.Widget.DefaultTo,
		DecimalPlaces: cfg.Widget.DecimalPlaces,
	}, appLogger, m)

	// A failed startup load is not fatal: the widget stays unusable until a
	// reload event succeeds, mirroring a page reload.
	initCtx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	if err := workflow.Init(initCtx); err != nil {
		appLogger.Error("Startup catalog load failed; conversions disabled until reload", map[string]interface{}{
			"error": err.Error(),
		})
	}
	cancel()

	// Initialize handlers
	projector := view.NewProjector(cfg.Widget.DecimalPlaces)
	widgetHandler := handler.NewWidgetHandler(workflow, projector, catalogStore, rateClient, cfg.Widget.DecimalPlaces, appLogger)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(appLogger))
	router.Use(middleware.RecoveryMiddleware(appLogger))
	widgetHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	appLogger.Info("Server listening", map[string]interface{}{
		"addr": cfg.Server.Addr,
	})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLogger.Fatal("Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
