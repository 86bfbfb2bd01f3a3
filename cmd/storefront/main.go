package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/souq/internal/httpserver"
	"github.com/Skotchmaster/souq/internal/lifecycle"
	"github.com/Skotchmaster/souq/internal/service"
	"github.com/Skotchmaster/souq/pkg/config"
	"github.com/Skotchmaster/souq/pkg/logging"
	loggingmw "github.com/Skotchmaster/souq/pkg/middleware/logging"
)

// configureJSON sets process-wide encoding options. The storefront client
// reads prices as numbers, not strings.
func configureJSON() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("notice: no .env loaded: %v", err)
	}
	configureJSON()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	deps, err := wire(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("startup_failed", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{
			Store: deps.Store, Events: deps.Events, Index: deps.Index,
		}},
		AccountHandler: &httpserver.AccountHTTP{Svc: &service.AccountService{
			Store:         deps.Store,
			Events:        deps.Events,
			AdminUsername: cfg.AdminUsername,
			AdminPassword: cfg.AdminPassword,
		}},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Store:  deps.Store,
			Events: deps.Events,
			Policy: lifecycle.Policy{Strict: cfg.StrictTransitions},
		}},
		Ready: deps.Ready,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("storefront listening", "addr", srv.Addr, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen_failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown_error", "error", err)
	}
	logger.Info("storefront stopped")
}

