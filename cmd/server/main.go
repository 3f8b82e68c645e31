package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/safari_vendors/internal/config"
	"github.com/Skotchmaster/safari_vendors/internal/db"
	"github.com/Skotchmaster/safari_vendors/internal/events"
	"github.com/Skotchmaster/safari_vendors/internal/httpserver"
	"github.com/Skotchmaster/safari_vendors/internal/logging"
	authmw "github.com/Skotchmaster/safari_vendors/internal/middleware/auth"
	"github.com/Skotchmaster/safari_vendors/internal/repo"
	"github.com/Skotchmaster/safari_vendors/internal/search"
	"github.com/Skotchmaster/safari_vendors/internal/service"
	"github.com/Skotchmaster/safari_vendors/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLogger := logging.New(cfg.LogLevel)
	slog.SetDefault(appLogger)

	gormLevel := logger.Warn
	if cfg.LogLevel == "debug" {
		gormLevel = logger.Info
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, db.Options{
		Driver:    cfg.DBDriver,
		SQLDriver: cfg.DBSQLDriver,
		DSN:       cfg.DatabaseURL,
		LogLevel:  gormLevel,
	})
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	pub, err := events.New(events.Options{
		Backend:      cfg.EventsBackend,
		KafkaBrokers: cfg.KafkaBrokers,
		AMQPURL:      cfg.AMQPURL,
		QueueSize:    cfg.EventsQueue,
	})
	if err != nil {
		log.Fatalf("events: %v", err)
	}

	r := repo.New(gdb)

	var engine search.Engine = &search.DBEngine{Repo: r}
	if cfg.ESURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		es, err := search.NewElastic(ctx, search.ElasticOptions{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		cancel()
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		engine = es
	}

	authSvc := &service.AuthService{
		Repo: r,
		Tokens: &tokens.Manager{
			AccessSecret:  []byte(cfg.JWTAccessSecret),
			RefreshSecret: []byte(cfg.JWTRefreshSecret),
			AccessTTL:     cfg.AccessTTL,
			RefreshTTL:    cfg.RefreshTTL,
		},
		Events: pub,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(httpserver.Common(appLogger)...)

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Search: engine, Events: pub}},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: pub}},
		OrderHandler:   &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Events: pub}},
		ReviewHandler:  &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: r, Events: pub}},
		Bearer:         authmw.NewBearerAuth([]byte(cfg.JWTAccessSecret), authSvc),
		DB:             gdb,
		AuthRateLimit:  cfg.AuthRateLimit,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		appLogger.Info("server_started", "addr", srv.Addr, "events", cfg.EventsBackend, "search_es", cfg.ESURL != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	appLogger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server_shutdown_error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			appLogger.Error("db_close_error", "error", err)
		}
	}

	if err := pub.Close(); err != nil {
		appLogger.Error("events_close_error", "error", err)
	}

	appLogger.Info("shutdown_complete")
}
