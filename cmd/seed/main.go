package main

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/safari_vendors/internal/config"
	"github.com/Skotchmaster/safari_vendors/internal/db"
	"github.com/Skotchmaster/safari_vendors/internal/logging"
	"github.com/Skotchmaster/safari_vendors/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	gdb, err := db.Open(ctx, db.Options{
		Driver:    cfg.DBDriver,
		SQLDriver: cfg.DBSQLDriver,
		DSN:       cfg.DatabaseURL,
		LogLevel:  logger.Warn,
	})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	l.Info("seed_started", "driver", cfg.DBDriver)
	if err := seed.Run(ctx, gdb); err != nil {
		l.Error("seed_error", "error", err)
		log.Fatalf("seed: %v", err)
	}
	l.Info("seed_completed")
}
