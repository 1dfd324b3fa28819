package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fitstore/internal/cart"
	"fitstore/internal/catalog"
	"fitstore/internal/commons"
	"fitstore/internal/config"
	"fitstore/internal/infrastructure/logger"
	"fitstore/internal/infrastructure/mysql"
	"fitstore/internal/order"
	"fitstore/internal/payment"
	"fitstore/internal/server"
)

func main() {
	cfg := loadConfig()

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if err := mysql.ApplyMigrations(db, cfg.Database); err != nil {
		zapLogger.Fatal("applying migrations", zap.Error(err))
	}

	catalogCtrl, catalogSvc := catalog.NewModule(db, zapLogger)
	cartCtrl, cartSvc := cart.NewModule(db, catalogSvc, zapLogger)
	gateway := payment.NewClient(cfg.Gateway, cfg.Server.BaseURL, zapLogger)
	orderCtrl, reconciler := order.NewModule(db, cartSvc, catalogSvc, cartSvc, gateway, cfg, zapLogger)
	callbackCtrl := payment.NewCallbackController(reconciler, zapLogger)

	router := server.NewRouter(catalogCtrl, cartCtrl, orderCtrl, callbackCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func loadConfig() *config.Config {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err := commons.LoadConfig(path)
		if err != nil {
			log.Fatalf("loading config file: %v", err)
		}
		return cfg
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	return cfg
}
