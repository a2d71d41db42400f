package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/slow-inventory/internal/adapter/handler"
	"github.com/rl1809/slow-inventory/internal/adapter/storage"
	"github.com/rl1809/slow-inventory/internal/config"
	"github.com/rl1809/slow-inventory/internal/core/domain"
	"github.com/rl1809/slow-inventory/internal/core/service"
	"github.com/rl1809/slow-inventory/internal/logging"
	"github.com/rl1809/slow-inventory/internal/port"
)

// seedItems is the fixed startup inventory. One item starts at zero so
// the out-of-stock path is visible on first load.
var seedItems = []domain.Item{
	{ID: "tee-classic", Name: "Classic Tee", Stock: 10},
	{ID: "mug-stone", Name: "Stoneware Mug", Stock: 5},
	{ID: "cap-canvas", Name: "Canvas Cap", Stock: 3},
	{ID: "tote-denim", Name: "Denim Tote", Stock: 0},
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logging.Sync(logger)

	var repo port.InventoryRepository
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		repo = storage.NewRedisAdapter(rdb)
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	case config.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Fatal("failed to open mysql", zap.Error(err))
		}
		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping mysql", zap.Error(err))
		}
		defer db.Close()
		repo = storage.NewMySQLAdapter(db)
		logger.Info("connected to mysql")

	default:
		repo = storage.NewMemoryAdapter()
		logger.Info("using in-memory store")
	}

	if err := repo.SeedItems(ctx, seedItems); err != nil {
		logger.Fatal("failed to seed items", zap.Error(err))
	}
	logger.Info("seeded inventory", zap.Int("items", len(seedItems)))

	inventory := service.NewInventoryService(repo, service.Config{
		ReadDelay:       cfg.ReadDelay,
		ClaimDelay:      cfg.ClaimDelay,
		ReadFailureRate: cfg.ReadFailureRate,
	}, logger)

	httpHandler := handler.NewHTTPHandler(inventory, repo.Ping, logger)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.NewRouter(httpHandler),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown", zap.Error(err))
	}
	logger.Info("HTTP server stopped")
}
