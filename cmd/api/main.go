package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	deliveryHTTP "github.com/frontandrew/stationtime/internal/delivery/http"
	"github.com/frontandrew/stationtime/internal/pkg/config"
	"github.com/frontandrew/stationtime/internal/pkg/database"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/pkg/metrics"
	"github.com/frontandrew/stationtime/internal/pkg/redis"
	"github.com/frontandrew/stationtime/internal/pkg/tracing"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/frontandrew/stationtime/internal/repository/cached"
	"github.com/frontandrew/stationtime/internal/repository/memory"
	"github.com/frontandrew/stationtime/internal/repository/postgres"
	"github.com/frontandrew/stationtime/internal/usecase/admin"
	"github.com/frontandrew/stationtime/internal/usecase/report"
	"github.com/frontandrew/stationtime/internal/usecase/weather"
	"github.com/frontandrew/stationtime/internal/usecase/worktime"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger и tracing
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	logger.SetGlobalLogger(log)
	log.Info("Starting stationtime API server", map[string]interface{}{
		"version": cfg.App.Version,
		"env":     cfg.App.Env,
		"storage": cfg.Storage.Driver,
	})

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.App, log)
	if err != nil {
		log.Fatal("Failed to init tracing", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// =========================================================================
	// Хранилище
	// =========================================================================

	store, txManager, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open storage", map[string]interface{}{
			"error":  err.Error(),
			"driver": cfg.Storage.Driver,
		})
	}
	defer closeStorage()

	// =========================================================================
	// Кэш станций и карт в Redis
	// =========================================================================

	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer redisClient.Close()

		store = cached.NewStore(store, redisClient, log)
		txManager = cached.NewTxManager(txManager, redisClient, log)

		log.Info("Connected to Redis", map[string]interface{}{
			"host": cfg.Redis.Host,
			"port": cfg.Redis.Port,
		})
	}

	if open, err := store.WorkTimes().CountOpen(ctx); err == nil {
		metrics.SetOpenWorkTimes(open)
	} else {
		log.Warn("Failed to count open work times", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// =========================================================================
	// Создание use case services
	// =========================================================================

	workTimeService := worktime.NewService(txManager, store, worktime.Config{
		MaxAttempts: cfg.WorkTime.TxMaxAttempts,
		Backoff:     cfg.WorkTime.TxBackoff,
	}, log)
	weatherService := weather.NewService(store.Stations(), store.WeatherData(), log)
	reportService := report.NewService(store, log)
	adminService := admin.NewService(txManager, store, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers и router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		deliveryHTTP.NewWorkTimeHandler(workTimeService, log),
		deliveryHTTP.NewWeatherHandler(weatherService, log),
		deliveryHTTP.NewReportHandler(reportService, log),
		deliveryHTTP.NewAdminHandler(adminService, log),
		cfg,
		log,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера в goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			// Принудительное закрытие
			if err := srv.Close(); err != nil {
				log.Error("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		if err := shutdownTracing(ctx); err != nil {
			log.Warn("Failed to flush traces", map[string]interface{}{
				"error": err.Error(),
			})
		}

		log.Info("Server stopped gracefully")
	}
}

// openStorage выбирает реализацию хранилища по STORAGE_DRIVER
func openStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, repository.TxManager, func(), error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		db := memory.NewDB()
		return db.Store(), memory.NewTxManager(db), func() {}, nil
	}

	pool, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := database.ApplySchema(ctx, pool, postgres.Schema); err != nil {
		database.Close(pool)
		return nil, nil, nil, err
	}

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	return postgres.NewStore(pool), postgres.NewTxManager(pool), func() { database.Close(pool) }, nil
}
