package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"riskguard/internal/api"
	"riskguard/internal/config"
	"riskguard/internal/execution"
	"riskguard/internal/feed"
	"riskguard/internal/notifier"
	"riskguard/internal/repository"
	"riskguard/internal/risk"
	"riskguard/internal/service"
	"riskguard/pkg/utils"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// .env опционален: в проде переменные приходят из окружения
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.InitGlobalLogger(utils.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer logger.Sync()

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", utils.Err(err))
	}
	defer db.Close()

	logger.Info("connected to database",
		utils.String("dsn", cfg.Database.DSNWithoutPassword()))

	// Репозитории
	orderRepo := repository.NewOrderRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	instrumentRepo := repository.NewInstrumentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	sysConfigRepo := repository.NewSystemConfigRepository(db)
	candleRepo := repository.NewCandleRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	// Сервисы
	systemService := service.NewSystemService(sysConfigRepo)
	notificationService := service.NewNotificationService(notificationRepo, cfg.Notifier.TelegramChatID)
	kpiService := service.NewKpiService(orderRepo, positionRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Фид котировок: WebSocket тикеры + свечи как fallback
	instruments, err := instrumentRepo.GetAll(ctx)
	if err != nil {
		logger.Fatal("failed to load instruments", utils.Err(err))
	}
	tickerStream := feed.NewTickerStream(cfg.Feed.WSURL, instruments, candleRepo, logger)
	priceFeed := feed.NewPriceFeed(tickerStream, candleRepo)

	go func() {
		if err := tickerStream.Start(ctx); err != nil {
			logger.Error("ticker stream stopped", utils.Err(err))
		}
	}()

	// Протокол размещения ордеров
	placer := execution.NewPlacer(orderRepo, instrumentRepo, priceFeed,
		cfg.Risk.DefaultOrderQuantity, logger)

	// Риск-ядро
	executor := risk.NewActionExecutor(placer, transactionRepo, notificationService, logger)
	guardrail := risk.NewGuardrail(systemService, transactionRepo, notificationService,
		cfg.Risk.AccountID, logger)
	evaluator := risk.NewEvaluator(priceFeed, executor, risk.DefaultRules(), logger)
	engine := risk.NewEngine(positionRepo, guardrail, evaluator,
		cfg.Risk.AccountID, cfg.Risk.CycleInterval, logger)

	go engine.Run(ctx)

	// Воркер уведомлений: без токена outbox копится, но не доставляется
	if cfg.Notifier.TelegramToken != "" {
		sender := notifier.NewTelegramSender(cfg.Notifier.TelegramToken, logger)
		worker := notifier.NewWorker(notificationRepo, sender,
			cfg.Notifier.Interval, cfg.Notifier.BatchSize, logger)
		go worker.Run(ctx)
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN not set, notification delivery disabled")
	}

	// HTTP API
	router := api.SetupRoutes(&api.Dependencies{
		Alerts:        alertRepo,
		Placer:        placer,
		Config:        systemService,
		Notifs:        notificationService,
		Kpi:           kpiService,
		AccountID:     cfg.Risk.AccountID,
		AuthTokenHash: cfg.API.AuthTokenHash,
		Logger:        logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting http server", utils.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", utils.Err(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Останавливаем риск-цикл, фид и воркер
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", utils.Err(err))
	}

	logger.Info("shutdown complete")
}

// initDatabase открывает соединение с PostgreSQL и настраивает пул
func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
