package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsboard/internal/auth"
	"newsboard/internal/config"
	"newsboard/internal/db"
	"newsboard/internal/logger"
	"newsboard/internal/metrics"
	"newsboard/internal/queue"
	"newsboard/internal/server"
)

const startupTimeout = 10 * time.Second

func main() {
	logger.Init(false)
	defer logger.Log.Info("Application stopped")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загрузка конфигурации
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}
	logger.Init(cfg.Debug)
	if err := cfg.CheckRequired(); err != nil {
		logger.Log.Errorf("Config error: %v", err)
	}

	// Инициализация БД. Недоступная база не останавливает запуск: запросы к данным вернут 500.
	var store server.Store
	database, err := db.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Errorf("DB connection error: %v", err)
		store = db.Unavailable{Err: err}
	} else {
		defer database.Close()
		initDatabase(ctx, database)
		store = database
	}

	// Публикация событий в RabbitMQ, если она настроена
	var notifier server.Notifier
	if cfg.PublishEvents() {
		producer, err := queue.NewProducer(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			logger.Log.Errorf("RabbitMQ producer error, news events disabled: %v", err)
		} else {
			defer producer.Close()
			notifier = queue.NewNewsNotifier(producer)
			logger.Log.WithField("queue", cfg.AMQPQueue).Info("Publishing news events")
		}
	}

	if cfg.LogCredentials {
		logger.Log.Warn("LOG_CREDENTIALS is enabled: admin passwords will be written to the log")
	}

	// HTTP сервер
	srv := server.NewServer(
		store,
		auth.NewGate(cfg.AdminPassword, cfg.LogCredentials),
		notifier,
		metrics.New(),
	)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Log.Infof("Starting HTTP server on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	ctxShutdown, cancelShutdown := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Log.Errorf("Forced shutdown: %v", err)
	}
}

// initDatabase проверяет подключение и создаёт схему. Ошибки только логируются.
func initDatabase(ctx context.Context, database *db.Database) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	now, err := database.Now(ctx)
	if err != nil {
		logger.Log.Errorf("Database initialization error: %v", err)
		return
	}
	logger.Log.WithField("server_time", now).Info("Connected to database")

	if err := database.EnsureSchema(ctx); err != nil {
		logger.Log.Errorf("Database initialization error: %v", err)
		return
	}
	logger.Log.Info("Table 'news' is ready")
}
