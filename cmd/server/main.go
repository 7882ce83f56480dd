package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/communityservice/platform-backend/internal/config"
	"github.com/communityservice/platform-backend/internal/db"
	"github.com/communityservice/platform-backend/internal/goroutine"
	httpHandlers "github.com/communityservice/platform-backend/internal/http/handlers"
	httpRouter "github.com/communityservice/platform-backend/internal/http/router"
	"github.com/communityservice/platform-backend/internal/logger"
	"github.com/communityservice/platform-backend/internal/metrics"
	"github.com/communityservice/platform-backend/internal/notification"
	"github.com/communityservice/platform-backend/internal/repository"
	"github.com/communityservice/platform-backend/internal/service"
)

const (
	accessTokenTTL  = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("main: ошибка загрузки конфигурации")
	}

	log := logger.Init(cfg.Env)

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPool)
	if err != nil {
		log.WithError(err).Fatal("main: ошибка подключения к базе")
	}
	defer safeClose(dbConn, log)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath, logger.Component("migrations")); err != nil {
		log.WithError(err).Fatal("main: ошибка миграций")
	}

	// Метрики.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewDBStatsCollector(dbConn.DB, "postgres"))
	notifyMetrics := metrics.NewNotification(registry)
	httpMetrics := metrics.NewHTTP(registry)

	// Каналы уведомлений читают настройки из хранилища, которое перечитывается по SIGHUP.
	channelStore := config.NewChannelStore(cfg.Channels)
	go watchReload(ctx, channelStore, logger.Component("config"))

	httpClient := notification.NewHTTPClient(cfg.NotifyTimeout)
	dispatcher := notification.NewDispatcher(cfg.NotifyTimeout, logger.Component("notification"), notifyMetrics,
		notification.NewWhatsAppChannel(channelStore.WhatsApp, httpClient),
		notification.NewSMSChannel(channelStore.SMS, httpClient),
	)
	runner := goroutine.NewRunner(logger.Component("background"))

	// Репозитории.
	workerRepo := repository.NewWorkerRepository(dbConn)
	categoryRepo := repository.NewCategoryRepository(dbConn)

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, accessTokenTTL)
	onboarding := service.NewOnboardingService(workerRepo, categoryRepo, dispatcher, runner, logger.Component("onboarding"))
	categories := service.NewCategoryService(categoryRepo, logger.Component("categories"))

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Deps{
		Workers:    httpHandlers.NewWorkerHandler(onboarding),
		Categories: httpHandlers.NewCategoryHandler(categories),
		Health:     httpHandlers.NewHealthHandler(dbConn, cfg.Env),
		Tokens:     tokenManager,
		Metrics:    httpMetrics,
		Gatherer:   registry,
		Log:        logger.Component("http"),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала и дожидаемся фоновых уведомлений.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout+dispatcher.MaxDuration())
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("main: ошибка остановки http сервера")
		}
		if err := runner.Wait(shutdownCtx); err != nil {
			log.WithError(err).Warn("main: фоновые задачи не завершились вовремя")
		}
	}()

	log.WithFields(logrus.Fields{"port": cfg.HTTPPort, "env": cfg.Env}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
	<-stopped
}

// watchReload перечитывает настройки каналов по SIGHUP.
func watchReload(ctx context.Context, store *config.ChannelStore, log *logrus.Entry) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			settings := store.Reload()
			log.WithFields(logrus.Fields{
				"whatsapp_enabled": settings.WhatsApp.Configured(),
				"sms_enabled":      settings.SMS.Configured(),
			}).Info("notification channels reloaded")
		}
	}
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB, log *logrus.Logger) {
	if err := conn.Close(); err != nil {
		log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
