package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chucky-1/budget-jobs/internal/config"
	"github.com/chucky-1/budget-jobs/internal/consumer"
	"github.com/chucky-1/budget-jobs/internal/producer"
	"github.com/chucky-1/budget-jobs/internal/repository"
	"github.com/chucky-1/budget-jobs/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found")
	}

	cfg := config.Config{}
	if err := env.Parse(&cfg); err != nil {
		logrus.Fatalf("couldn't parse config: %v", err)
	}
	setupLogger(cfg)

	mongoCli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logrus.Fatalf("couldn't connect to mongo: %v", err)
	}
	defer func() {
		if err = mongoCli.Disconnect(context.Background()); err != nil {
			logrus.Errorf("couldn't disconnect from mongo: %v", err)
		}
	}()
	documents := repository.NewMongo(mongoCli, cfg.Mongo.Database, cfg.Mongo.Collection)
	if err = documents.EnsureIndexes(ctx); err != nil {
		logrus.Fatal(err)
	}

	var (
		identity repository.Identity
		locker   repository.Locker
	)
	switch cfg.Identity.Driver {
	case "postgres":
		pool, err := pgxpool.Connect(ctx, cfg.Identity.PostgresEndpoint)
		if err != nil {
			logrus.Fatalf("couldn't connect to postgres: %v", err)
		}
		defer pool.Close()
		identity = repository.NewPostgres(pool)

		pgLocker, err := repository.NewPostgresLocker(ctx, cfg.Identity.PostgresEndpoint, cfg.Identity.LockConns)
		if err != nil {
			logrus.Fatal(err)
		}
		defer pgLocker.Close()
		locker = pgLocker
	case "sqlite":
		sqlite, err := repository.NewSQLite(cfg.Identity.SQLitePath)
		if err != nil {
			logrus.Fatal(err)
		}
		defer sqlite.Close()
		identity = sqlite
		locker = repository.NewLocalLocker()
	default:
		logrus.Fatalf("unknown identity driver %q", cfg.Identity.Driver)
	}

	storage, err := repository.NewFileStorage(cfg.Storage.Root, cfg.Storage.SigningKey, cfg.HTTP.PublicURL)
	if err != nil {
		logrus.Fatal(err)
	}

	mailer, err := producer.NewMailer(cfg.Mail)
	if err != nil {
		logrus.Fatal(err)
	}

	var alerter producer.Alerter = producer.NewLogAlerter()
	if cfg.Telegram.Token != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			logrus.Fatalf("couldn't create telegram bot: %v", err)
		}
		alerter = producer.NewTelegramAlerter(bot, cfg.Telegram.AlertChatID)
	}

	deps := service.Deps{
		Documents: documents,
		Identity:  identity,
		Storage:   storage,
		Notifier:  mailer,
		Alerter:   alerter,
		Locker:    locker,
	}
	opts := service.Options{
		From:        cfg.Mail.From,
		Concurrency: cfg.Jobs.Concurrency,
		LinkTTL:     cfg.Export.LinkTTL,
		TempDir:     cfg.Export.TempDir,
	}

	handler, err := consumer.NewHandler(service.NewDeleter(deps, opts), service.NewExporter(deps, opts), storage,
		cfg.HTTP.JWTSecret, cfg.Jobs.Timeout)
	if err != nil {
		logrus.Fatal(err)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.SetupRoutes(router)

	cleaner := consumer.NewCleaner(storage, cfg.Export.LinkTTL, cfg.Export.CleanInterval)
	go cleaner.Consume(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}
	go func() {
		logrus.Infof("http server listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("http server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("http server couldn't shutdown: %v", err)
	}
	<-time.After(2 * time.Second)
}

func setupLogger(cfg config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if level != logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}
