package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/email"
	"github.com/Skotchmaster/shop_api/internal/handler"
	"github.com/Skotchmaster/shop_api/internal/httpserver"
	"github.com/Skotchmaster/shop_api/internal/jobs"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/mykafka"
	"github.com/Skotchmaster/shop_api/internal/search"
	"github.com/Skotchmaster/shop_api/internal/uow"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	ctx := logging.IntoContext(context.Background(), logger)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	if err := gdb.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Cart{},
		&models.CartProduct{}, &models.Account{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	factory := uow.Factory{DB: gdb}

	authService := &auth.Service{DB: gdb, JWTSecret: []byte(cfg.JWTSecret), Queue: producer}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	sender := email.NewSendGrid(cfg.SendGridKey, cfg.EmailFrom, cfg.PublicBaseURL)
	emailWorker := jobs.NewEmailWorker(cfg.KafkaBrokers, cfg.ServiceName+"-email", sender)
	defer emailWorker.Close()
	go func() {
		if err := emailWorker.Run(workerCtx); err != nil {
			logger.Error("email_worker_stopped", "error", err)
		}
	}()

	var es *elasticsearch.Client
	if cfg.ESURL != "" {
		es, err = search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}

		indexer := search.NewIndexer(cfg.KafkaBrokers, cfg.ServiceName+"-indexer", cfg.ESIndex, es)
		defer indexer.Close()
		go func() {
			if err := indexer.Run(workerCtx); err != nil {
				logger.Error("indexer_stopped", "error", err)
			}
		}()
	} else {
		logger.Warn("search_disabled", "reason", "ES_URL is empty")
	}

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	httpserver.Register(e, &httpserver.Deps{
		DB:           gdb,
		Users:        &handler.UserHandler{UoW: factory, Queue: producer},
		Products:     &handler.ProductHandler{UoW: factory, Queue: producer},
		Carts:        &handler.CartHandler{UoW: factory},
		CartProducts: &handler.CartProductHandler{UoW: factory},
		Auth:         authService,
		ES:           es,
		ESIndex:      cfg.ESIndex,
		JWTSecret:    []byte(cfg.JWTSecret),
	})

	go func() {
		logger.Info("server_starting", "port", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo_shutdown", "error", err)
	}
	stopWorkers()

	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server_stopped")
}
