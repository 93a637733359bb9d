package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kamberss/camrent/internal/config"
	"github.com/kamberss/camrent/internal/es"
	"github.com/kamberss/camrent/internal/handlers"
	"github.com/kamberss/camrent/internal/logging"
	loggingmw "github.com/kamberss/camrent/internal/middleware/logging"
	"github.com/kamberss/camrent/internal/mykafka"
	"github.com/kamberss/camrent/internal/service/token"
	httpserver "github.com/kamberss/camrent/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod, err := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             db,
		AuthHandler:    &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		ProductHandler: &handlers.ProductHandler{DB: db, Producer: prod, ES: esClient, Index: "products"},
		RentalHandler:  &handlers.RentalHandler{DB: db, Producer: prod},
		PaymentHandler: &handlers.PaymentHandler{DB: db, Producer: prod, RedirectURL: "https://pay.kamberss.example/session"},
		UserHandler:    &handlers.UserHandler{DB: db, Producer: prod},
		SearchHandler:  &handlers.SearchHandler{ES: esClient, Index: "products"},
		TokenService:   &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "err", err)
		}
	} else {
		logger.Error("db() error", "err", err)
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "err", err)
	}

	logger.Info("shutdown complete")
}
