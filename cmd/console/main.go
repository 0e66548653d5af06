package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deliverytech/console/internal/config"
	"github.com/deliverytech/console/internal/events"
	"github.com/deliverytech/console/internal/httpserver"
	"github.com/deliverytech/console/internal/localstore"
	"github.com/deliverytech/console/internal/logging"
	"github.com/deliverytech/console/internal/session"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	store, err := localstore.Open(cfg.StateDBPath)
	if err != nil {
		log.Fatalf("state store: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, logger)
	defer producer.Close()
	if producer.Enabled() {
		logger.Info("audit events enabled", "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("audit events disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	if err := httpserver.Register(e, &httpserver.Server{
		Manager:    session.NewManager(cfg.BackendURL, store, time.Duration(cfg.SessionTTLMinutes)*time.Minute),
		Events:     producer,
		CookieName: cfg.SessionCookie,
		Log:        logger,
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
