package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/internal/app/commands"
	availabilityapp "staybook/internal/app/handlers/availability"
	pricingapp "staybook/internal/app/handlers/pricing"
	reservationapp "staybook/internal/app/handlers/reservation"
	"staybook/internal/app/policies"
	"staybook/internal/app/queries"
	domainavailability "staybook/internal/domain/availability"
	domainoffering "staybook/internal/domain/offering"
	domainpricing "staybook/internal/domain/pricing"
	domainreservation "staybook/internal/domain/reservation"
	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/config"
	mongodb "staybook/internal/infra/db/mongo"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	"staybook/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration load failed", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	offerings, store, ready, cleanup, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	publisher, closePublisher, err := buildPublisher(cfg, logger)
	if err != nil {
		logger.Error("kafka init failed", "error", err)
		os.Exit(1)
	}
	defer closePublisher()

	checker := domainavailability.NewChecker(store)
	engine := domainpricing.NewEngine()
	now := func() time.Time { return time.Now().UTC() }

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.CheckQuery{}.Key(), &availabilityapp.CheckHandler{
		Offerings: offerings,
		Checker:   checker,
	})
	queries.RegisterHandler(queryBus, availabilityapp.BlockedDatesQuery{}.Key(), &availabilityapp.BlockedDatesHandler{
		Offerings: offerings,
		Checker:   checker,
		Now:       now,
	})
	queries.RegisterHandler(queryBus, pricingapp.QuoteQuery{}.Key(), &pricingapp.QuoteHandler{
		Offerings: offerings,
		Engine:    engine,
		Now:       now,
	})

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, reservationapp.RequestCommand{}.Key(), &reservationapp.RequestHandler{
		Offerings: offerings,
		Store:     store,
		Checker:   checker,
		Engine:    engine,
		Publisher: publisher,
		Now:       now,
	})
	commands.RegisterHandler(commandBus, reservationapp.UpdateStatusCommand{}.Key(), &reservationapp.UpdateStatusHandler{
		Offerings: offerings,
		Store:     store,
		Checker:   checker,
		Publisher: publisher,
		Now:       now,
	})
	commands.RegisterHandler(commandBus, reservationapp.DeleteCommand{}.Key(), &reservationapp.DeleteHandler{
		Store: store,
	})

	if err := loadOfferingFixtures(ctx, cfg, offerings, logger); err != nil {
		logger.Warn("offering fixtures load failed", "error", err, "path", cfg.FixturesPath)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: ready}, ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{Queries: queryBus},
		Pricing:      ginserver.PricingHandler{Queries: queryBus},
		Reservation:  ginserver.ReservationHandler{Commands: commandBus},
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func buildStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (domainoffering.Repository, domainreservation.Store, func() error, func(), error) {
	if cfg.StorageMode == "mongo" {
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		db := client.Database(cfg.MongoDB)
		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Error("mongo disconnect failed", "error", err)
			}
		}
		ready := func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx, nil)
		}
		return mongodb.NewOfferingRepository(db), mongodb.NewReservationRepository(db), ready, cleanup, nil
	}
	return memory.NewOfferingRepository(), memory.NewReservationStore(), func() error { return nil }, func() {}, nil
}

func buildPublisher(cfg config.Config, logger *slog.Logger) (policies.EventPublisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka disabled, reservation events will be dropped")
		return nil, func() {}, nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close failed", "error", err)
		}
	}
	return kafka.EventPublisher{Producer: producer, Topic: cfg.KafkaTopic}, cleanup, nil
}
