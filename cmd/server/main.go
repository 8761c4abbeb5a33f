package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iliyamo/cinema-ticket-booking/internal/app"
	"github.com/iliyamo/cinema-ticket-booking/internal/booking"
	"github.com/iliyamo/cinema-ticket-booking/internal/catalog"
	"github.com/iliyamo/cinema-ticket-booking/internal/config" // Internal config loader
	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/identity"
	"github.com/iliyamo/cinema-ticket-booking/internal/logger"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/router" // Internal router setup
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
)

func main() {
	cfg := config.MustLoad() // Load environment config
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := app.OpenStores(cfg.DB)
	if err != nil {
		log.Error("store init failed", slog.String("driver", cfg.DB.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer stores.Close()

	// Redis is optional: without it the ticket history falls back to the
	// booking store and rate limiting and caching are disabled.
	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn("redis unavailable; history, rate limit and cache disabled", slog.String("addr", cfg.Redis.Address()))
	} else {
		defer rdb.Close()
	}

	publisher, err := app.NewPublisher(cfg)
	if err != nil {
		log.Error("publisher init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer publisher.Close()

	if cfg.Kafka.Driver == "" || cfg.Kafka.Driver == app.EventsRabbitMQ {
		go func() {
			err := queue.StartBookingConsumer(ctx, queue.ConsumerConfig{
				URL:    cfg.RabbitMQ.URL,
				Queue:  cfg.RabbitMQ.Queue,
				LogDir: cfg.RabbitMQ.LogDir,
			}, log.Logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("booking consumer stopped")
			}
		}()
	}

	seatMaps, err := app.NewSeatMaps(cfg.SeatMap, 0)
	if err != nil {
		log.Error("seat map config invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var (
		history booking.History
		tickets handler.TicketLister
	)
	if rdb != nil {
		th := repository.NewTicketHistory(rdb, cfg.Redis.HistoryTTL)
		history, tickets = th, th
	}

	newSelection := app.SelectionFactory(cfg, stores.Bookings, identity.Context{}, history, log.Logger)
	sessions := app.NewSessions(cfg, newSelection, seatMaps, log.Logger)
	go sessions.RunSweeper(ctx, app.SweepInterval(cfg.Booking.SessionTTL))

	cat := catalog.Default()
	checkout := service.NewCheckout(publisher, log)

	e := router.New(log, middleware.NewTokenBucket(cfg.RateLimit, rdb, log.Logger))
	router.RegisterRoutes(e, stores.Bookings)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg.Auth,
		repository.NewUserRepo(stores.SQL), repository.NewTokenRepo(stores.SQL), log), cfg.Auth.JWTSecret)
	router.RegisterCatalog(e, handler.NewCatalogHandler(cat), middleware.NewRedisCache(cfg.Cache, rdb))
	router.RegisterBooking(e, handler.NewBookingHandler(sessions, cat, checkout, stores.Bookings, tickets, cfg.Booking.MaxAdvanceDays), cfg.Auth.JWTSecret)

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env), slog.String("store", cfg.DB.Driver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", slog.String("error", err.Error()))
	}
}
