package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkurenkov/eventease/config"
	"github.com/dkurenkov/eventease/internal/bootstrap"
	"github.com/dkurenkov/eventease/internal/cache"
	"github.com/dkurenkov/eventease/internal/clock"
	"github.com/dkurenkov/eventease/internal/kafka"
	"github.com/dkurenkov/eventease/internal/migrations"
	"github.com/dkurenkov/eventease/internal/relay"
	"github.com/dkurenkov/eventease/internal/repository"
	"github.com/dkurenkov/eventease/internal/service/auth"
	"github.com/dkurenkov/eventease/internal/service/booking"
	"github.com/dkurenkov/eventease/internal/service/events"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cache.EventsTTL())
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	hub := relay.NewHub(16)
	publisher := relay.Fanout{
		hub,
		kafka.NewNotificationPublisher(producer, cfg.Kafka.NotificationsTopic),
	}

	systemClock := clock.NewSystem()

	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	authService := auth.NewAuthService(userRepo, cfg.Auth.Secret, cfg.Auth.TokenTTL(), systemClock)
	eventService := events.NewEventService(eventRepo, bookingRepo, publisher, redisCache, systemClock)
	bookingService := booking.NewBookingService(bookingRepo, eventRepo, publisher, systemClock,
		booking.WithCache(redisCache))

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Auth:     authService,
		Events:   eventService,
		Bookings: bookingService,
		Users:    userRepo,
		Hub:      hub,
		Clock:    systemClock,
	})
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}
