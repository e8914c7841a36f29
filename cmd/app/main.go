package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightwizard/config"
	"github.com/Domenick1991/flightwizard/internal/bootstrap"
	"github.com/Domenick1991/flightwizard/internal/cache"
	"github.com/Domenick1991/flightwizard/internal/kafka"
	"github.com/Domenick1991/flightwizard/internal/repository"
	"github.com/Domenick1991/flightwizard/internal/service/flights"
	"github.com/Domenick1991/flightwizard/internal/service/session"
	"github.com/Domenick1991/flightwizard/internal/wizard"
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

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Wizard.FlightsCacheTTLSeconds)*time.Second,
		time.Duration(cfg.Wizard.SessionTTLMinutes)*time.Minute,
	)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	recordRepo := repository.NewRecordRepository(pool)
	flightService := flights.NewFlightService(flightRepo, redisCache)
	sessionService := session.NewService(
		redisCache,
		recordRepo,
		flightService,
		producer,
		cfg.Kafka.BookingEventsTopic,
		wizard.Policy{
			PassportGuardWindow: time.Duration(cfg.Wizard.PassportGuardWindowDays) * 24 * time.Hour,
			LeadMinimumAge:      cfg.Wizard.LeadPassengerMinimumAge,
		},
		session.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, sessionService, recordRepo); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
