package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	healthhandler "github.com/collabhub/notifications-service/internal/api/handlers/health"
	notifhandler "github.com/collabhub/notifications-service/internal/api/handlers/notification"
	"github.com/collabhub/notifications-service/internal/api/router"
	"github.com/collabhub/notifications-service/internal/api/server"
	"github.com/collabhub/notifications-service/internal/config"
	eventhandler "github.com/collabhub/notifications-service/internal/rabbitmq/handlers/event"
	"github.com/collabhub/notifications-service/internal/rabbitmq/queue"
	notifrepo "github.com/collabhub/notifications-service/internal/repository/notification"
	notifsvc "github.com/collabhub/notifications-service/internal/service/notification"
	"github.com/collabhub/notifications-service/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()

	// .env is optional; in containers the variables come from the environment.
	_ = godotenv.Load()

	cfg := config.Must()
	val := validator.New()

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.Database)

	if err = rdb.Ping(ctx).Err(); err != nil {
		// The unread counter degrades to repository lookups without the cache.
		zlog.Logger.Warn().Err(err).Msg("failed to connect to redis, unread counts will not be cached")
	}

	repo := notifrepo.NewRepository(db)
	service := notifsvc.NewService(repo, rdb)

	var closeBus func()

	if cfg.Events.Enabled {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Retries, cfg.RabbitMQ.Pause)
		if err != nil {
			// The HTTP surface stays up without the ingestion loop.
			zlog.Logger.Error().Err(err).Msg("failed to connect to rabbitmq, event ingestion disabled")
		} else {
			ch, err := conn.Channel()
			if err != nil {
				zlog.Logger.Fatal().Err(err).Msg("failed to open channel")
			}

			q, err := queue.NewEventQueue(ch, cfg)
			if err != nil {
				zlog.Logger.Fatal().Err(err).Msg("failed to declare event queue")
			}

			msgHandler := eventhandler.NewHandler(service, q, val)
			consumer := worker.NewConsumer(q, msgHandler)

			go consumer.Run(ctx, cfg.Retry)

			closeBus = func() {
				if err := ch.Close(); err != nil {
					zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
				}

				if err := conn.Close(); err != nil {
					zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
				}
			}
		}
	} else {
		zlog.Logger.Info().Msg("event ingestion is disabled")
	}

	notifHandler := notifhandler.NewHandler(service, val, cfg)
	healthHandler := healthhandler.NewHandler(db, cfg.Events.Enabled)

	r := router.New(notifHandler, healthHandler)
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close master DB")
	}

	for i, slave := range db.Slaves {
		if err := slave.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msgf("failed to close slave DB %d", i)
		}
	}

	if closeBus != nil {
		closeBus()
	}
}
