package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hotelhub/reservation-service/pkg/kafka"
	"github.com/hotelhub/reservation-service/pkg/logger"
	"github.com/hotelhub/reservation-service/pkg/postgres"
	"github.com/hotelhub/reservation-service/reservation/config"
	"github.com/hotelhub/reservation-service/reservation/internal/handler"
	"github.com/hotelhub/reservation-service/reservation/internal/repository"
	"github.com/hotelhub/reservation-service/reservation/internal/server"
	"github.com/hotelhub/reservation-service/reservation/internal/service"
	clientSvc "github.com/hotelhub/reservation-service/reservation/internal/service/client"
	roomSvc "github.com/hotelhub/reservation-service/reservation/internal/service/room"
	"github.com/hotelhub/reservation-service/reservation/migrations"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "reservation")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), time.Second)
	if err := cache.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, room cache disabled", zap.Error(err))
		cache = nil
	}
	cancelPing()

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("kafka producer %v", err)
	}

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo reservations %v", err)
	}
	svc := service.NewService(repo,
		roomSvc.NewService(log, cfg.RoomHTTPServer, cache),
		clientSvc.NewService(log, cfg.ClientHTTPServer),
		service.NewEnqueuer(producer),
		log,
		service.WithLookupTimeout(cfg.Collaborators.LookupTimeout))
	h := handler.New(svc, cfg.Auth, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	if err := producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	if cache != nil {
		if err := cache.Close(); err != nil {
			log.Error("cache.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
