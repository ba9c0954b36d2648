package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/droppoint/lockerd/internal/audit"
	"github.com/droppoint/lockerd/internal/cache"
	"github.com/droppoint/lockerd/internal/config"
	"github.com/droppoint/lockerd/internal/db"
	"github.com/droppoint/lockerd/internal/engine"
	"github.com/droppoint/lockerd/internal/kafka"
	"github.com/droppoint/lockerd/internal/logger"
	"github.com/droppoint/lockerd/internal/repository/postgresql"
	"github.com/droppoint/lockerd/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New("debug")
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	database, err := db.NewDb(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to init database", zap.Error(err))
	}
	defer database.GetPool().Close()

	slotRepo := postgresql.NewSlotRepo(database)
	parcelRepo := postgresql.NewParcelRepo(database)
	reservationRepo := postgresql.NewReservationRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo()
	userRepo := postgresql.NewUserRepo(database)

	reservationCache := cache.NewReservationCache(reservationRepo, log)
	if err := reservationCache.LoadInitialData(ctx); err != nil {
		log.Fatal("failed to warm reservation cache", zap.Error(err))
	}

	recorder := audit.NewRecorder(outboxRepo, cfg.AuditTopic)
	codes := engine.NewCodeGenerator(cfg.CodeLength)

	eng := engine.New(database, slotRepo, parcelRepo, reservationRepo, recorder, codes, reservationCache, engine.Options{
		ReservationLease: cfg.ReservationLease,
		PickupWindow:     cfg.PickupWindow,
		CodeMaxAttempts:  cfg.CodeMaxAttempts,
		TieBreak:         cfg.AllocationPolicy,
		ReclaimBatchSize: cfg.ReclaimBatchSize,
	}, log)

	producer := kafka.NewKafkaProducer(cfg.KafkaBrokers)
	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxAttempts:  cfg.OutboxMaxAttempts,
	}, log)

	reclaimer := engine.NewReclaimer(eng, cfg.ReclaimInterval, log)
	srv := server.New(eng, userRepo, log)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return srv.Run(groupCtx, cfg.HTTPPort)
	})
	group.Go(func() error {
		reclaimer.Run(groupCtx)
		reclaimer.Shutdown()
		return nil
	})
	group.Go(func() error {
		publisher.Run(groupCtx)
		publisher.Shutdown()
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatal("shutdown with error", zap.Error(err))
	}
	log.Info("server gracefully stopped")
}
