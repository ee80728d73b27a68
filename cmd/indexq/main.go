package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-indexq/internal/scheduler"
	"github.com/huynhanx03/go-indexq/internal/server"
	"github.com/huynhanx03/go-indexq/pkg/logger"
	"github.com/huynhanx03/go-indexq/pkg/settings"
	"github.com/huynhanx03/go-indexq/pkg/timer"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "Override server port")
	capacity := flag.Int("capacity", 0, "Override queue capacity")
	flag.Parse()

	if err := run(*configPath, *port, *capacity); err != nil {
		fmt.Fprintf(os.Stderr, "indexq: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port, capacity int) error {
	cfg, err := settings.Load(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if capacity > 0 {
		cfg.Queue.Capacity = capacity
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	publisher := scheduler.NopPublisher()
	if cfg.Kafka.Enabled {
		kp, err := scheduler.DialKafka(cfg.Kafka)
		if err != nil {
			return err
		}
		publisher = kp
		log.Info("publishing queue events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	clock := timer.System()
	if cfg.Queue.ClockStep > 0 {
		clock = timer.NewCachedTimer(time.Duration(cfg.Queue.ClockStep) * time.Millisecond)
	}
	defer clock.Stop()

	svc := scheduler.NewService(cfg.Queue,
		scheduler.WithPublisher(publisher),
		scheduler.WithClock(clock),
		scheduler.WithLogger(log.Named("scheduler")))
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warn("close publisher", zap.Error(err))
		}
	}()

	log.Info("queue ready",
		zap.Int("capacity", svc.Capacity()),
		zap.Int("max_key", cfg.Queue.MaxKey),
		zap.Bool("sparse", cfg.Queue.Sparse))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, svc, log.Named("http"))
	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, timeout)
	})
	if cfg.Server.StatsInterval > 0 {
		g.Go(func() error {
			reportStats(gctx, svc, log, time.Duration(cfg.Server.StatsInterval)*time.Second)
			return nil
		})
	}

	return g.Wait()
}

// reportStats logs the queue occupancy until ctx is done.
func reportStats(ctx context.Context, svc *scheduler.Service, log *zap.Logger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Info("queue stats",
				zap.Int("size", svc.Size()),
				zap.Int("capacity", svc.Capacity()))
		}
	}
}
