package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Deceus/devconnect/internal/config"
	"github.com/Deceus/devconnect/internal/notifications"
	"github.com/Deceus/devconnect/internal/observability"
	"github.com/Deceus/devconnect/internal/queue/redisclient"
	"github.com/Deceus/devconnect/internal/queue/worker"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	redisCli := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer redisCli.Close()

	pingCtx, cancelPing := config.WithTimeout(3 * time.Second)

	err := redisCli.Ping(pingCtx)

	cancelPing()

	if err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}

	metrics := observability.NewProm(prometheus.NewRegistry())
	notifier := notifications.NewLogNotifier(log)

	host, _ := os.Hostname()
	workerID := host + "-" + strconv.Itoa(os.Getpid())

	w := worker.New(worker.Config{
		WorkerID:      workerID,
		BlockTimeout:  2 * time.Second,
		ShutdownGrace: 10 * time.Second,
	}, redisCli.Raw(), notifier, log, metrics)

	log.Info("worker started", "worker_id", workerID)

	if err := w.Run(ctx); err != nil {
		log.Error("worker stopped with error", "err", err)
	}

	log.Info("worker shutdown complete")
}
