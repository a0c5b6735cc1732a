package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/Deceus/devconnect/internal/jobs"
	"github.com/Deceus/devconnect/internal/notifications"
	"github.com/Deceus/devconnect/internal/observability"
	"github.com/Deceus/devconnect/internal/queue"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	WorkerID      string
	BlockTimeout  time.Duration
	ShutdownGrace time.Duration
}

type Worker struct {
	cfg      Config
	rdb      *redis.Client
	producer *queue.Producer
	notifier notifications.Notifier
	log      *slog.Logger
	metrics  *observability.Prom
}

func New(cfg Config, rdb *redis.Client, notifier notifications.Notifier, log *slog.Logger, metrics *observability.Prom) *Worker {
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = 2 * time.Second
	}

	return &Worker{
		cfg:      cfg,
		rdb:      rdb,
		producer: queue.NewProducer(rdb),
		notifier: notifier,
		log:      log,
		metrics:  metrics,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker received shutdown signal", "worker_id", w.cfg.WorkerID)
			return nil
		default:
		}

		processed, err := w.ProcessOne(ctx)

		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			w.log.Error("process error", "err", err)
			continue
		}

		if processed && w.metrics != nil {
			if depth, derr := w.producer.Depth(ctx); derr == nil {
				w.metrics.QueueDepth.Set(float64(depth))
			}
		}
	}
}

// ProcessOne blocks for one job and runs it to a terminal state (done,
// requeued with backoff, or dropped after max tries).
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	res, err := w.rdb.BRPop(ctx, w.cfg.BlockTimeout, queue.JobsKey).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	// BRPop returns [key, value]
	if len(res) != 2 {
		return false, nil
	}

	var j jobs.Job

	err = json.Unmarshal([]byte(res[1]), &j)

	if err != nil {
		w.log.Error("dropping undecodable job", "err", err)
		return true, nil
	}

	start := time.Now()
	err = w.execute(ctx, j)
	result := "done"

	if err != nil {
		result = w.handleFailure(ctx, j, err)
	}

	if w.metrics != nil {
		w.metrics.JobResults.WithLabelValues(string(j.Type), result).Inc()
		w.metrics.JobDuration.WithLabelValues(string(j.Type), result).Observe(time.Since(start).Seconds())
	}

	return true, nil
}

func (w *Worker) execute(ctx context.Context, j jobs.Job) error {
	decoded, err := jobs.DecodePayload(j)

	if err != nil {
		return err
	}

	err = jobs.ValidatePayload(j.Type, decoded)

	if err != nil {
		return err
	}

	switch p := decoded.(type) {
	case jobs.SendWelcomeEmailPayload:
		return w.notifier.SendWelcome(ctx, notifications.SendWelcomeInput{
			Email:  p.Email,
			Name:   p.Name,
			UserID: p.UserID,
		})

	case jobs.SendAccountFarewellPayload:
		return w.notifier.SendAccountFarewell(ctx, notifications.SendAccountFarewellInput{
			Email:  p.Email,
			Name:   p.Name,
			UserID: p.UserID,
		})

	default:
		return jobs.ErrInvalidJobType
	}
}

// handleFailure requeues with exponential backoff until the job runs out of
// tries; a malformed payload is never retried.
func (w *Worker) handleFailure(ctx context.Context, j jobs.Job, cause error) string {
	if errors.Is(cause, jobs.ErrInvalidJobPayload) || errors.Is(cause, jobs.ErrInvalidJobType) || errors.Is(cause, jobs.ErrPayloadTypeMismatch) {
		w.log.Error("dropping malformed job", "job_id", j.ID, "type", j.Type, "err", cause)
		return "failed"
	}

	j.Attempts++

	if j.Attempts >= j.MaxTries {
		w.log.Error("job exhausted retries", "job_id", j.ID, "type", j.Type, "attempts", j.Attempts, "err", cause)
		return "failed"
	}

	delay := ExponentialBackoff(j.Attempts - 1)
	w.log.Warn("job failed, requeueing", "job_id", j.ID, "type", j.Type, "attempt", j.Attempts, "delay", delay.String(), "err", cause)

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		// push back immediately so the job survives shutdown
	}

	err := w.producer.Requeue(context.WithoutCancel(ctx), j)

	if err != nil {
		w.log.Error("requeue failed, job lost", "job_id", j.ID, "err", err)
		return "failed"
	}

	return "retry"
}
