package queue

import (
	"context"
	"encoding/json"

	"github.com/Deceus/devconnect/internal/jobs"
	"github.com/redis/go-redis/v9"
)

// JobsKey is the redis list both the API (producer) and worker (consumer) use.
const JobsKey = "devconnect:jobs"

type Producer struct {
	rdb *redis.Client
}

func NewProducer(rdb *redis.Client) *Producer {
	return &Producer{rdb: rdb}
}

// Enqueue pushes a typed job onto the queue. Callers treat failures as
// non-fatal: a lost welcome email never fails the request that caused it.
func (p *Producer) Enqueue(ctx context.Context, t jobs.JobType, payload any) (jobs.Job, error) {
	raw, err := jobs.EncodePayload(t, payload)

	if err != nil {
		return jobs.Job{}, err
	}

	j, err := jobs.NewJob(t, raw)

	if err != nil {
		return jobs.Job{}, err
	}

	b, err := json.Marshal(j)

	if err != nil {
		return jobs.Job{}, err
	}

	err = p.rdb.LPush(ctx, JobsKey, b).Err()

	if err != nil {
		return jobs.Job{}, err
	}

	return j, nil
}

// Requeue puts a failed job back with its attempt count already bumped.
func (p *Producer) Requeue(ctx context.Context, j jobs.Job) error {
	b, err := json.Marshal(j)

	if err != nil {
		return err
	}

	return p.rdb.LPush(ctx, JobsKey, b).Err()
}

// Depth reports the queue length, used by the worker gauge.
func (p *Producer) Depth(ctx context.Context) (int64, error) {
	return p.rdb.LLen(ctx, JobsKey).Result()
}
