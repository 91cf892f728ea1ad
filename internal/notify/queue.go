package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"teamchat/internal/logger"
)

// Scheduler defers a job by delay. A zero delay means as soon as a worker
// polls.
type Scheduler interface {
	Schedule(ctx context.Context, job Job, delay time.Duration) error
}

type queuedJob struct {
	ID  string `json:"id"`
	Job Job    `json:"job"`
}

// RedisQueue is a delay queue stored in one sorted set scored by due time
// in unix milliseconds.
type RedisQueue struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key, now: time.Now}
}

func (q *RedisQueue) Schedule(ctx context.Context, job Job, delay time.Duration) error {
	payload, err := json.Marshal(queuedJob{ID: uuid.NewString(), Job: job})
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	due := q.now().Add(delay).UnixMilli()
	if err := q.client.ZAdd(ctx, q.key, redis.Z{Score: float64(due), Member: string(payload)}).Err(); err != nil {
		return fmt.Errorf("schedule %s email: %w", job.Type, err)
	}
	slog.DebugContext(ctx, "email scheduled", "type", job.Type, "to", job.Email.To, "delay", delay)
	return nil
}

// Claim removes and returns up to limit due jobs. A job is returned to at
// most one caller even when several workers poll concurrently.
func (q *RedisQueue) Claim(ctx context.Context, limit int64) ([]Job, error) {
	members, err := q.client.ZRangeArgs(ctx, redis.ZRangeArgs{
		Key:     q.key,
		Start:   "-inf",
		Stop:    strconv.FormatInt(q.now().UnixMilli(), 10),
		ByScore: true,
		Count:   limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("read due jobs: %w", err)
	}

	var jobs []Job
	for _, raw := range members {
		removed, err := q.client.ZRem(ctx, q.key, raw).Result()
		if err != nil {
			return jobs, fmt.Errorf("claim job: %w", err)
		}
		if removed == 0 {
			continue
		}
		var qj queuedJob
		if err := json.Unmarshal([]byte(raw), &qj); err != nil {
			slog.ErrorContext(ctx, "dropping malformed job", "error", err, "raw", logger.Truncate(raw, 200))
			continue
		}
		jobs = append(jobs, qj.Job)
	}
	return jobs, nil
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.key).Result()
}

// Worker drains the queue into the dispatcher.
type Worker struct {
	queue      *RedisQueue
	dispatcher *Dispatcher
	interval   time.Duration
	batchSize  int64
}

func NewWorker(queue *RedisQueue, dispatcher *Dispatcher, interval time.Duration, batchSize int64) *Worker {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Worker{queue: queue, dispatcher: dispatcher, interval: interval, batchSize: batchSize}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "teamchat.notify.worker"})
	slog.InfoContext(ctx, "notification worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			slog.ErrorContext(ctx, "notification poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "notification worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce dispatches every job due now and returns how many were handled.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	handled := 0
	for {
		jobs, err := w.queue.Claim(ctx, w.batchSize)
		if err != nil {
			return handled, err
		}
		if len(jobs) == 0 {
			return handled, nil
		}
		res := w.dispatcher.DispatchBatch(ctx, jobs)
		handled += len(jobs)
		if res.Failed > 0 {
			slog.WarnContext(ctx, "some notifications failed", "sent", res.Sent, "failed", res.Failed)
		}
		if int64(len(jobs)) < w.batchSize {
			return handled, nil
		}
	}
}
