package worker

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"taskdesk/internal/models"
	"taskdesk/internal/repository"
	ws "taskdesk/internal/websocket"
	"taskdesk/pkg/logger"
)

// queueKey is the Redis sorted set of pending completion jobs. The member is
// the task ID, the score is the unix time the task becomes due. Keeping the
// queue in Redis makes the jobs survive process restarts.
const queueKey = "tasks:completion:queue"

// Completer moves tasks from "processing" to "completed" after a fixed
// delay. Jobs are durable (Redis sorted set) and cancellable (removed when
// the task or its owner is deleted), and a due job is applied only if the
// task still exists and is still processing.
type Completer struct {
	db    *sql.DB
	redis *redis.Client
	hub   *ws.Hub
	delay time.Duration
}

// New builds a Completer. hub may be nil when no websocket surface exists,
// e.g. in tests.
func New(db *sql.DB, rdb *redis.Client, hub *ws.Hub, delay time.Duration) *Completer {
	return &Completer{db: db, redis: rdb, hub: hub, delay: delay}
}

// Schedule enqueues a completion job due after the configured delay.
func (w *Completer) Schedule(ctx context.Context, taskID int) error {
	due := float64(time.Now().Add(w.delay).Unix())
	return w.redis.ZAdd(ctx, queueKey, &redis.Z{
		Score:  due,
		Member: strconv.Itoa(taskID),
	}).Err()
}

// Cancel drops pending jobs for the given tasks. Unknown IDs are ignored.
func (w *Completer) Cancel(ctx context.Context, taskIDs ...int) error {
	if len(taskIDs) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(taskIDs))
	for _, id := range taskIDs {
		members = append(members, strconv.Itoa(id))
	}
	return w.redis.ZRem(ctx, queueKey, members...).Err()
}

// Run polls for due jobs until ctx is cancelled.
func (w *Completer) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Completer) sweep(ctx context.Context) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	members, err := w.redis.ZRangeByScore(ctx, queueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		logger.ErrorLogger.Error("Error reading completion queue", zap.Error(err))
		return
	}

	for _, member := range members {
		taskID, err := strconv.Atoi(member)
		if err != nil {
			// Malformed member, drop it so it does not wedge the queue.
			w.redis.ZRem(ctx, queueKey, member)
			continue
		}

		completed, err := repository.CompleteTask(w.db, taskID)
		if err != nil {
			logger.ErrorLogger.Error("Error completing task", zap.Int("task_id", taskID), zap.Error(err))
			continue
		}

		w.redis.ZRem(ctx, queueKey, member)

		if completed {
			logger.AuditLogger.Info("Task completed", zap.Int("task_id", taskID))
			if w.hub != nil {
				w.hub.BroadcastEvent(ws.TaskEvent{TaskID: taskID, Status: models.StatusCompleted})
			}
		}
	}
}
