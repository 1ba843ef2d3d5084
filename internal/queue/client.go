package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/queue/handlers"
	"github.com/librarease/assetvault/internal/usecase"
)

const (
	defaultQueue = "default"
	maxRetry     = 3
)

// RedisOptFromEnv returns the asynq connection settings and whether
// Redis is configured at all.
func RedisOptFromEnv() (asynq.RedisClientOpt, bool) {
	host := os.Getenv(config.ENV_KEY_REDIS_HOST)
	if host == "" {
		return asynq.RedisClientOpt{}, false
	}
	port := os.Getenv(config.ENV_KEY_REDIS_PORT)
	if port == "" {
		port = "6379"
	}
	return asynq.RedisClientOpt{
		Addr:     host + ":" + port,
		Password: os.Getenv(config.ENV_KEY_REDIS_PASSWORD),
	}, true
}

// Client wraps asynq.Client for enqueuing tasks and asynq.Inspector for
// reading their state back.
type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	logger    *slog.Logger
}

// NewClient creates a new queue client
func NewClient(opt asynq.RedisClientOpt, logger *slog.Logger) *Client {
	return &Client{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		logger:    logger,
	}
}

// Close closes the client connection
func (c *Client) Close() error {
	return errors.Join(c.client.Close(), c.inspector.Close())
}

// EnqueueJob enqueues a job task to the queue. The job id doubles as the
// asynq task id so GetJob can find it.
func (c *Client) EnqueueJob(ctx context.Context, jobID uuid.UUID, jobType string, payload []byte) error {
	payloadBytes, err := json.Marshal(handlers.TaskPayload{
		JobID:   jobID.String(),
		Type:    jobType,
		Payload: string(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(jobType, payloadBytes)

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.TaskID(jobID.String()),
		asynq.Queue(defaultQueue),
		asynq.MaxRetry(maxRetry),
		asynq.Retention(config.EXPORT_RETENTION_HOURS*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	c.logger.InfoContext(ctx, "[Queue] Enqueued task",
		slog.String("id", info.ID),
		slog.String("queue", info.Queue),
		slog.String("type", jobType),
	)
	return nil
}

func (c *Client) GetJob(_ context.Context, jobID uuid.UUID) (usecase.Job, error) {
	info, err := c.inspector.GetTaskInfo(defaultQueue, jobID.String())
	if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return usecase.Job{}, usecase.JobNotFound(jobID)
	}
	if err != nil {
		return usecase.Job{}, fmt.Errorf("failed to get task info: %w", err)
	}

	return usecase.Job{
		ID:     jobID,
		Type:   info.Type,
		Status: JobStatus(info.State),
		Result: info.Result,
		Error:  info.LastErr,
	}, nil
}

// JobStatus maps asynq task states onto job statuses. A task waiting
// for a retry still reports its last error but counts as pending.
func JobStatus(state asynq.TaskState) string {
	switch state {
	case asynq.TaskStateActive:
		return usecase.JobStatusProcessing
	case asynq.TaskStateCompleted:
		return usecase.JobStatusCompleted
	case asynq.TaskStateArchived:
		return usecase.JobStatusFailed
	default:
		return usecase.JobStatusPending
	}
}
