package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/usecase"
)

// TaskPayload represents the standard payload structure for all tasks
type TaskPayload struct {
	JobID   string `json:"job_id"`
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// Handlers contains all queue task handlers
type Handlers struct {
	usecase usecase.Usecase
	logger  *slog.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(uc usecase.Usecase, logger *slog.Logger) *Handlers {
	return &Handlers{
		usecase: uc,
		logger:  logger,
	}
}

// Register binds every task type to its handler.
func (h *Handlers) Register(mux *asynq.ServeMux) []string {
	routes := map[string]asynq.HandlerFunc{
		config.TASK_TYPE_EXPORT_ASSETS: h.HandleExportAssets,
	}
	types := make([]string, 0, len(routes))
	for t, fn := range routes {
		mux.HandleFunc(t, fn)
		types = append(types, t)
	}
	return types
}

func (h *Handlers) parse(ctx context.Context, task *asynq.Task) (uuid.UUID, []byte, error) {
	var payload TaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		h.logger.ErrorContext(ctx, "[Queue] Failed to parse task payload", slog.String("err", err.Error()))
		return uuid.Nil, nil, fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		h.logger.ErrorContext(ctx, "[Queue] Invalid job ID", slog.String("job_id", payload.JobID))
		return uuid.Nil, nil, fmt.Errorf("%w: invalid job id: %v", asynq.SkipRetry, err)
	}

	return jobID, []byte(payload.Payload), nil
}

// writeResult stores res on the task so the inspector can return it.
// Tasks built outside a running server have no result writer.
func (h *Handlers) writeResult(ctx context.Context, task *asynq.Task, res []byte) {
	w := task.ResultWriter()
	if w == nil {
		return
	}
	if _, err := w.Write(res); err != nil {
		h.logger.WarnContext(ctx, "[Queue] Failed to write task result", slog.String("err", err.Error()))
	}
}
