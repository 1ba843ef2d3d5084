package handlers

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// HandleExportAssets processes export:assets tasks
// This is a thin wrapper that delegates to the usecase method
func (h *Handlers) HandleExportAssets(ctx context.Context, task *asynq.Task) error {
	jobID, payload, err := h.parse(ctx, task)
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "[Queue] Processing export:assets job", slog.String("job_id", jobID.String()))

	res, err := h.usecase.ProcessExportAssetsJob(ctx, jobID, payload)
	if err != nil {
		h.logger.ErrorContext(ctx, "[Queue] Failed to process job",
			slog.String("job_id", jobID.String()),
			slog.String("err", err.Error()),
		)
		return err
	}

	h.writeResult(ctx, task, res)

	h.logger.InfoContext(ctx, "[Queue] Successfully completed job", slog.String("job_id", jobID.String()))
	return nil
}
