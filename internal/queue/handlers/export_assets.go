package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// HandleExportAssets processes asset export tasks. Thin wrapper; the
// job lifecycle and CSV generation live in the usecase.
func (h *Handlers) HandleExportAssets(ctx context.Context, task *asynq.Task) error {
	var payload TaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Printf("[Queue] Failed to parse task payload: %v\n", err)
		return err
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		log.Printf("[Queue] Invalid job ID: %v\n", err)
		return err
	}

	log.Printf("[Queue] Processing export:assets job: %s\n", jobID)

	if err := h.usecase.ProcessExportAssetsJob(ctx, jobID); err != nil {
		log.Printf("[Queue] Failed to process job %s: %v\n", jobID, err)
		return err
	}

	log.Printf("[Queue] Successfully completed job: %s\n", jobID)
	return nil
}
