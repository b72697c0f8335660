package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// GetJobDownloadURL resolves a completed export job to a short-lived
// presigned URL for its artifact.
func (u Usecase) GetJobDownloadURL(ctx context.Context, jobID uuid.UUID) (string, error) {
	job, err := u.GetJobByID(ctx, jobID)
	if err != nil {
		return "", err
	}
	if job.Status != "COMPLETED" {
		return "", ErrConflict{Message: fmt.Sprintf("job is %s, not COMPLETED", job.Status)}
	}
	var res struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(job.Result, &res); err != nil {
		return "", fmt.Errorf("failed to parse job result: %w", err)
	}
	if res.Path == "" {
		return "", ErrNotFound{Message: "job has no artifact"}
	}
	return u.fileStorageProvider.GetPresignedURL(ctx, res.Path)
}
