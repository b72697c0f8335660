package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ExportAssetsOption struct {
	Category    string
	Status      AssetStatus
	AssetTypeID uuid.UUID
}

type ExportAssetsJobPayload struct {
	Category    string      `json:"category,omitempty"`
	Status      AssetStatus `json:"status,omitempty"`
	AssetTypeID uuid.UUID   `json:"asset_type_id,omitempty"`
}

// ExportAssets enqueues a CSV export job and returns the job id. The
// worker picks it up; clients poll the job or wait for the notification.
func (u Usecase) ExportAssets(ctx context.Context, opt ExportAssetsOption) (string, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return "", err
	}
	if !actor.Can(CapViewAllRequests) {
		return "", ErrForbidden{}
	}

	b, err := json.Marshal(ExportAssetsJobPayload(opt))
	if err != nil {
		return "", err
	}
	job, err := u.CreateJob(ctx, Job{
		Type:      "export:assets",
		CreatedBy: actor.ID,
		Status:    "PENDING",
		Payload:   b,
	})
	if err != nil {
		return "", err
	}
	return job.ID.String(), nil
}

func (u Usecase) ProcessExportAssetsJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := u.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	var payload ExportAssetsJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse job payload: %w", err)
	}

	now := time.Now()
	job.Status = "PROCESSING"
	job.StartedAt = &now
	if _, err := u.repo.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to update job to PROCESSING: %w", err)
	}

	res, err := u.executeExport(ctx, payload)
	if err != nil {
		finished := time.Now()
		job.Status = "FAILED"
		job.Error = err.Error()
		job.FinishedAt = &finished
		u.repo.UpdateJob(ctx, job)
		return fmt.Errorf("export failed: %w", err)
	}

	finished := time.Now()
	job.Status = "COMPLETED"
	job.Result = res
	job.FinishedAt = &finished
	if _, err := u.repo.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to update job to COMPLETED: %w", err)
	}

	go func() {
		if err := u.CreateNotification(context.Background(), Notification{
			UserID:        job.CreatedBy,
			Title:         "Export Ready",
			Message:       "Your asset export is ready for download",
			ReferenceType: "EXPORT_ASSETS",
			ReferenceID:   &job.ID,
		}); err != nil {
			fmt.Printf("failed to send notification for job %s: %v\n", job.ID, err)
		}
	}()

	return nil
}

func (u Usecase) executeExport(ctx context.Context, payload ExportAssetsJobPayload) ([]byte, error) {
	assets, _, err := u.repo.ListAssets(ctx, ListAssetsOption{
		Category:    payload.Category,
		Status:      payload.Status,
		AssetTypeID: payload.AssetTypeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	csvData := generateCSV(assets)

	fileName := fmt.Sprintf("assets-export-%s.csv", time.Now().Format("20060102-150405"))
	path := "exports/" + fileName

	if err := u.fileStorageProvider.UploadFile(ctx, path, csvData); err != nil {
		return nil, fmt.Errorf("failed to upload export file: %w", err)
	}

	return json.Marshal(map[string]any{
		"path": path,
		"name": fileName,
		"size": len(csvData),
	})
}

func generateCSV(assets []Asset) []byte {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write([]string{"Name", "Serial Number", "Category", "Brand", "Model", "Status", "Location", "Assigned To", "Purchased At"})

	var assignedTo, purchasedAt string
	for _, a := range assets {
		if a.Assignment != nil && a.Assignment.User != nil {
			assignedTo = displayName(*a.Assignment.User)
		}
		if a.PurchaseDate != nil {
			purchasedAt = a.PurchaseDate.UTC().Format("2006-01-02")
		}
		writer.Write([]string{
			a.Name,
			a.SerialNumber,
			a.Category,
			a.Brand,
			a.Model,
			string(a.Status),
			a.Location,
			assignedTo,
			purchasedAt,
		})
		assignedTo, purchasedAt = "", ""
	}
	writer.Flush()
	return buf.Bytes()
}
