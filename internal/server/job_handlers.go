package server

import (
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Job struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	CreatedBy  string  `json:"created_by"`
	Status     string  `json:"status"`
	Payload    string  `json:"payload,omitempty"`
	Result     string  `json:"result,omitempty"`
	Error      string  `json:"error,omitempty"`
	StartedAt  *string `json:"started_at,omitempty"`
	FinishedAt *string `json:"finished_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`

	Creator *User `json:"creator,omitempty"`
}

func ConvertJob(job usecase.Job) Job {
	j := Job{
		ID:        job.ID.String(),
		Type:      job.Type,
		CreatedBy: job.CreatedBy.String(),
		Status:    job.Status,
		Payload:   string(job.Payload),
		Result:    string(job.Result),
		Error:     job.Error,
		CreatedAt: job.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: job.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if job.StartedAt != nil {
		tmp := job.StartedAt.UTC().Format(time.RFC3339)
		j.StartedAt = &tmp
	}
	if job.FinishedAt != nil {
		tmp := job.FinishedAt.UTC().Format(time.RFC3339)
		j.FinishedAt = &tmp
	}

	if job.Creator != nil {
		creator := ConvertUser(*job.Creator)
		j.Creator = &creator
	}

	return j
}

type ListJobsRequest struct {
	Skip   int    `query:"skip"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	SortBy string `query:"sort_by" validate:"omitempty,oneof=created_at updated_at started_at finished_at"`
	SortIn string `query:"sort_in" validate:"omitempty,oneof=ASC DESC"`

	Types    []string `query:"types"`
	Statuses []string `query:"statuses" validate:"omitempty,dive,oneof=PENDING PROCESSING COMPLETED FAILED"`
}

func (s *Server) ListJobs(ctx echo.Context) error {
	var req ListJobsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	jobs, total, err := s.server.ListJobs(ctx.Request().Context(), usecase.ListJobsOption{
		Skip:     req.Skip,
		Limit:    req.Limit,
		SortBy:   req.SortBy,
		SortIn:   req.SortIn,
		Types:    req.Types,
		Statuses: req.Statuses,
	})
	if err != nil {
		return s.errJSON(ctx, err)
	}

	list := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		list = append(list, ConvertJob(job))
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    list,
		Meta: &Meta{
			Total: total,
			Skip:  req.Skip,
			Limit: req.Limit,
		},
	})
}

func (s *Server) GetJobByID(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid job id"})
	}

	job, err := s.server.GetJobByID(ctx.Request().Context(), id)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Success: true, Data: ConvertJob(job)})
}

// GetJobDownloadURL returns a short-lived presigned URL for a
// completed job's export artifact.
func (s *Server) GetJobDownloadURL(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, Res{Error: "invalid job id"})
	}

	url, err := s.server.GetJobDownloadURL(ctx.Request().Context(), id)
	if err != nil {
		return s.errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Success: true,
		Data:    map[string]string{"url": url},
	})
}
