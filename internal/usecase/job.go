package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job tracks a background task (currently CSV exports) through
// PENDING -> PROCESSING -> COMPLETED/FAILED.
type Job struct {
	ID         uuid.UUID
	Type       string
	CreatedBy  uuid.UUID
	Status     string
	Payload    []byte
	Result     []byte
	Error      string
	StartedAt  *time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time

	Creator *User
}

type ListJobsOption struct {
	Skip   int
	Limit  int
	SortBy string
	SortIn string

	Types     []string
	Statuses  []string
	CreatedBy uuid.UUID
}

func (u Usecase) ListJobs(ctx context.Context, opt ListJobsOption) ([]Job, int, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !actor.Can(CapViewAllUsers) {
		opt.CreatedBy = actor.ID
	}
	return u.repo.ListJobs(ctx, opt)
}

func (u Usecase) GetJobByID(ctx context.Context, id uuid.UUID) (Job, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return Job{}, err
	}
	job, err := u.repo.GetJobByID(ctx, id)
	if err != nil {
		return Job{}, err
	}
	if job.CreatedBy != actor.ID && !actor.Can(CapViewAllUsers) {
		return Job{}, ErrForbidden{}
	}
	return job, nil
}

// CreateJob persists the job record and enqueues it for the worker.
func (u Usecase) CreateJob(ctx context.Context, job Job) (Job, error) {
	created, err := u.repo.CreateJob(ctx, job)
	if err != nil {
		return Job{}, err
	}
	if u.queueClient != nil {
		if err := u.queueClient.EnqueueJob(ctx, created.ID, created.Type, created.Payload); err != nil {
			return Job{}, err
		}
	}
	return created, nil
}
