package database

import (
	"context"
	"slices"
	"time"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Job struct {
	ID         uuid.UUID       `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	Type       string          `gorm:"column:type;type:varchar(255);NOT NULL"`
	CreatedBy  uuid.UUID       `gorm:"column:created_by;type:uuid;index"`
	Status     string          `gorm:"column:status;type:varchar(255);NOT NULL"`
	Payload    datatypes.JSON  `gorm:"column:payload"`
	Result     datatypes.JSON  `gorm:"column:result"`
	Error      string          `gorm:"column:error;type:text"`
	StartedAt  *time.Time      `gorm:"column:started_at"`
	FinishedAt *time.Time      `gorm:"column:finished_at"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
	DeletedAt  *gorm.DeletedAt `gorm:"column:deleted_at"`

	Creator *User `gorm:"foreignKey:CreatedBy;references:ID"`
}

func (Job) TableName() string {
	return "jobs"
}

func (s *service) CreateJob(ctx context.Context, job usecase.Job) (usecase.Job, error) {
	j := Job{
		Type:      job.Type,
		CreatedBy: job.CreatedBy,
		Status:    job.Status,
		Payload:   datatypes.JSON(job.Payload),
	}
	if err := s.db.
		WithContext(ctx).
		Clauses(clause.Returning{}).
		Create(&j).Error; err != nil {
		return usecase.Job{}, err
	}

	return j.ConvertToUsecase(), nil
}

func (s *service) ListJobs(ctx context.Context, opt usecase.ListJobsOption) ([]usecase.Job, int, error) {
	var (
		jobs  []Job
		ujobs []usecase.Job
		count int64
	)

	db := s.db.Model([]Job{}).WithContext(ctx)

	if opt.Types != nil {
		db = db.Where("type IN ?", opt.Types)
	}
	if opt.Statuses != nil {
		db = db.Where("status IN ?", opt.Statuses)
	}
	if opt.CreatedBy != uuid.Nil {
		db = db.Where("created_by = ?", opt.CreatedBy)
	}

	var (
		orderIn = "DESC"
		orderBy = "created_at"
	)
	if slices.Contains([]string{"ASC", "DESC"}, opt.SortIn) {
		orderIn = opt.SortIn
	}
	if slices.Contains([]string{"created_at", "updated_at", "started_at", "finished_at"}, opt.SortBy) {
		orderBy = opt.SortBy
	}
	db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: orderIn == "DESC"})

	if err := db.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if opt.Limit > 0 {
		db = db.Limit(opt.Limit)
	}
	if opt.Skip > 0 {
		db = db.Offset(opt.Skip)
	}

	if err := db.Preload("Creator").Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	for _, job := range jobs {
		uj := job.ConvertToUsecase()
		if job.Creator != nil {
			creator := job.Creator.ConvertToUsecase()
			uj.Creator = &creator
		}
		ujobs = append(ujobs, uj)
	}

	return ujobs, int(count), nil
}

func (s *service) UpdateJob(ctx context.Context, job usecase.Job) (usecase.Job, error) {
	if err := s.db.
		WithContext(ctx).
		Clauses(clause.Returning{}).
		Model(&Job{}).
		Where("id = ?", job.ID).
		Updates(Job{
			Type:       job.Type,
			CreatedBy:  job.CreatedBy,
			Status:     job.Status,
			Payload:    datatypes.JSON(job.Payload),
			Result:     datatypes.JSON(job.Result),
			Error:      job.Error,
			StartedAt:  job.StartedAt,
			FinishedAt: job.FinishedAt,
		}).Error; err != nil {

		return usecase.Job{}, err
	}

	return job, nil
}

func (s *service) GetJobByID(ctx context.Context, id uuid.UUID) (usecase.Job, error) {
	var job Job
	if err := s.db.
		WithContext(ctx).
		Preload("Creator").
		First(&job, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return usecase.Job{}, usecase.ErrNotFound{Message: "Job not found"}
		}
		return usecase.Job{}, err
	}

	uj := job.ConvertToUsecase()
	if job.Creator != nil {
		creator := job.Creator.ConvertToUsecase()
		uj.Creator = &creator
	}

	return uj, nil
}

func (j Job) ConvertToUsecase() usecase.Job {
	var d *time.Time
	if j.DeletedAt != nil {
		d = &j.DeletedAt.Time
	}
	return usecase.Job{
		ID:         j.ID,
		Type:       j.Type,
		CreatedBy:  j.CreatedBy,
		Status:     j.Status,
		Payload:    []byte(j.Payload),
		Result:     []byte(j.Result),
		Error:      j.Error,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
		DeletedAt:  d,
	}
}
