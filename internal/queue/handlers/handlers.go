package handlers

import "github.com/assetdesk/assetdesk/internal/usecase"

type Handlers struct {
	usecase usecase.Usecase
}

func NewHandlers(uc usecase.Usecase) *Handlers {
	return &Handlers{
		usecase: uc,
	}
}

// TaskPayload represents the standard payload structure for all tasks
type TaskPayload struct {
	JobID   string `json:"job_id"`
	Type    string `json:"type"`
	Payload string `json:"payload"`
}
