package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Client is the producer side of the job queue. The API enqueues
// here; the worker binary picks tasks up.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string, redisPassword string) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueJob publishes a task for the job row identified by jobID.
// jobType doubles as the asynq task type, so handler registration in
// the worker keys off the same string.
func (c *Client) EnqueueJob(ctx context.Context, jobID uuid.UUID, jobType string, payload []byte) error {
	body, err := json.Marshal(map[string]any{
		"job_id":  jobID.String(),
		"type":    jobType,
		"payload": string(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(jobType, body))
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Printf("queue: enqueued %s task id=%s", jobType, info.ID)
	return nil
}
