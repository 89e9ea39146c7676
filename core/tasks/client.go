package tasks

import (
	"context"

	"campus-events/core/config"
	"campus-events/core/logger"

	"github.com/hibiken/asynq"
)

// Client enqueues background tasks onto the Redis-backed queue.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueAttendanceReport queues the attendance email for the event teacher.
func (c *Client) EnqueueAttendanceReport(ctx context.Context, payload AttendanceReportPayload) error {
	task, err := NewAttendanceReportTask(payload)
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		logger.Error("TaskClient:EnqueueAttendanceReport", "error", err, "event", payload.EventName)
		return err
	}

	logger.Info("Attendance report queued",
		"task_id", info.ID,
		"queue", info.Queue,
		"teacher_email", payload.TeacherEmail,
	)
	return nil
}
