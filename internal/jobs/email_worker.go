// Package jobs runs the deferred-task consumers. The core enqueues email
// tasks fire-and-forget; delivery and retry end here, not in the handlers.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Skotchmaster/shop_api/internal/email"
	"github.com/Skotchmaster/shop_api/internal/handler"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/segmentio/kafka-go"
)

type EmailWorker struct {
	Reader *kafka.Reader
	Sender email.Sender
}

func NewEmailWorker(brokers []string, groupID string, sender email.Sender) *EmailWorker {
	return &EmailWorker{
		Reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    handler.TopicEmailTasks,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		Sender: sender,
	}
}

// Run consumes until the context is cancelled. A failed task is logged and
// skipped; one bad message must not wedge the queue.
func (w *EmailWorker) Run(ctx context.Context) error {
	for {
		m, err := w.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := w.handle(ctx, m.Value); err != nil {
			logging.FromContext(ctx).Error("email_task_failed", "error", err)
		}
	}
}

func (w *EmailWorker) handle(ctx context.Context, payload []byte) error {
	var task handler.EmailTask
	if err := json.Unmarshal(payload, &task); err != nil {
		return fmt.Errorf("decode email task: %w", err)
	}

	switch task.Type {
	case handler.TaskWelcomeEmail:
		return w.Sender.SendWelcome(ctx, task.To, task.UserID, task.Token)
	case handler.TaskUpdateConfirmation:
		return w.Sender.SendUpdateConfirmation(ctx, task.To, task.UserID, task.Token)
	case handler.TaskDeleteConfirmation:
		return w.Sender.SendDeleteConfirmation(ctx, task.To, task.UserID, task.Token)
	default:
		return fmt.Errorf("unknown email task type %q", task.Type)
	}
}

func (w *EmailWorker) Close() error {
	return w.Reader.Close()
}
