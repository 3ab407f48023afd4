package handler

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/google/uuid"
)

const (
	TopicEmailTasks    = "email_tasks"
	TopicProductEvents = "product_events"
)

const (
	TaskWelcomeEmail       = "welcome_email"
	TaskUpdateConfirmation = "update_confirmation_email"
	TaskDeleteConfirmation = "delete_confirmation_email"
)

// Publisher hands tasks and events to the broker. Delivery and retry are the
// queue's contract, not the handlers'.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// EmailTask is the deferred email job consumed by the jobs worker.
type EmailTask struct {
	Type   string `json:"type"`
	To     string `json:"to"`
	UserID uint   `json:"user_id"`
	Token  string `json:"token"`
}

// ProductEvent mirrors product writes into the search index.
type ProductEvent struct {
	Type      string `json:"type"`
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	IsDeleted bool   `json:"is_deleted"`
}

func enqueueEmail(ctx context.Context, q Publisher, taskType string, user *models.User) {
	if q == nil {
		return
	}
	task := EmailTask{
		Type:   taskType,
		To:     user.Email,
		UserID: user.ID,
		Token:  uuid.NewString(),
	}
	if err := q.PublishEvent(ctx, TopicEmailTasks, fmt.Sprint(user.ID), task); err != nil {
		logging.FromContext(ctx).Warn("email_task_enqueue_failed", "type", taskType, "error", err)
	}
}

func publishProductEvent(ctx context.Context, q Publisher, eventType string, p *models.Product) {
	if q == nil {
		return
	}
	event := ProductEvent{
		Type:      eventType,
		ProductID: p.ID,
		Name:      p.Name,
		IsDeleted: p.IsDeleted,
	}
	if err := q.PublishEvent(ctx, TopicProductEvents, fmt.Sprint(p.ID), event); err != nil {
		logging.FromContext(ctx).Warn("product_event_publish_failed", "type", eventType, "error", err)
	}
}
