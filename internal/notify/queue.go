package notify

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher puts a serialized message on a queue.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// QueueDeliverer hands messages to a queue for the mailer worker.
type QueueDeliverer struct {
	publisher Publisher
}

// NewQueueDeliverer creates a QueueDeliverer.
func NewQueueDeliverer(publisher Publisher) *QueueDeliverer {
	return &QueueDeliverer{publisher: publisher}
}

// Deliver enqueues msg as JSON.
func (d *QueueDeliverer) Deliver(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := d.publisher.Publish(ctx, body); err != nil {
		return fmt.Errorf("failed to enqueue message to %s: %w", msg.To, err)
	}
	return nil
}

// QueuedMessageHandler decodes messages taken off the queue and delivers
// them through next.
func QueuedMessageHandler(next Deliverer) func(ctx context.Context, body []byte) error {
	return func(ctx context.Context, body []byte) error {
		var msg Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to decode queued message: %w", err)
		}
		if msg.To == "" {
			return fmt.Errorf("queued message has no recipient")
		}
		return next.Deliver(ctx, msg)
	}
}
