package notify

import (
	"context"
	"fmt"
	"regexp"

	"fbay/pkg/logger"
)

// Deliverer transmits a message to its recipient.
type Deliverer interface {
	Deliver(ctx context.Context, msg Message) error
}

// DelivererFunc adapts a function to a Deliverer.
type DelivererFunc func(ctx context.Context, msg Message) error

// Deliver calls f(ctx, msg).
func (f DelivererFunc) Deliver(ctx context.Context, msg Message) error { return f(ctx, msg) }

// LogDeliverer writes messages to the log instead of sending them.
type LogDeliverer struct{}

// Deliver logs msg.
func (LogDeliverer) Deliver(_ context.Context, msg Message) error {
	logger.Info("printing email", map[string]any{
		"to":      msg.To,
		"subject": msg.Subject,
		"body":    msg.Body,
	})
	return nil
}

// PermittedDeliverer sends messages whose recipient matches one of the
// permitted patterns through send and everything else through fallback.
// It backs print mode, where only whitelisted test inboxes get real mail.
type PermittedDeliverer struct {
	permitted []*regexp.Regexp
	send      Deliverer
	fallback  Deliverer
}

// NewPermittedDeliverer compiles patterns and builds a PermittedDeliverer.
func NewPermittedDeliverer(patterns []string, send, fallback Deliverer) (*PermittedDeliverer, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid permitted email pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &PermittedDeliverer{permitted: compiled, send: send, fallback: fallback}, nil
}

// Deliver routes msg by recipient.
func (d *PermittedDeliverer) Deliver(ctx context.Context, msg Message) error {
	for _, re := range d.permitted {
		if re.MatchString(msg.To) {
			return d.send.Deliver(ctx, msg)
		}
	}
	return d.fallback.Deliver(ctx, msg)
}
