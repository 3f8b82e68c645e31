// Package events publishes domain events to a message broker after successful writes.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Skotchmaster/safari_vendors/internal/logging"
)

const (
	TopicUser    = "user_events"
	TopicProduct = "product_events"
	TopicCart    = "cart_events"
	TopicOrder   = "order_events"
	TopicReview  = "review_events"
)

// Event is the JSON payload; "type" names what happened.
type Event map[string]any

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event Event) error
	Close() error
}

type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, Event) error { return nil }
func (Nop) Close() error                                           { return nil }

type Options struct {
	Backend      string
	KafkaBrokers []string
	AMQPURL      string
	// QueueSize bounds the events waiting for the background sender.
	QueueSize int
}

// New returns the configured broker publisher behind an Async queue.
func New(opts Options) (Publisher, error) {
	switch opts.Backend {
	case "", "none":
		return Nop{}, nil
	case "kafka":
		return NewAsync(NewKafka(opts.KafkaBrokers), opts.QueueSize), nil
	case "amqp":
		p, err := DialAMQP(opts.AMQPURL, DefaultExchange)
		if err != nil {
			return nil, err
		}
		return NewAsync(p, opts.QueueSize), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", opts.Backend)
	}
}

// Emit publishes and only logs failures; a lost event never fails the caller.
func Emit(ctx context.Context, p Publisher, topic, key string, event Event) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", event["type"], "error", err)
	}
}

func encode(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("events: json.Marshal failed: %w", err)
	}
	return data, nil
}
