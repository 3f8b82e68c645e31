package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Skotchmaster/safari_vendors/internal/logging"
)

const (
	DefaultQueueSize = 1024
	sendTimeout      = 5 * time.Second
)

var (
	ErrQueueFull = errors.New("events: queue full, event dropped")
	ErrClosed    = errors.New("events: publisher closed")
)

type job struct {
	ctx   context.Context
	log   *slog.Logger
	topic string
	key   string
	event Event
}

// Async hands events to a single background sender so request handlers never
// wait on the broker. When the queue is full the event is dropped.
type Async struct {
	next  Publisher
	queue chan job

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsync(next Publisher, size int) *Async {
	if size <= 0 {
		size = DefaultQueueSize
	}
	a := &Async{
		next:  next,
		queue: make(chan job, size),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) PublishEvent(ctx context.Context, topic, key string, event Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	select {
	case a.queue <- job{
		ctx:   context.WithoutCancel(ctx),
		log:   logging.FromContext(ctx),
		topic: topic,
		key:   key,
		event: event,
	}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *Async) run() {
	defer close(a.done)
	for j := range a.queue {
		ctx, cancel := context.WithTimeout(j.ctx, sendTimeout)
		if err := a.next.PublishEvent(ctx, j.topic, j.key, j.event); err != nil {
			j.log.Warn("publish_event_error", "topic", j.topic, "type", j.event["type"], "error", err)
		}
		cancel()
	}
}

// Close stops accepting events, sends what is queued and closes the broker client.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
	return a.next.Close()
}
