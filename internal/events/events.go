package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultStream = "shoutout:events"

type Type string

const (
	RequestCreated       Type = "request.created"
	PaymentConfirmed     Type = "request.payment_confirmed"
	StatusChanged        Type = "request.status_changed"
	SweepPendingPayments Type = "sweep.pending_payment"
)

type Event struct {
	Type      Type
	RequestID string
	UserID    string
	Status    string
	At        time.Time
}

func (e Event) Values() map[string]any {
	return map[string]any{
		"type":      string(e.Type),
		"requestId": e.RequestID,
		"userId":    e.UserID,
		"status":    e.Status,
		"at":        e.At.UTC().Format(time.RFC3339Nano),
	}
}

// Decode reads an event back from stream message values.
func Decode(values map[string]any) (Event, error) {
	str := func(key string) string {
		if v, ok := values[key].(string); ok {
			return v
		}
		return ""
	}

	evt := Event{
		Type:      Type(str("type")),
		RequestID: str("requestId"),
		UserID:    str("userId"),
		Status:    str("status"),
	}
	if evt.Type == "" {
		return Event{}, fmt.Errorf("event type missing")
	}
	if at := str("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return Event{}, fmt.Errorf("parse at: %w", err)
		}
		evt.At = parsed
	}
	return evt, nil
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type StreamPublisher struct {
	client *redis.Client
	stream string
}

func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{client: client, stream: stream}
}

func (p *StreamPublisher) Publish(ctx context.Context, evt Event) error {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: evt.Values(),
	}).Result()
	return err
}
