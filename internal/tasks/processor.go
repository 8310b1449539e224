package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"celebrisaludos/internal/events"
	"celebrisaludos/internal/metrics"
	"celebrisaludos/internal/models"
)

type RequestLister interface {
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.ShoutoutRequest, error)
}

// Processor turns lifecycle events into fan notifications and payment reminders.
// Notifications are log lines; there is no delivery channel.
type Processor struct {
	requests    RequestLister
	remindAfter time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

func NewProcessor(requests RequestLister, remindAfter time.Duration, logger zerolog.Logger) *Processor {
	return &Processor{
		requests:    requests,
		remindAfter: remindAfter,
		logger:      logger,
		now:         time.Now,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	evt, err := events.Decode(msg.Values)
	if err != nil {
		return fmt.Errorf("decode event %s: %w", msg.ID, err)
	}

	switch evt.Type {
	case events.RequestCreated, events.PaymentConfirmed, events.StatusChanged:
		p.notify(evt)
		return nil
	case events.SweepPendingPayments:
		_, err := p.sweep(ctx)
		return err
	default:
		p.logger.Warn().Str("type", string(evt.Type)).Msg("unknown event type")
		return nil
	}
}

func (p *Processor) notify(evt events.Event) {
	p.logger.Info().
		Str("user_id", evt.UserID).
		Str("request_id", evt.RequestID).
		Str("status", evt.Status).
		Str("event", string(evt.Type)).
		Msg("fan notified")
}

// sweep reminds fans about requests left unpaid for longer than remindAfter.
func (p *Processor) sweep(ctx context.Context) ([]string, error) {
	pending, err := p.requests.ListByStatus(ctx, models.RequestStatusPendingPayment)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}

	cutoff := p.now().Add(-p.remindAfter)
	var reminded []string
	for _, req := range pending {
		if req.RequestedAt.After(cutoff) {
			continue
		}
		p.logger.Info().
			Str("user_id", req.UserID).
			Str("request_id", req.ID).
			Time("requested_at", req.RequestedAt).
			Float64("amount", req.PackagePrice).
			Msg("payment reminder")
		metrics.RecordReminder()
		reminded = append(reminded, req.ID)
	}
	return reminded, nil
}
