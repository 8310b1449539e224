package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"celebrisaludos/internal/events"
)

// Scheduler periodically asks the worker to sweep unpaid requests.
type Scheduler struct {
	cron     *cron.Cron
	events   events.Publisher
	schedule string
	log      zerolog.Logger
}

func NewScheduler(publisher events.Publisher, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		events:   publisher,
		schedule: schedule,
		log:      log,
	}
}

// Start is a no-op without a publisher.
func (s *Scheduler) Start() error {
	if s.events == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.enqueueSweep); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("payment sweep scheduled")
	return nil
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) enqueueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	evt := events.Event{Type: events.SweepPendingPayments, At: time.Now().UTC()}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.log.Error().Err(err).Msg("enqueue payment sweep failed")
	}
}
