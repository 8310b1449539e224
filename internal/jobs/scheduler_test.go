package jobs

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"celebrisaludos/internal/events"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func TestEnqueueSweep(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewScheduler(pub, "@every 1h", zerolog.Nop())

	s.enqueueSweep()

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.SweepPendingPayments, pub.events[0].Type)
	assert.False(t, pub.events[0].At.IsZero())
}

func TestStart(t *testing.T) {
	s := NewScheduler(&recordingPublisher{}, "@every 1h", zerolog.Nop())
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	<-s.Stop().Done()

	bad := NewScheduler(&recordingPublisher{}, "not a schedule", zerolog.Nop())
	assert.Error(t, bad.Start())

	idle := NewScheduler(nil, "not a schedule", zerolog.Nop())
	assert.NoError(t, idle.Start())
}
