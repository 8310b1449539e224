package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"celebrisaludos/internal/catalog"
	"celebrisaludos/internal/events"
	"celebrisaludos/internal/models"
	"celebrisaludos/internal/repository/kv"
	"celebrisaludos/internal/security"
)

const (
	adminEmail    = "admin@celebri.greet"
	adminPassword = "adminpassword"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, evt := range p.events {
		out = append(out, evt.Type)
	}
	return out
}

func testAdmin(t *testing.T) AdminAccount {
	t.Helper()

	hash, err := security.HashPasswordWithParams(adminPassword, security.Argon2Params{
		Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16,
	})
	require.NoError(t, err)

	return AdminAccount{
		User: models.User{
			ID:    "admin_user_001",
			Email: adminEmail,
			Name:  "Admin Famoso",
			Role:  models.UserRoleAdmin,
		},
		PasswordHash: hash,
	}
}

func newAuthService(t *testing.T) (*AuthService, *kv.AccountStore) {
	t.Helper()

	store := kv.NewAccountStore(kv.NewMemoryBackend(), kv.Options{Namespace: "test"})
	svc := NewAuthService(store, testAdmin(t), zerolog.Nop())
	require.NoError(t, svc.Init(context.Background()))
	return svc, store
}

func newRequestService(t *testing.T) (*RequestService, *recordingPublisher) {
	t.Helper()

	pub := &recordingPublisher{}
	store := kv.NewRequestStore(kv.NewMemoryBackend(), kv.Options{Namespace: "test"})
	return NewRequestService(store, catalog.Default(), pub, zerolog.Nop()), pub
}
