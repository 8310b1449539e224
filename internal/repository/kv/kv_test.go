package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"celebrisaludos/internal/models"
	"celebrisaludos/internal/repository"
)

func strPtr(s string) *string { return &s }

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"redis":  NewRedisBackend(client),
	}
}

func sampleRequest(id string, at time.Time) models.ShoutoutRequest {
	return models.ShoutoutRequest{
		ID:             id,
		UserID:         "user_1",
		UserName:       "Ana",
		PackageID:      "pkg_basic_01",
		PackageName:    "Saludo Rápido",
		PackagePrice:   49.99,
		RecipientName:  "Luis",
		Occasion:       "cumpleaños",
		MessageDetails: "Feliz cumpleaños hermano",
		Status:         models.RequestStatusCompleted,
		RequestedAt:    at,
		AdminNotes:     strPtr(""),
		VideoURL:       strPtr("https://x/v.mp4"),
	}
}

func TestRequestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 30, 15, 123456000, time.UTC)

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewRequestStore(backend, Options{Namespace: "test"})
			want := sampleRequest("req_1", at)

			require.NoError(t, store.Create(ctx, want))

			got, err := store.GetByID(ctx, "req_1")
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Nil(t, got.CelebrityMessageToFan)
			require.NotNil(t, got.AdminNotes)
			assert.Equal(t, "", *got.AdminNotes)
		})
	}
}

func TestRequestStoreUpdateKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewRequestStore(NewMemoryBackend(), Options{})
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, id := range []string{"req_a", "req_b", "req_c"} {
		require.NoError(t, store.Create(ctx, sampleRequest(id, at)))
	}

	updated := sampleRequest("req_b", at)
	updated.Status = models.RequestStatusRejected
	updated.ClearDelivery()
	require.NoError(t, store.Update(ctx, updated))

	all, err := store.List(ctx, repository.RequestFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"req_a", "req_b", "req_c"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, models.RequestStatusRejected, all[1].Status)
	assert.Nil(t, all[1].VideoURL)

	rejected, err := store.List(ctx, repository.RequestFilter{Status: models.RequestStatusRejected})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, "req_b", rejected[0].ID)
}

func TestRequestStoreMissing(t *testing.T) {
	ctx := context.Background()
	store := NewRequestStore(NewMemoryBackend(), Options{})

	_, err := store.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrRequestNotFound)

	err = store.Update(ctx, sampleRequest("nope", time.Now()))
	assert.ErrorIs(t, err, repository.ErrRequestNotFound)

	all, err := store.List(ctx, repository.RequestFilter{UserID: "user_1"})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAccountStoreSeedAndSessions(t *testing.T) {
	ctx := context.Background()
	admin := models.User{ID: "admin_user_001", Email: "admin@celebri.greet", Name: "Admin Famoso", Role: models.UserRoleAdmin}

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewAccountStore(backend, Options{Namespace: "test"})

			require.NoError(t, store.SeedIfEmpty(ctx, admin))
			require.NoError(t, store.SeedIfEmpty(ctx, admin))

			users, err := store.ListUsers(ctx)
			require.NoError(t, err)
			assert.Equal(t, []models.User{admin}, users)

			fan := models.User{ID: "user_1", Email: "fan@example.com", Role: models.UserRoleFan}
			require.NoError(t, store.CreateUser(ctx, fan))

			found, err := store.FindByEmail(ctx, "fan@example.com")
			require.NoError(t, err)
			assert.Equal(t, fan, found)

			_, err = store.FindByEmail(ctx, "FAN@example.com")
			assert.ErrorIs(t, err, repository.ErrUserNotFound)

			_, ok, err := store.LoadSession(ctx, "device-1")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.SaveSession(ctx, "device-1", fan))
			current, ok, err := store.LoadSession(ctx, "device-1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, fan, current)

			_, ok, err = store.LoadSession(ctx, "device-2")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.ClearSession(ctx, "device-1"))
			_, ok, err = store.LoadSession(ctx, "device-1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestPartitionLayout(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewAccountStore(backend, Options{Namespace: "celebri"})

	require.NoError(t, store.SaveSession(ctx, "local", models.User{ID: "u", Email: "e", Role: models.UserRoleFan}))
	require.NoError(t, store.CreateUser(ctx, models.User{ID: "u", Email: "e", Role: models.UserRoleFan}))

	raw, err := backend.Get(ctx, "celebri:session:local")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u","email":"e","role":"FAN"}`, string(raw))

	raw, err = backend.Get(ctx, "celebri:users")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"u","email":"e","role":"FAN"}]`, string(raw))
}

func TestLatencyHonoursCancellation(t *testing.T) {
	store := NewRequestStore(NewMemoryBackend(), Options{Latency: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.GetByID(ctx, "req_1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAccountStoreRejectsTakenEmail(t *testing.T) {
	ctx := context.Background()

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewAccountStore(backend, Options{Namespace: "taken"})
			fan := models.User{ID: "user_1", Email: "fan@example.com", Role: models.UserRoleFan}
			require.NoError(t, store.CreateUser(ctx, fan))

			err := store.CreateUser(ctx, models.User{ID: "user_2", Email: "fan@example.com", Role: models.UserRoleFan})
			assert.ErrorIs(t, err, repository.ErrEmailTaken)

			users, err := store.ListUsers(ctx)
			require.NoError(t, err)
			assert.Equal(t, []models.User{fan}, users)
		})
	}
}
