package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"celebrisaludos/internal/models"
	"celebrisaludos/internal/repository/kv"
)

func TestInitSeedsSingleAdmin(t *testing.T) {
	svc, store := newAuthService(t)
	require.NoError(t, svc.Init(context.Background()))

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.UserRoleAdmin, users[0].Role)
	assert.Equal(t, adminEmail, users[0].Email)
}

func TestRegisterCreatesFanAndSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	user, err := svc.Register(ctx, RegisterInput{Email: "ana@example.com", Password: "pw", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleFan, user.Role)
	assert.Equal(t, "Ana", user.Name)
	assert.Regexp(t, `^user_`, user.ID)

	current, ok, err := svc.CurrentUser(ctx, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user, current)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuthService(t)

	_, err := svc.Register(ctx, RegisterInput{Email: "ana@example.com", Name: "Ana"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "ana@example.com", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.Register(ctx, RegisterInput{Email: adminEmail, Name: "Impostor"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// exact match: a differently cased address is a new account
	_, err = svc.Register(ctx, RegisterInput{Email: "ANA@example.com", Name: "Ana 2"})
	assert.NoError(t, err)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestLoginAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	user, err := svc.Login(ctx, LoginInput{Email: adminEmail, Password: adminPassword, DeviceID: "tablet"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, user.Role)
	assert.True(t, svc.IsAdmin(user))

	current, ok, err := svc.CurrentUser(ctx, "tablet")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)

	_, err = svc.Login(ctx, LoginInput{Email: adminEmail, Password: "wrong", DeviceID: "phone"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, ok, err = svc.CurrentUser(ctx, "phone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginFanIgnoresPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	registered, err := svc.Register(ctx, RegisterInput{Email: "ana@example.com", Password: "secret", Name: "Ana"})
	require.NoError(t, err)
	svc.Logout(ctx, "")

	user, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "anything"})
	require.NoError(t, err)
	assert.Equal(t, registered, user)
	assert.False(t, svc.IsAdmin(user))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutClearsOnlyThatDevice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Register(ctx, RegisterInput{Email: "ana@example.com", Name: "Ana", DeviceID: "a"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", DeviceID: "b"})
	require.NoError(t, err)

	svc.Logout(ctx, "a")
	svc.Logout(ctx, "a")

	_, ok, err := svc.CurrentUser(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.CurrentUser(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInitWarnsWhenStoredAdminEmailDiffers(t *testing.T) {
	ctx := context.Background()
	store := kv.NewAccountStore(kv.NewMemoryBackend(), kv.Options{Namespace: "test"})
	require.NoError(t, store.SeedIfEmpty(ctx, models.User{
		ID: "admin_user_001", Email: "old-admin@celebri.greet", Role: models.UserRoleAdmin,
	}))

	var buf bytes.Buffer
	svc := NewAuthService(store, testAdmin(t), zerolog.New(&buf))
	require.NoError(t, svc.Init(ctx))

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "admin login disabled")
	assert.Contains(t, buf.String(), adminEmail)

	_, err := svc.Login(ctx, LoginInput{Email: adminEmail, Password: adminPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestInitQuietWhenAdminMatches(t *testing.T) {
	var buf bytes.Buffer
	store := kv.NewAccountStore(kv.NewMemoryBackend(), kv.Options{Namespace: "test"})
	svc := NewAuthService(store, testAdmin(t), zerolog.New(&buf))

	require.NoError(t, svc.Init(context.Background()))
	require.NoError(t, svc.Init(context.Background()))
	assert.Empty(t, buf.String())
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	store := kv.NewAccountStore(kv.NewMemoryBackend(), kv.Options{Namespace: "test", Latency: 2 * time.Millisecond})
	svc := NewAuthService(store, testAdmin(t), zerolog.Nop())
	require.NoError(t, svc.Init(ctx))

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		otherErrs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, RegisterInput{Email: "dup@example.com", Name: "Dup"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case !errors.Is(err, ErrDuplicateEmail):
				otherErrs = append(otherErrs, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, otherErrs)
	assert.Equal(t, 1, succeeded)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	count := 0
	for _, user := range users {
		if user.Email == "dup@example.com" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
