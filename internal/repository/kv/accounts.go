package kv

import (
	"context"
	"sync"

	"celebrisaludos/internal/models"
	"celebrisaludos/internal/repository"
)

const (
	usersPartition   = "users"
	sessionPartition = "session"
)

// AccountStore keeps the users partition as one JSON array in insertion order
// and one session record per device.
type AccountStore struct {
	partitions
	mu sync.Mutex
}

func NewAccountStore(backend Backend, opts Options) *AccountStore {
	return &AccountStore{partitions: partitions{backend: backend, opts: opts}}
}

func (s *AccountStore) SeedIfEmpty(ctx context.Context, admin models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	return s.save(ctx, s.key(usersPartition), []models.User{admin})
}

func (s *AccountStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.readUsers(ctx)
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	users, err := s.readUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, user := range users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *AccountStore) CreateUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers(ctx)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	users = append(users, user)
	return s.save(ctx, s.key(usersPartition), users)
}

func (s *AccountStore) SaveSession(ctx context.Context, deviceID string, user models.User) error {
	return s.save(ctx, s.key(sessionPartition, deviceID), user)
}

func (s *AccountStore) LoadSession(ctx context.Context, deviceID string) (models.User, bool, error) {
	var user models.User
	found, err := s.load(ctx, s.key(sessionPartition, deviceID), &user)
	if err != nil || !found {
		return models.User{}, false, err
	}
	return user, true, nil
}

func (s *AccountStore) ClearSession(ctx context.Context, deviceID string) error {
	return s.remove(ctx, s.key(sessionPartition, deviceID))
}

func (s *AccountStore) readUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if _, err := s.load(ctx, s.key(usersPartition), &users); err != nil {
		return nil, err
	}
	return users, nil
}

var _ repository.AccountStore = (*AccountStore)(nil)
