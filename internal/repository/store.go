package repository

import (
	"context"
	"errors"

	"celebrisaludos/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already taken")
	ErrRequestNotFound = errors.New("request not found")
)

// AccountStore owns user records and the per-device active session.
type AccountStore interface {
	SeedIfEmpty(ctx context.Context, admin models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// CreateUser fails with ErrEmailTaken when another user already holds the email.
	CreateUser(ctx context.Context, user models.User) error

	SaveSession(ctx context.Context, deviceID string, user models.User) error
	LoadSession(ctx context.Context, deviceID string) (models.User, bool, error)
	ClearSession(ctx context.Context, deviceID string) error
}

type RequestFilter struct {
	UserID string
	Status models.RequestStatus
}

func (f RequestFilter) Match(req models.ShoutoutRequest) bool {
	if f.UserID != "" && req.UserID != f.UserID {
		return false
	}
	if f.Status != "" && req.Status != f.Status {
		return false
	}
	return true
}

// RequestStore owns shoutout requests. List returns records in insertion order.
type RequestStore interface {
	Create(ctx context.Context, req models.ShoutoutRequest) error
	GetByID(ctx context.Context, id string) (models.ShoutoutRequest, error)
	Update(ctx context.Context, req models.ShoutoutRequest) error
	List(ctx context.Context, filter RequestFilter) ([]models.ShoutoutRequest, error)
}
