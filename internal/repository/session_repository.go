package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"celebrisaludos/internal/models"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// SaveSession replaces whatever user the device was signed in as.
func (r *SessionRepository) SaveSession(ctx context.Context, deviceID string, user models.User) error {
	const query = `
		INSERT INTO device_sessions (device_id, user_id, created_at, last_seen_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (device_id)
		DO UPDATE SET
			user_id = EXCLUDED.user_id,
			created_at = NOW(),
			last_seen_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, deviceID, user.ID)
	return err
}

func (r *SessionRepository) LoadSession(ctx context.Context, deviceID string) (models.User, bool, error) {
	const query = `
		SELECT u.id, u.email, u.name, u.role
		FROM device_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.device_id = $1
	`

	row := r.pool.QueryRow(ctx, query, deviceID)
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}
	return user, true, nil
}

func (r *SessionRepository) ClearSession(ctx context.Context, deviceID string) error {
	const query = `DELETE FROM device_sessions WHERE device_id = $1`
	_, err := r.pool.Exec(ctx, query, deviceID)
	return err
}

// AccountRepository is the Postgres-backed AccountStore.
type AccountRepository struct {
	*UserRepository
	*SessionRepository
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		UserRepository:    NewUserRepository(pool),
		SessionRepository: NewSessionRepository(pool),
	}
}

var _ AccountStore = (*AccountRepository)(nil)
