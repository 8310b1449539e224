package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"celebrisaludos/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) SeedIfEmpty(ctx context.Context, admin models.User) error {
	const query = `
		INSERT INTO users (id, email, name, role, created_at)
		SELECT $1, $2, $3, $4, NOW()
		WHERE NOT EXISTS (SELECT 1 FROM users)
	`
	_, err := r.pool.Exec(ctx, query, admin.ID, admin.Email, admin.Name, admin.Role)
	return err
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (id, email, name, role, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.pool.Exec(ctx, query, user.ID, user.Email, user.Name, user.Role)
	if isEmailConflict(err) {
		return ErrEmailTaken
	}
	return err
}

const (
	uniqueViolation      = "23505"
	usersEmailConstraint = "users_email_key"
)

func isEmailConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == usersEmailConstraint
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, email, name, role
		FROM users WHERE email = $1
		ORDER BY seq
		LIMIT 1
	`

	row := r.pool.QueryRow(ctx, query, email)
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	const query = `SELECT id, email, name, role FROM users ORDER BY seq`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
