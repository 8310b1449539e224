package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"celebrisaludos/internal/ids"
	"celebrisaludos/internal/models"
	"celebrisaludos/internal/repository"
	"celebrisaludos/internal/security"
)

// DefaultDevice scopes the session when the caller does not name a device.
const DefaultDevice = "local"

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AdminAccount is the single seeded administrator. Its password is only ever held as a hash.
type AdminAccount struct {
	User         models.User
	PasswordHash []byte
}

func NewAdminAccount(id, email, name, password string) (AdminAccount, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return AdminAccount{}, fmt.Errorf("hash admin password: %w", err)
	}
	return AdminAccount{
		User: models.User{
			ID:    id,
			Email: email,
			Name:  name,
			Role:  models.UserRoleAdmin,
		},
		PasswordHash: hash,
	}, nil
}

type AuthService struct {
	accounts repository.AccountStore
	admin    AdminAccount
	log      zerolog.Logger
}

func NewAuthService(accounts repository.AccountStore, admin AdminAccount, log zerolog.Logger) *AuthService {
	return &AuthService{
		accounts: accounts,
		admin:    admin,
		log:      log,
	}
}

// Init seeds the administrator into an empty users partition. A store seeded
// under a different admin email is logged, since that admin can no longer sign in.
func (s *AuthService) Init(ctx context.Context) error {
	if err := s.accounts.SeedIfEmpty(ctx, s.admin.User); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	stored, err := s.accounts.FindByEmail(ctx, s.admin.User.Email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		s.log.Warn().
			Str("admin_email", s.admin.User.Email).
			Msg("configured admin email not found in store; admin login disabled")
	case err != nil:
		return fmt.Errorf("check admin: %w", err)
	case stored.Role != models.UserRoleAdmin:
		s.log.Warn().
			Str("admin_email", s.admin.User.Email).
			Str("user_id", stored.ID).
			Msg("configured admin email belongs to a fan; admin login disabled")
	}
	return nil
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	DeviceID string
}

// Register creates a fan and signs the device in as that fan. Emails match exactly.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	if _, err := s.accounts.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	user := models.User{
		ID:    ids.Prefixed("user"),
		Email: input.Email,
		Name:  input.Name,
		Role:  models.UserRoleFan,
	}
	if err := s.accounts.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	if err := s.accounts.SaveSession(ctx, deviceOrDefault(input.DeviceID), user); err != nil {
		return models.User{}, fmt.Errorf("save session: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("fan registered")
	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
	DeviceID string
}

// Login accepts the seeded admin with its password, or any fan by email alone.
// Fan passwords are not verified.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (models.User, error) {
	user, err := s.accounts.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	switch user.Role {
	case models.UserRoleAdmin:
		if input.Email != s.admin.User.Email || !s.verifyAdminPassword(input.Password) {
			return models.User{}, ErrInvalidCredentials
		}
	case models.UserRoleFan:
	default:
		return models.User{}, ErrInvalidCredentials
	}

	if err := s.accounts.SaveSession(ctx, deviceOrDefault(input.DeviceID), user); err != nil {
		return models.User{}, fmt.Errorf("save session: %w", err)
	}
	return user, nil
}

// Logout never fails; a store error leaves the session in place and is logged.
func (s *AuthService) Logout(ctx context.Context, deviceID string) {
	if err := s.accounts.ClearSession(ctx, deviceOrDefault(deviceID)); err != nil {
		s.log.Error().Err(err).Str("device_id", deviceID).Msg("clear session failed")
	}
}

func (s *AuthService) CurrentUser(ctx context.Context, deviceID string) (models.User, bool, error) {
	return s.accounts.LoadSession(ctx, deviceOrDefault(deviceID))
}

func (s *AuthService) IsAdmin(user models.User) bool {
	return user.Role == models.UserRoleAdmin && user.Email == s.admin.User.Email
}

func (s *AuthService) verifyAdminPassword(password string) bool {
	ok, err := security.VerifyPassword(password, s.admin.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Msg("verify admin password")
		return false
	}
	return ok
}

func deviceOrDefault(deviceID string) string {
	if deviceID == "" {
		return DefaultDevice
	}
	return deviceID
}
