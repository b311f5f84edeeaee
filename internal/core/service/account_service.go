package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/ports"
	"github.com/courseverse/course-marketplace/internal/core/token"
)

// AccountService implements signup, login and profile management for a
// single role collection. The router builds one instance over the users
// collection and one over the admins collection.
type AccountService struct {
	repo   ports.AccountRepository
	tokens *token.Service
	role   string
	log    zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, tokens *token.Service, role string, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, tokens: tokens, role: role, log: log}
}

func (s *AccountService) Signup(ctx context.Context, input ports.SignupInput) error {
	if input.Username == "" || input.Password == "" || input.Name == "" ||
		input.ProfilePhoto == "" || input.Bio == "" {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Username:     input.Username,
		PasswordHash: string(hash),
		Name:         input.Name,
		ProfilePhoto: input.ProfilePhoto,
		Bio:          input.Bio,
		Role:         s.role,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return err
	}

	s.log.Info().Str("username", input.Username).Str("role", s.role).Msg("account created")
	return nil
}

func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(account.Username, s.role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

func (s *AccountService) Profile(ctx context.Context, username string) (*domain.Account, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *AccountService) UpdateProfile(ctx context.Context, username string, input ports.ProfileUpdateInput) error {
	return s.repo.UpdateProfile(ctx, username, input.Name, input.ProfilePhoto, input.Bio)
}

// ChangePassword re-hashes and persists the new password after verifying the
// current one. Previously issued tokens stay valid until they expire.
func (s *AccountService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, username, string(hash)); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info().Str("username", username).Str("role", s.role).Msg("password changed")
	return nil
}
