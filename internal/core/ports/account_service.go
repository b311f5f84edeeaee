package ports

import (
	"context"

	"github.com/courseverse/course-marketplace/internal/core/domain"
)

// SignupInput carries all data required to create an account. Every field is
// mandatory.
type SignupInput struct {
	Username     string
	Password     string
	Name         string
	ProfilePhoto string
	Bio          string
}

// ProfileUpdateInput carries the mutable profile fields.
type ProfileUpdateInput struct {
	Name         string
	ProfilePhoto string
	Bio          string
}

// AccountService defines account use-cases for a single role collection.
type AccountService interface {
	Signup(ctx context.Context, input SignupInput) error
	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context, username string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, username string, input ProfileUpdateInput) error
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error
}
