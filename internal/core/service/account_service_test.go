package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/ports"
	"github.com/courseverse/course-marketplace/internal/core/token"
)

// stubAccountRepo is an in-memory AccountRepository. GrantCourse mirrors the
// conditional $addToSet semantics of the Mongo implementation.
type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.PurchasedCourses = append([]string(nil), a.PurchasedCourses...)
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[account.Username]; exists {
		return domain.ErrAccountExists
	}
	r.accounts[account.Username] = cloneAccount(account)
	return nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, username, name, profilePhoto, bio string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[username]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Name, a.ProfilePhoto, a.Bio = name, profilePhoto, bio
	return nil
}

func (r *stubAccountRepo) UpdatePasswordHash(_ context.Context, username, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[username]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *stubAccountRepo) GrantCourse(_ context.Context, username, courseID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[username]
	if !ok {
		return false, domain.ErrAccountNotFound
	}
	for _, id := range a.PurchasedCourses {
		if id == courseID {
			return true, nil
		}
	}
	a.PurchasedCourses = append(a.PurchasedCourses, courseID)
	return false, nil
}

func validSignup(username string) ports.SignupInput {
	return ports.SignupInput{
		Username:     username,
		Password:     "pw1",
		Name:         "Test Account",
		ProfilePhoto: "https://example.com/photo.png",
		Bio:          "learning things",
	}
}

func newAccountService(repo ports.AccountRepository, role string) *AccountService {
	return NewAccountService(repo, token.NewService("secret", time.Hour), role, zerolog.Nop())
}

func TestAccountService_SignupThenLogin(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, domain.RoleUser)

	if err := svc.Signup(context.Background(), validSignup("alice")); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	stored, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("account not stored: %v", err)
	}
	if stored.PasswordHash == "pw1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	tokenString, err := svc.Login(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if tokenString == "" {
		t.Fatalf("expected token, got empty")
	}

	claims, err := token.NewService("secret", time.Hour).Verify(tokenString)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.Username != "alice" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAccountService_Signup_MissingFields(t *testing.T) {
	svc := newAccountService(newStubAccountRepo(), domain.RoleUser)

	input := validSignup("alice")
	input.Bio = ""
	if err := svc.Signup(context.Background(), input); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Signup_Duplicate(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, domain.RoleUser)

	if err := svc.Signup(context.Background(), validSignup("bob")); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if err := svc.Signup(context.Background(), validSignup("bob")); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, domain.RoleUser)

	if err := svc.Signup(context.Background(), validSignup("carol")); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "carol", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Login_NotFound(t *testing.T) {
	svc := newAccountService(newStubAccountRepo(), domain.RoleUser)

	if _, err := svc.Login(context.Background(), "ghost", "pw"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_ChangePassword(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, domain.RoleUser)

	if err := svc.Signup(context.Background(), validSignup("dave")); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), "dave", "wrong", "new"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), "dave", "pw1", "pw2"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if _, err := svc.Login(context.Background(), "dave", "pw1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Login(context.Background(), "dave", "pw2"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestAccountService_UpdateProfile(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, domain.RoleAdmin)

	if err := svc.Signup(context.Background(), validSignup("eve")); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	err := svc.UpdateProfile(context.Background(), "eve", ports.ProfileUpdateInput{
		Name:         "Eve Updated",
		ProfilePhoto: "https://example.com/new.png",
		Bio:          "updated bio",
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	account, err := svc.Profile(context.Background(), "eve")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if account.Name != "Eve Updated" || account.Bio != "updated bio" {
		t.Fatalf("profile not updated: %+v", account)
	}

	err = svc.UpdateProfile(context.Background(), "ghost", ports.ProfileUpdateInput{Name: "x"})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
