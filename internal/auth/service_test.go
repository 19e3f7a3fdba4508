package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/config"
	"github.com/campuscart/campuscart-backend/pkg/db/models"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/security"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*models.User{}}
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := s.byEmail[user.Email]; ok {
		return nil, fmt.Errorf(`duplicate key value violates unique constraint "users_email_key"`)
	}
	user.ID = uuid.New()
	s.byEmail[user.Email] = user
	return user, nil
}

type stubSessionManager struct {
	generated []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "campuscart-test",
		ExpirationMinutes: 15,
	}
}

func newTestService(t *testing.T) (Service, *stubUserRepo, *stubSessionManager) {
	t.Helper()
	repo := newStubUserRepo()
	sessions := &stubSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, sessions
}

func TestRegisterCreatesAccountAndIssuesTokens(t *testing.T) {
	t.Parallel()

	svc, repo, sessions := newTestService(t)
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "  Ada@Campus.Edu ",
		Password:    "correct-horse",
		DisplayName: "Ada",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if resp.User.Email != "ada@campus.edu" {
		t.Fatalf("expected normalized email, got %q", resp.User.Email)
	}
	if len(sessions.generated) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.generated))
	}

	stored := repo.byEmail["ada@campus.edu"]
	if stored == nil {
		t.Fatal("expected stored user")
	}
	if stored.PasswordHash == "correct-horse" {
		t.Fatal("expected hashed password")
	}
	valid, err := security.VerifyPassword("correct-horse", stored.PasswordHash)
	if err != nil || !valid {
		t.Fatalf("expected hash to verify, valid=%v err=%v", valid, err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "a@b.edu",
		Password:    "short",
		DisplayName: "A",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	req := RegisterRequest{Email: "dup@campus.edu", Password: "long-enough", DisplayName: "Dup"}

	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, req)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginSucceedsWithRightPassword(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterRequest{
		Email:       "login@campus.edu",
		Password:    "correct-horse",
		DisplayName: "Login",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := svc.Login(ctx, LoginRequest{Email: "Login@Campus.Edu", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterRequest{
		Email:       "wrong@campus.edu",
		Password:    "correct-horse",
		DisplayName: "Wrong",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(ctx, LoginRequest{Email: "wrong@campus.edu", Password: "battery-staple"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailGivesSameError(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@campus.edu", Password: "whatever"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("expected generic message, got %q", typed.Message())
	}
}
