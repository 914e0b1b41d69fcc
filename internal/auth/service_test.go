package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tabegoro/tabegoro-backend/pkg/config"
	"github.com/tabegoro/tabegoro-backend/pkg/db/models"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
	"github.com/tabegoro/tabegoro-backend/pkg/security"
)

type stubUserRepository struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (s *stubUserRepository) add(user *models.User) {
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "tabegoro", ExpirationHours: 168}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func seedStubUser(t *testing.T, repo *stubUserRepository, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     "taro",
		PasswordHash: hash,
		UniqueID:     "#1010",
	}
	repo.add(user)
	return user
}

func newTestService(t *testing.T, repo *stubUserRepository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginSuccess(t *testing.T) {
	repo := newStubUserRepository()
	user := seedStubUser(t, repo, "taro@example.jp", "482915")
	svc := newTestService(t, repo)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: " TARO@example.jp ", Password: "482915"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}
	if resp.User.UniqueID != "#1010" {
		t.Fatalf("expected member number in response, got %q", resp.User.UniqueID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepository()
	seedStubUser(t, repo, "taro@example.jp", "482915")
	svc := newTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "taro@example.jp", Password: "000000"})
	if err == nil {
		t.Fatal("expected login to fail")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t, newStubUserRepository())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.jp", Password: "482915"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("unknown email must not be distinguishable, got %q", typed.Message())
	}
}

func TestMe(t *testing.T) {
	repo := newStubUserRepository()
	user := seedStubUser(t, repo, "taro@example.jp", "482915")
	svc := newTestService(t, repo)

	dto, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if dto.Email != "taro@example.jp" {
		t.Fatalf("unexpected email %q", dto.Email)
	}

	_, err = svc.Me(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for missing user, got %v", err)
	}
}
