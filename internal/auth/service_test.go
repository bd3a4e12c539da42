package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/cinespark/cinespark-backend/pkg/auth"
	"github.com/cinespark/cinespark-backend/pkg/config"
	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"github.com/cinespark/cinespark-backend/pkg/security"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{
	Secret:          "secret",
	Issuer:          "cinespark",
	ExpirationHours: 168,
}

func TestServiceLoginSuccess(t *testing.T) {
	password := "correct-horse"
	user := &models.User{
		ID:           7,
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleUser,
	}

	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Ana@Example.com ",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %d in claims, got %d", user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleUser {
		t.Fatalf("expected user role claim, got %s", claims.Role)
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("expected user in response")
	}
	if resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
	if len(repo.lastLoginCalls) != 1 {
		t.Fatalf("expected one last-login update, got %d", len(repo.lastLoginCalls))
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           3,
		Email:        "carlos@example.com",
		PasswordHash: mustHashPassword(t, "real-password"),
		Role:         enums.UserRoleUser,
	}

	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	assertUnauthorized(t, err)
}

func TestServiceLoginUnknownEmail(t *testing.T) {
	repo := &stubUserRepo{byEmail: map[string]*models.User{}}
	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assertUnauthorized(t, err)
}

func TestServiceCurrentUser(t *testing.T) {
	user := &models.User{
		ID:    11,
		Name:  "Lucía",
		Email: "lucia@example.com",
		Role:  enums.UserRoleAdmin,
	}
	repo := &stubUserRepo{byID: map[int64]*models.User{user.ID: user}}
	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	dto, err := svc.CurrentUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if dto.ID != user.ID || dto.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected dto %+v", dto)
	}

	_, err = svc.CurrentUser(context.Background(), 999)
	assertUnauthorized(t, err)
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected unauthorized error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("expected generic credentials message, got %q", typed.Message())
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	byEmail        map[string]*models.User
	byID           map[int64]*models.User
	lastLoginCalls []int64
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	s.lastLoginCalls = append(s.lastLoginCalls, id)
	return nil
}
