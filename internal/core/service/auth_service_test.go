package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/leadpop/popup-service/internal/core/domain"
)

type stubAuthRepo struct {
	users map[string]*domain.User
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func (r *stubAuthRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	r.users[user.Username] = &clone
	return &clone, nil
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), "alice", "pw123", "a@example.com", domain.RoleAdmin, "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123")) != nil {
		t.Error("password hash does not verify")
	}

	token, logged, err := svc.Login(context.Background(), "alice", "pw123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.Username != "alice" {
		t.Errorf("logged user = %q", logged.Username)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleAdmin {
		t.Errorf("role claim = %v", claims["role"])
	}
}

func TestAuthService_RejectsBadInput(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "", "pw", "", domain.RoleAdmin, ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("empty username: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pw", "", "superuser", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown role: %v", err)
	}
}

func TestAuthService_WrongPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "alice", "pw123", "", domain.RoleAdmin, ""); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Login(context.Background(), "alice", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost", "pw"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown user err = %v, want ErrUserNotFound", err)
	}
}
