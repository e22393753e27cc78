package auth

import (
	"context"
	"testing"
	"time"

	"github.com/bremray/bremray-backend/pkg/auth"
	"github.com/bremray/bremray-backend/pkg/config"
	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/bremray/bremray-backend/pkg/enums"
	pkgerrors "github.com/bremray/bremray-backend/pkg/errors"
	"github.com/bremray/bremray-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	byPhone map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	if u, ok := s.byPhone[phone]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubIssuer struct {
	token string
	err   error
	last  auth.SessionTokenPayload
}

func (s *stubIssuer) Issue(_ time.Time, payload auth.SessionTokenPayload) (string, error) {
	s.last = payload
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return hash
}

func strPtr(v string) *string { return &v }

func newTestService(t *testing.T, repo *stubUserRepo, issuer *stubIssuer) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{UserRepo: repo, Tokens: issuer})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestLoginByEmail(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Dana Tech",
		Email:        strPtr("dana@bremray.com"),
		Role:         enums.UserRoleTech,
		PasswordHash: hashFor(t, "hunter22"),
		Active:       true,
	}
	repo := &stubUserRepo{byEmail: map[string]*models.User{"dana@bremray.com": user}}
	issuer := &stubIssuer{token: "signed-token"}
	svc := newTestService(t, repo, issuer)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Dana@Bremray.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != "signed-token" {
		t.Fatalf("unexpected token %q", resp.Token)
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("unexpected user %+v", resp.User)
	}
	if issuer.last.UserID != user.ID || issuer.last.Role != enums.UserRoleTech {
		t.Fatalf("unexpected payload %+v", issuer.last)
	}
}

func TestLoginEmailTakesPrecedenceOverPhone(t *testing.T) {
	emailUser := &models.User{
		ID:           uuid.New(),
		Email:        strPtr("a@bremray.com"),
		Role:         enums.UserRoleTech,
		PasswordHash: hashFor(t, "pw-email"),
		Active:       true,
	}
	phoneUser := &models.User{
		ID:           uuid.New(),
		Phone:        strPtr("555-0100"),
		Role:         enums.UserRoleTech,
		PasswordHash: hashFor(t, "pw-phone"),
		Active:       true,
	}
	repo := &stubUserRepo{
		byEmail: map[string]*models.User{"a@bremray.com": emailUser},
		byPhone: map[string]*models.User{"555-0100": phoneUser},
	}
	issuer := &stubIssuer{token: "tok"}
	svc := newTestService(t, repo, issuer)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "a@bremray.com",
		Phone:    "555-0100",
		Password: "pw-email",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.ID != emailUser.ID {
		t.Fatalf("expected email user, got %s", resp.User.ID)
	}
}

func TestLoginUnknownIdentifierAndBadPasswordAreIdentical(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        strPtr("a@bremray.com"),
		Role:         enums.UserRoleTech,
		PasswordHash: hashFor(t, "correct"),
		Active:       true,
	}
	repo := &stubUserRepo{byEmail: map[string]*models.User{"a@bremray.com": user}}
	svc := newTestService(t, repo, &stubIssuer{token: "tok"})

	_, unknownErr := svc.Login(context.Background(), LoginRequest{Email: "nobody@bremray.com", Password: "whatever"})
	_, badPwErr := svc.Login(context.Background(), LoginRequest{Email: "a@bremray.com", Password: "wrong"})

	for name, err := range map[string]error{"unknown": unknownErr, "bad password": badPwErr} {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("%s: expected unauthorized, got %v", name, err)
		}
		if typed.Message() != invalidCredentialsMessage {
			t.Fatalf("%s: expected %q, got %q", name, invalidCredentialsMessage, typed.Message())
		}
	}
}

func TestLoginByWrongIdentifierTypeFails(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        strPtr("only-email@bremray.com"),
		Role:         enums.UserRoleTech,
		PasswordHash: hashFor(t, "pw"),
		Active:       true,
	}
	repo := &stubUserRepo{byEmail: map[string]*models.User{"only-email@bremray.com": user}}
	svc := newTestService(t, repo, &stubIssuer{token: "tok"})

	_, err := svc.Login(context.Background(), LoginRequest{Phone: "555-0199", Password: "pw"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != invalidCredentialsMessage {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginInactiveAccountDistinctAfterPasswordMatch(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        strPtr("a@bremray.com"),
		Role:         enums.UserRoleTech,
		PasswordHash: hashFor(t, "correct"),
		Active:       false,
	}
	repo := &stubUserRepo{byEmail: map[string]*models.User{"a@bremray.com": user}}
	svc := newTestService(t, repo, &stubIssuer{token: "tok"})

	// wrong password on an inactive account reports invalid credentials,
	// not inactive: the active check runs after verification
	_, err := svc.Login(context.Background(), LoginRequest{Email: "a@bremray.com", Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != invalidCredentialsMessage {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@bremray.com", Password: "correct"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != inactiveAccountMessage {
		t.Fatalf("expected inactive message, got %v", err)
	}
}

func TestRefreshReissuesForActiveUser(t *testing.T) {
	user := &models.User{
		ID:     uuid.New(),
		Role:   enums.UserRoleAdmin,
		Active: true,
	}
	repo := &stubUserRepo{byID: map[uuid.UUID]*models.User{user.ID: user}}
	issuer := &stubIssuer{token: "fresh"}
	svc := newTestService(t, repo, issuer)

	resp, err := svc.Refresh(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if resp.Token != "fresh" {
		t.Fatalf("unexpected token %q", resp.Token)
	}
	if issuer.last.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected payload role %s", issuer.last.Role)
	}
}

func TestRefreshUnknownUserUnauthorized(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubIssuer{token: "tok"})

	_, err := svc.Refresh(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
