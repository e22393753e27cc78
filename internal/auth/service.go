package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bremray/bremray-backend/internal/users"
	pkgAuth "github.com/bremray/bremray-backend/pkg/auth"
	"github.com/bremray/bremray-backend/pkg/db/models"
	pkgerrors "github.com/bremray/bremray-backend/pkg/errors"
	"github.com/bremray/bremray-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The same message covers unknown identifiers and bad passwords so the API
// never leaks whether an account exists.
const invalidCredentialsMessage = "invalid credentials"

const inactiveAccountMessage = "account is inactive"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, userID uuid.UUID) (*LoginResponse, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type tokenIssuer interface {
	Issue(now time.Time, payload pkgAuth.SessionTokenPayload) (string, error)
}

type service struct {
	users  userRepository
	tokens tokenIssuer
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo userRepository
	Tokens   tokenIssuer
}

// NewService constructs a credential-verification service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	return &service{
		users:  params.UserRepo,
		tokens: params.Tokens,
		now:    time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issueFor(user)
}

func (s *service) Refresh(ctx context.Context, userID uuid.UUID) (*LoginResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, inactiveAccountMessage)
	}
	return s.issueFor(user)
}

// authenticate looks up by email when one is supplied, otherwise by phone.
// The inactive check runs strictly after password verification.
func (s *service) authenticate(ctx context.Context, req LoginRequest) (*models.User, error) {
	var (
		user *models.User
		err  error
	)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)

	switch {
	case email != "":
		user, err = s.users.FindByEmail(ctx, email)
	case phone != "":
		user, err = s.users.FindByPhone(ctx, phone)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, inactiveAccountMessage)
	}
	return user, nil
}

func (s *service) issueFor(user *models.User) (*LoginResponse, error) {
	token, err := s.tokens.Issue(s.now().UTC(), pkgAuth.SessionTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &LoginResponse{
		Token: token,
		User:  users.FromModel(user),
	}, nil
}
