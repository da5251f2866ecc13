package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
	"github.com/jwalitptl/ideabox-api/internal/service"
	"github.com/jwalitptl/ideabox-api/pkg/auth"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/logger"
	"github.com/jwalitptl/ideabox-api/pkg/security"
)

const invalidCredentials = "Invalid credentials"

// DefaultPrincipalCacheTTL bounds how long a deactivated principal's
// tokens keep working.
const DefaultPrincipalCacheTTL = 30 * time.Second

type Service interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	// Authenticate validates a bearer token and resolves its active
	// principal.
	Authenticate(ctx context.Context, token string) (*model.Principal, *auth.Claims, error)
	Me(ctx context.Context, caller model.Caller) (*model.Principal, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	principals repository.PrincipalRepository
	revoked    repository.RevocationStore
	jwt        auth.JWTService
	hasher     security.PasswordHasher
	cache      *cache.Cache
	logger     *logger.Logger
	now        func() time.Time
}

func NewService(principals repository.PrincipalRepository, revoked repository.RevocationStore, jwt auth.JWTService,
	hasher security.PasswordHasher, cacheTTL time.Duration, log *logger.Logger) Service {
	if cacheTTL <= 0 {
		cacheTTL = DefaultPrincipalCacheTTL
	}
	return &authService{
		principals: principals,
		revoked:    revoked,
		jwt:        jwt,
		hasher:     hasher,
		cache:      cache.New(cacheTTL, 2*cacheTTL),
		logger:     log,
		now:        time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	p, err := s.principals.GetByEmployeeNumber(ctx, strings.TrimSpace(req.EmployeeNumber))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(invalidCredentials, err)
		}
		return nil, service.StoreError("User", err)
	}
	if !p.IsActive || !p.Role.HasPassword() {
		return nil, apperrors.Unauthorized(invalidCredentials, nil)
	}
	if err := s.hasher.Compare(p.PasswordHash, req.Password); err != nil {
		s.logger.Warn("failed login", "employee_number", p.EmployeeNumber)
		return nil, apperrors.Unauthorized(invalidCredentials, err)
	}

	token, _, err := s.jwt.GenerateAccessToken(auth.Subject{
		ID:             p.ID,
		EmployeeNumber: p.EmployeeNumber,
		Role:           string(p.Role),
	})
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	s.cache.Set(p.ID, p, cache.DefaultExpiration)
	s.logger.Info("login", "employee_number", p.EmployeeNumber, "role", string(p.Role))
	return &model.LoginResponse{Token: token, User: p}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.Principal, *auth.Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("Invalid or expired token", err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, apperrors.NewUnavailable(err)
	}
	if revoked {
		return nil, nil, apperrors.Unauthorized("Token has been revoked", nil)
	}

	p, err := s.principal(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return p, claims, nil
}

// principal resolves an active principal, consulting the cache first.
func (s *authService) principal(ctx context.Context, id string) (*model.Principal, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached.(*model.Principal), nil
	}

	p, err := s.principals.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("User not found", err)
		}
		return nil, service.StoreError("User", err)
	}
	if !p.IsActive {
		return nil, apperrors.Unauthorized("User not found", nil)
	}

	s.cache.Set(id, p, cache.DefaultExpiration)
	return p, nil
}

func (s *authService) Me(ctx context.Context, caller model.Caller) (*model.Principal, error) {
	p, err := s.principals.Get(ctx, caller.ID)
	if err != nil {
		return nil, service.StoreError("User", err)
	}
	return p, nil
}

// Logout denies the token's id until the token would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.Unauthorized("", nil)
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperrors.NewUnavailable(err)
	}
	s.cache.Delete(claims.UserID)
	return nil
}
