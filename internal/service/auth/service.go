package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
	"github.com/medicore/clinic-api/pkg/auth"
	"github.com/medicore/clinic-api/pkg/security"
	"github.com/medicore/clinic-api/pkg/tokenstore"
)

type Service struct {
	accounts repository.AccountRepository
	hasher   security.PasswordHasher
	jwtSvc   auth.JWTService
	denylist tokenstore.Denylist
}

func NewService(accounts repository.AccountRepository, hasher security.PasswordHasher,
	jwtSvc auth.JWTService, denylist tokenstore.Denylist) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		jwtSvc:   jwtSvc,
		denylist: denylist,
	}
}

// LoginResult is the login response payload.
type LoginResult struct {
	Token string     `json:"token"`
	Role  model.Role `json:"role"`
}

// Login checks credentials and issues a token. A deactivated account gets a
// distinct message from bad credentials, both behind a 401.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.Unauthorized("Invalid email or password.")
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !account.IsActive {
		return nil, apperror.Unauthorized("Account is deactivated. Contact administrator.")
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid email or password.")
	}

	token, err := s.jwtSvc.Generate(account.ID, account.Email, account.Name, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{Token: token, Role: account.Role}, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtSvc.Validate(token)
	if err != nil {
		return apperror.Unauthorized("invalid token")
	}

	ttl := time.Duration(0)
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.denylist.Revoke(ctx, token, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
