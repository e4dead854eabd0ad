// Package identity signs accounts up and in, and resolves the account
// behind an HTTP request.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// CookieName is the session cookie set on sign-in.
const CookieName = "shelf_session"

// Provider resolves the signed-in account of a request. It returns an empty
// ID and no error for anonymous requests.
type Provider interface {
	CurrentAccount(r *http.Request) (string, error)
}

// AccountStore persists accounts and their password hashes.
type AccountStore interface {
	CreateAccount(ctx context.Context, acc domain.Account, passwordHash []byte) (domain.Account, error)
	AccountByEmail(ctx context.Context, email string) (domain.Account, []byte, error)
	AccountByID(ctx context.Context, id string) (domain.Account, error)
}

// Revocations records signed-out token IDs.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Session is returned by a successful sign-in.
type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Account   domain.Account `json:"account"`
}

// Service implements Provider on top of signed tokens.
type Service struct {
	accounts    AccountStore
	revocations Revocations
	issuer      *Issuer
	log         logger.Logger
	cost        int
	now         func() time.Time
}

// NewService wires the service. A nil Revocations disables sign-out
// tracking; tokens then stay valid until they expire.
func NewService(accounts AccountStore, revocations Revocations, issuer *Issuer, log logger.Logger) *Service {
	return &Service{
		accounts:    accounts,
		revocations: revocations,
		issuer:      issuer,
		log:         log,
		cost:        bcrypt.DefaultCost,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (domain.Account, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = normalizeEmail(reg.Email)
	if err := domain.Validate(reg); err != nil {
		return domain.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}

	acc := domain.Account{
		ID:        uuid.NewString(),
		Name:      reg.Name,
		Email:     reg.Email,
		CreatedAt: s.now().UTC(),
	}
	acc, err = s.accounts.CreateAccount(ctx, acc, hash)
	if err != nil {
		return domain.Account{}, err
	}

	s.log.Info("account registered", logger.String("account", acc.ID))
	return acc, nil
}

// SignIn checks credentials and issues a session token.
func (s *Service) SignIn(ctx context.Context, creds domain.Credentials) (Session, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := domain.Validate(creds); err != nil {
		return Session{}, err
	}

	acc, hash, err := s.accounts.AccountByEmail(ctx, creds.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)) != nil {
		return Session{}, domain.ErrInvalidCredentials
	}

	token, claims, err := s.issuer.Issue(acc.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, Account: acc}, nil
}

// SignOut revokes the token until its natural expiry. Invalid tokens are
// already signed out.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.issuer.Parse(token)
	if err != nil || s.revocations == nil {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Me returns the account behind an ID.
func (s *Service) Me(ctx context.Context, accountID string) (domain.Account, error) {
	if accountID == "" {
		return domain.Account{}, domain.ErrUnauthorized
	}
	acc, err := s.accounts.AccountByID(ctx, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Account{}, domain.ErrUnauthorized
	}
	return acc, err
}

// TokenFromRequest reads a bearer token or the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// CurrentAccount implements Provider. Invalid, expired and revoked tokens
// are anonymous; only a failing revocation lookup is an error.
func (s *Service) CurrentAccount(r *http.Request) (string, error) {
	token := TokenFromRequest(r)
	if token == "" {
		return "", nil
	}

	claims, err := s.issuer.Parse(token)
	if err != nil {
		s.log.Debug("rejected session token", logger.Error(err))
		return "", nil
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			return "", fmt.Errorf("check session: %w: %w", domain.ErrStorageUnavailable, err)
		}
		if revoked {
			return "", nil
		}
	}
	return claims.Subject, nil
}
