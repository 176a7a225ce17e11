// Package auth owns accounts and email/password sessions. A session is a row
// in the account store; callers hold it as an HS256 token naming that row.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service implements account and session operations
type Service struct {
	repo     repositories.AccountRepository
	secret   []byte
	ttl      time.Duration
	hashCost int
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithHashCost overrides the bcrypt cost
func WithHashCost(cost int) Option {
	return func(s *Service) {
		s.hashCost = cost
	}
}

// NewService creates an auth service signing tokens with secret. Sessions
// live for ttl.
func NewService(repo repositories.AccountRepository, secret string, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		secret:   []byte(secret),
		ttl:      ttl,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttl <= 0 {
		s.ttl = 72 * time.Hour
	}
	return s
}

// CreateAccount registers a new email/password account.
func (s *Service) CreateAccount(ctx context.Context, name, email, password string) (*models.Account, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        normalizeEmail(email),
		PasswordHash: string(hashed),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// GetAccountByEmail looks an account up by its login email.
func (s *Service) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.repo.GetAccountByEmail(ctx, normalizeEmail(email))
}

// DeleteAccount removes an account together with its sessions.
func (s *Service) DeleteAccount(ctx context.Context, accountID string) error {
	return s.repo.DeleteAccount(ctx, accountID)
}

// CreateSession checks the credentials and opens a session.
func (s *Service) CreateSession(ctx context.Context, email, password string) (*models.SessionToken, error) {
	account, err := s.repo.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.CreateSessionForAccount(ctx, account)
}

// CreateSessionForAccount opens a session without a password check. Used
// after an external identity provider vouched for the account.
func (s *Service) CreateSessionForAccount(ctx context.Context, account *models.Account) (*models.SessionToken, error) {
	now := s.now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	claims := &models.SessionClaims{
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return &models.SessionToken{Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// GetAccount resolves a session token to its account.
func (s *Service) GetAccount(ctx context.Context, token string) (*models.Account, error) {
	session, err := s.session(ctx, token)
	if err != nil {
		return nil, err
	}
	account, err := s.repo.GetAccountByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return account, nil
}

// DeleteSession ends the session named by token.
func (s *Service) DeleteSession(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil && !errors.Is(err, ErrSessionExpired) {
		return err
	}
	if err := s.repo.DeleteSession(ctx, claims.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// PruneExpiredSessions deletes sessions past their expiry.
func (s *Service) PruneExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, s.now().UTC())
}

func (s *Service) session(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	session, err := s.repo.GetSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// parse verifies the token. An expired but otherwise valid token returns its
// claims along with ErrSessionExpired.
func (s *Service) parse(token string) (*models.SessionClaims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &models.SessionClaims{}
	parser := jwt.Parser{}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && claims.ID != "" {
			return claims, ErrSessionExpired
		}
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
