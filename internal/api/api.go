// Package api is the adapter between the HTTP layer and the backing stores.
// Every operation logs its failures and returns an *Error carrying a Kind.
package api

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/repositories"
	"go.uber.org/zap"
)

const (
	RecentPostsLimit   = 20
	InfinitePageSize   = 10
	SearchPostsLimit   = 25
	defaultAvatarBase  = "https://ui-avatars.com/api/"
	defaultUploadLimit = 10 << 20
)

// Accounts is the account and session store
type Accounts interface {
	CreateAccount(ctx context.Context, name, email, password string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
	CreateSession(ctx context.Context, email, password string) (*models.SessionToken, error)
	CreateSessionForAccount(ctx context.Context, account *models.Account) (*models.SessionToken, error)
	GetAccount(ctx context.Context, token string) (*models.Account, error)
	DeleteSession(ctx context.Context, token string) error
}

// FileStore keeps uploaded images
type FileStore interface {
	Upload(ctx context.Context, fileID string, data []byte, contentType string) error
	PreviewURL(ctx context.Context, fileID string) (string, error)
	Delete(ctx context.Context, fileID string) error
}

// TokenVerifier checks ID tokens from an external identity provider
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// Deps are the stores the adapter talks to. Verifier may be nil.
type Deps struct {
	Accounts Accounts
	Users    repositories.UserRepository
	Posts    repositories.PostRepository
	Saves    repositories.SavedPostRepository
	Files    FileStore
	Verifier TokenVerifier
	Logger   *zap.Logger
}

// Options tune the adapter
type Options struct {
	AvatarBaseURL  string
	MaxUploadBytes int64
}

// API implements the application operations
type API struct {
	accounts Accounts
	users    repositories.UserRepository
	posts    repositories.PostRepository
	saves    repositories.SavedPostRepository
	files    FileStore
	verifier TokenVerifier
	logger   *zap.Logger
	opts     Options
}

// New creates an API over deps
func New(deps Deps, opts Options) *API {
	if opts.AvatarBaseURL == "" {
		opts.AvatarBaseURL = defaultAvatarBase
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultUploadLimit
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		accounts: deps.Accounts,
		users:    deps.Users,
		posts:    deps.Posts,
		saves:    deps.Saves,
		files:    deps.Files,
		verifier: deps.Verifier,
		logger:   logger,
		opts:     opts,
	}
}
