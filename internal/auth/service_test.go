package auth

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T, opts ...Option) (*Service, *repositories.PostgresAccountRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.Session{}))

	repo := repositories.NewPostgresAccountRepository(db)
	opts = append([]Option{WithHashCost(bcrypt.MinCost)}, opts...)
	return NewService(repo, "test-secret", time.Hour, opts...), repo
}

func TestService_CreateAccount(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	account, err := svc.CreateAccount(ctx, "Ana", " Ana@Example.com ", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "ana@example.com", account.Email)
	assert.NotEqual(t, "password123", account.PasswordHash)

	_, err = svc.CreateAccount(ctx, "Other", "ana@example.com", "password456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_SessionLifecycle(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	account, err := svc.CreateAccount(ctx, "Ana", "ana@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.CreateSession(ctx, "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.CreateSession(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := svc.CreateSession(ctx, "ANA@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)

	got, err := svc.GetAccount(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	require.NoError(t, svc.DeleteSession(ctx, token.Token))
	_, err = svc.GetAccount(ctx, token.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.DeleteSession(ctx, token.Token), ErrSessionNotFound)
}

func TestService_RejectsBadTokens(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.GetAccount(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.GetAccount(ctx, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "s1", Subject: "a1"},
	}).SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.GetAccount(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ExpiredSession(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	svc, _ := setupService(t, WithClock(func() time.Time { return past }))
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "Ana", "ana@example.com", "password123")
	require.NoError(t, err)
	token, err := svc.CreateSession(ctx, "ana@example.com", "password123")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.GetAccount(ctx, token.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	pruned, err := svc.PruneExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)
}

func TestService_DeleteAccountDropsSessions(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	account, err := svc.CreateAccount(ctx, "Ana", "ana@example.com", "password123")
	require.NoError(t, err)
	token, err := svc.CreateSessionForAccount(ctx, account)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, account.ID))
	_, err = svc.GetAccount(ctx, token.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.GetAccountByEmail(ctx, "ana@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
