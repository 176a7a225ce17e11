package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/anonto42/snapgram/backend/internal/auth"
	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignUp creates an account and its mirrored profile. When the profile
// cannot be written the account is removed again.
func (a *API) SignUp(ctx context.Context, in models.NewUser) (*models.User, error) {
	const op = "SignUp"

	account, err := a.accounts.CreateAccount(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		return nil, a.fail(op, err)
	}
	a.logger.Info("account created", zap.String("account_id", account.ID))

	user, err := a.createProfile(ctx, op, account, in.Username)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (a *API) createProfile(ctx context.Context, op string, account *models.Account, username string) (*models.User, error) {
	user := &models.User{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Username:  username,
		ImageURL:  a.avatarURL(account.Name),
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		if derr := a.accounts.DeleteAccount(context.WithoutCancel(ctx), account.ID); derr != nil {
			a.logger.Warn("failed to remove account after profile write failure",
				zap.String("op", op),
				zap.String("account_id", account.ID),
				zap.Error(derr),
			)
		}
		return nil, a.fail(op, fmt.Errorf("save profile: %w", err))
	}
	return user, nil
}

func (a *API) avatarURL(name string) string {
	return a.opts.AvatarBaseURL + "?name=" + url.QueryEscape(name)
}

// SignIn opens an email/password session.
func (a *API) SignIn(ctx context.Context, email, password string) (*models.SessionToken, error) {
	session, err := a.accounts.CreateSession(ctx, email, password)
	if err != nil {
		return nil, a.fail("SignIn", err)
	}
	return session, nil
}

// SignInWithFirebase verifies a Firebase ID token and opens a session for the
// account with the token's email, creating account and profile on first use.
// Only verified email addresses are accepted.
func (a *API) SignInWithFirebase(ctx context.Context, idToken string) (*models.SessionToken, *models.User, error) {
	const op = "SignInWithFirebase"
	if a.verifier == nil {
		return nil, nil, a.fail(op, ErrFederatedLoginDisabled)
	}

	token, err := a.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, nil, a.fail(op, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err))
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, nil, a.invalid(op, "id token has no email claim")
	}
	if verified, _ := token.Claims["email_verified"].(bool); !verified {
		return nil, nil, a.fail(op, fmt.Errorf("%w: email %s is not verified", auth.ErrInvalidToken, email))
	}

	account, err := a.accounts.GetAccountByEmail(ctx, email)
	var user *models.User
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		name, _ := token.Claims["name"].(string)
		localPart := strings.SplitN(email, "@", 2)[0]
		if name == "" {
			name = localPart
		}
		// The account never signs in with a password.
		account, err = a.accounts.CreateAccount(ctx, name, email, uuid.NewString())
		if err != nil {
			return nil, nil, a.fail(op, err)
		}
		if user, err = a.createProfile(ctx, op, account, localPart); err != nil {
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, a.fail(op, err)
	default:
		if user, err = a.users.GetUserByAccountID(ctx, account.ID); err != nil {
			return nil, nil, a.fail(op, err)
		}
	}

	session, err := a.accounts.CreateSessionForAccount(ctx, account)
	if err != nil {
		return nil, nil, a.fail(op, err)
	}
	return session, user, nil
}

// SignOut deletes the session named by token.
func (a *API) SignOut(ctx context.Context, token string) error {
	if err := a.accounts.DeleteSession(ctx, token); err != nil {
		return a.fail("SignOut", err)
	}
	return nil
}

// GetAccount resolves a session token to its account.
func (a *API) GetAccount(ctx context.Context, token string) (*models.Account, error) {
	account, err := a.accounts.GetAccount(ctx, token)
	if err != nil {
		return nil, a.fail("GetAccount", err)
	}
	return account, nil
}

// GetCurrentUser resolves a session token to the profile of its account.
func (a *API) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	const op = "GetCurrentUser"
	account, err := a.accounts.GetAccount(ctx, token)
	if err != nil {
		return nil, a.fail(op, err)
	}
	user, err := a.users.GetUserByAccountID(ctx, account.ID)
	if err != nil {
		return nil, a.fail(op, fmt.Errorf("profile of account %s: %w", account.ID, err))
	}
	return user, nil
}

func (a *API) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, a.fail("GetUserByID", err)
	}
	return user, nil
}

// GetUsers lists the newest profiles. A non-positive limit lists all.
func (a *API) GetUsers(ctx context.Context, limit int) ([]models.User, error) {
	users, err := a.users.GetUsers(ctx, limit)
	if err != nil {
		return nil, a.fail("GetUsers", err)
	}
	return users, nil
}

func (a *API) SearchUsers(ctx context.Context, term string) ([]models.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.User{}, nil
	}
	users, err := a.users.SearchUsers(ctx, term)
	if err != nil {
		return nil, a.fail("SearchUsers", err)
	}
	return users, nil
}

// UpdateUser edits a profile. A new avatar is uploaded only when a file is
// attached; the replaced one is deleted after the profile is written.
func (a *API) UpdateUser(ctx context.Context, in models.UpdateUser) (*models.User, error) {
	const op = "UpdateUser"
	if in.UserID == "" {
		return nil, a.invalid(op, "user id is required")
	}

	current, err := a.users.GetUserByID(ctx, in.UserID)
	if err != nil {
		return nil, a.fail(op, err)
	}

	updated := *current
	updated.Name = in.Name
	updated.Bio = in.Bio

	var stored *storedFile
	if in.File != nil {
		if stored, err = a.storeImage(ctx, op, in.File); err != nil {
			return nil, err
		}
		updated.ImageID = stored.file.ID
		updated.ImageURL = stored.url
	}

	if err := a.users.UpdateUser(ctx, &updated); err != nil {
		if stored != nil {
			a.discardFile(ctx, op, stored.file.ID)
		}
		return nil, a.fail(op, err)
	}
	if stored != nil && current.ImageID != "" {
		a.discardFile(ctx, op, current.ImageID)
	}
	return &updated, nil
}
