package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/anonto42/snapgram/backend/internal/auth"
	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"
)

var pngData = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

type testEnv struct {
	api      *API
	accounts *fakeAccounts
	users    *fakeUsers
	posts    *fakePosts
	saves    *fakeSaves
	files    *mockFiles
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		accounts: newFakeAccounts(),
		users:    &fakeUsers{byID: map[string]*models.User{}},
		posts:    newFakePosts(),
		saves:    &fakeSaves{},
		files:    &mockFiles{},
	}
	env.api = New(Deps{
		Accounts: env.accounts,
		Users:    env.users,
		Posts:    env.posts,
		Saves:    env.saves,
		Files:    env.files,
		Logger:   zaptest.NewLogger(t),
	}, Options{AvatarBaseURL: "https://avatars.test/api/", MaxUploadBytes: 1 << 20})
	return env
}

// stubFiles makes every file operation succeed.
func (e *testEnv) stubFiles() {
	e.files.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	e.files.On("PreviewURL", mock.Anything, mock.Anything).Return("https://files.test/preview", nil)
	e.files.On("Delete", mock.Anything, mock.Anything).Return(nil)
}

type mockFiles struct {
	mock.Mock
}

func (m *mockFiles) Upload(ctx context.Context, fileID string, data []byte, contentType string) error {
	return m.Called(ctx, fileID, data, contentType).Error(0)
}

func (m *mockFiles) PreviewURL(ctx context.Context, fileID string) (string, error) {
	args := m.Called(ctx, fileID)
	return args.String(0), args.Error(1)
}

func (m *mockFiles) Delete(ctx context.Context, fileID string) error {
	return m.Called(ctx, fileID).Error(0)
}

type fakeVerifier struct {
	claims map[string]interface{}
	err    error
}

func (v *fakeVerifier) VerifyIDToken(_ context.Context, _ string) (*fbauth.Token, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &fbauth.Token{UID: "firebase-uid", Claims: v.claims}, nil
}

type fakeAccounts struct {
	mu        sync.Mutex
	byID      map[string]*models.Account
	passwords map[string]string
	sessions  map[string]string
	deleted   []string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		byID:      map[string]*models.Account{},
		passwords: map[string]string{},
		sessions:  map[string]string{},
	}
}

func (f *fakeAccounts) findByEmail(email string) *models.Account {
	for _, a := range f.byID {
		if a.Email == strings.ToLower(email) {
			return a
		}
	}
	return nil
}

func (f *fakeAccounts) CreateAccount(_ context.Context, name, email, password string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findByEmail(email) != nil {
		return nil, auth.ErrEmailTaken
	}
	account := &models.Account{ID: uuid.NewString(), Name: name, Email: strings.ToLower(email)}
	f.byID[account.ID] = account
	f.passwords[account.ID] = password
	return account, nil
}

func (f *fakeAccounts) GetAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a := f.findByEmail(email); a != nil {
		return a, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAccounts) DeleteAccount(_ context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[accountID]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, accountID)
	f.deleted = append(f.deleted, accountID)
	return nil
}

func (f *fakeAccounts) CreateSession(ctx context.Context, email, password string) (*models.SessionToken, error) {
	f.mu.Lock()
	account := f.findByEmail(email)
	ok := account != nil && f.passwords[account.ID] == password
	f.mu.Unlock()
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	return f.CreateSessionForAccount(ctx, account)
}

func (f *fakeAccounts) CreateSessionForAccount(_ context.Context, account *models.Account) (*models.SessionToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := uuid.NewString()
	f.sessions[token] = account.ID
	return &models.SessionToken{Token: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAccounts) GetAccount(_ context.Context, token string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	accountID, ok := f.sessions[token]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	account, ok := f.byID[accountID]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	return account, nil
}

func (f *fakeAccounts) DeleteSession(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[token]; !ok {
		return auth.ErrSessionNotFound
	}
	delete(f.sessions, token)
	return nil
}

type fakeUsers struct {
	mu        sync.Mutex
	byID      map[string]*models.User
	createErr error
	updateErr error
}

func (f *fakeUsers) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	u := *user
	f.byID[u.ID] = &u
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetUserByAccountID(_ context.Context, accountID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.AccountID == accountID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) GetUsers(_ context.Context, limit int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := []models.User{}
	for _, u := range f.byID {
		if limit > 0 && len(users) == limit {
			break
		}
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeUsers) UpdateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	u := *user
	f.byID[u.ID] = &u
	return nil
}

func (f *fakeUsers) SearchUsers(_ context.Context, query string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := []models.User{}
	for _, u := range f.byID {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) {
			users = append(users, *u)
		}
	}
	return users, nil
}

// fakePosts keeps posts in memory with the ordering rules of the document
// store. Every write advances a private clock by one second.
type fakePosts struct {
	mu        sync.Mutex
	byID      map[primitive.ObjectID]models.Post
	clock     time.Time
	createErr error
	updateErr error
}

func newFakePosts() *fakePosts {
	return &fakePosts{
		byID:  map[primitive.ObjectID]models.Post{},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakePosts) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakePosts) lookup(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return objID, fmt.Errorf("%w: %q", repositories.ErrInvalidID, id)
	}
	if _, ok := f.byID[objID]; !ok {
		return objID, repositories.ErrNotFound
	}
	return objID, nil
}

func (f *fakePosts) byUpdate() []models.Post {
	posts := make([]models.Post, 0, len(f.byID))
	for _, p := range f.byID {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].UpdatedAt.Equal(posts[j].UpdatedAt) {
			return posts[i].UpdatedAt.After(posts[j].UpdatedAt)
		}
		return posts[i].ID.Hex() > posts[j].ID.Hex()
	})
	return posts
}

func (f *fakePosts) CreatePost(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	now := f.tick()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	f.byID[post.ID] = *post
	return nil
}

func (f *fakePosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	objID, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	p := f.byID[objID]
	return &p, nil
}

func (f *fakePosts) GetPostsByIDs(_ context.Context, ids []string) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := []models.Post{}
	for _, id := range ids {
		if objID, err := f.lookup(id); err == nil {
			posts = append(posts, f.byID[objID])
		}
	}
	return posts, nil
}

func (f *fakePosts) GetPostsByCreator(_ context.Context, creatorID string, _ int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := []models.Post{}
	for _, p := range f.byUpdate() {
		if p.Creator == creatorID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (f *fakePosts) GetRecentPosts(_ context.Context, limit int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := f.byUpdate()
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	if int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *fakePosts) GetPostsAfter(_ context.Context, cursor string, limit int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := f.byUpdate()
	if cursor != "" {
		objID, err := f.lookup(cursor)
		if err != nil {
			return nil, fmt.Errorf("cursor %q: %w", cursor, err)
		}
		for i, p := range posts {
			if p.ID == objID {
				posts = posts[i+1:]
				break
			}
		}
	}
	if int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *fakePosts) SearchPosts(_ context.Context, term string, limit int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := []models.Post{}
	for _, p := range f.byUpdate() {
		if strings.Contains(strings.ToLower(p.Caption), strings.ToLower(term)) && int64(len(posts)) < limit {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (f *fakePosts) UpdatePost(_ context.Context, post *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	current, ok := f.byID[post.ID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	current.Caption = post.Caption
	current.ImageID = post.ImageID
	current.ImageURL = post.ImageURL
	current.Location = post.Location
	current.Tags = post.Tags
	current.UpdatedAt = f.tick()
	f.byID[post.ID] = current
	return &current, nil
}

func (f *fakePosts) DeletePost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	objID, err := f.lookup(id)
	if err != nil {
		return err
	}
	delete(f.byID, objID)
	return nil
}

func (f *fakePosts) SetLikes(_ context.Context, id string, likes []string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	objID, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	p := f.byID[objID]
	p.Likes = likes
	p.UpdatedAt = f.tick()
	f.byID[objID] = p
	return &p, nil
}

func (f *fakePosts) ToggleLike(_ context.Context, id, userID string) (*models.Post, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	objID, err := f.lookup(id)
	if err != nil {
		return nil, false, err
	}
	p := f.byID[objID]
	p.Likes = ToggleLiker(p.Likes, userID)
	p.UpdatedAt = f.tick()
	f.byID[objID] = p
	return &p, IsPostLiked(p.Likes, userID), nil
}

type fakeSaves struct {
	mu    sync.Mutex
	saves []models.SavedPost
}

func (f *fakeSaves) SavePost(_ context.Context, saved *models.SavedPost) (*models.SavedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.saves {
		if s.UserID == saved.UserID && s.PostID == saved.PostID {
			cp := s
			return &cp, nil
		}
	}
	f.saves = append(f.saves, *saved)
	return saved, nil
}

func (f *fakeSaves) GetSavedPost(_ context.Context, id string) (*models.SavedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.saves {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeSaves) DeleteSavedPost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.saves {
		if s.ID == id {
			f.saves = append(f.saves[:i], f.saves[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeSaves) GetSavedPostsByUser(_ context.Context, userID string) ([]models.SavedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.SavedPost{}
	for _, s := range f.saves {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSaves) DeleteSavedPostsByPostID(_ context.Context, postID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.saves[:0]
	var removed int64
	for _, s := range f.saves {
		if s.PostID == postID {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	f.saves = kept
	return removed, nil
}

var errStoreDown = errors.New("store unavailable")
