package handlers

import (
	"context"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockService struct {
	mock.Mock
}

var _ Service = (*mockService)(nil)

func (m *mockService) SignUp(ctx context.Context, in models.NewUser) (*models.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockService) SignIn(ctx context.Context, email, password string) (*models.SessionToken, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*models.SessionToken)
	return session, args.Error(1)
}

func (m *mockService) SignInWithFirebase(ctx context.Context, idToken string) (*models.SessionToken, *models.User, error) {
	args := m.Called(ctx, idToken)
	session, _ := args.Get(0).(*models.SessionToken)
	user, _ := args.Get(1).(*models.User)
	return session, user, args.Error(2)
}

func (m *mockService) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockService) GetAccount(ctx context.Context, token string) (*models.Account, error) {
	args := m.Called(ctx, token)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func (m *mockService) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockService) GetUsers(ctx context.Context, limit int) ([]models.User, error) {
	args := m.Called(ctx, limit)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *mockService) SearchUsers(ctx context.Context, term string) ([]models.User, error) {
	args := m.Called(ctx, term)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *mockService) UpdateUser(ctx context.Context, in models.UpdateUser) (*models.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockService) CreatePost(ctx context.Context, in models.NewPost) (*models.Post, error) {
	args := m.Called(ctx, in)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *mockService) UpdatePost(ctx context.Context, in models.UpdatePost) (*models.Post, error) {
	args := m.Called(ctx, in)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *mockService) DeletePost(ctx context.Context, postID, imageID string) error {
	return m.Called(ctx, postID, imageID).Error(0)
}

func (m *mockService) GetPostByID(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *mockService) GetUserPosts(ctx context.Context, creatorID string) ([]models.Post, error) {
	args := m.Called(ctx, creatorID)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Error(1)
}

func (m *mockService) GetRecentPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Error(1)
}

func (m *mockService) GetInfinitePosts(ctx context.Context, cursor string) (*models.PostPage, error) {
	args := m.Called(ctx, cursor)
	page, _ := args.Get(0).(*models.PostPage)
	return page, args.Error(1)
}

func (m *mockService) SearchPosts(ctx context.Context, term string) ([]models.Post, error) {
	args := m.Called(ctx, term)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Error(1)
}

func (m *mockService) LikePost(ctx context.Context, postID string, likes []string) (*models.Post, error) {
	args := m.Called(ctx, postID, likes)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *mockService) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, bool, error) {
	args := m.Called(ctx, postID, userID)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Bool(1), args.Error(2)
}

func (m *mockService) SavePost(ctx context.Context, userID, postID string) (*models.SavedPost, error) {
	args := m.Called(ctx, userID, postID)
	saved, _ := args.Get(0).(*models.SavedPost)
	return saved, args.Error(1)
}

func (m *mockService) GetSavedPost(ctx context.Context, recordID string) (*models.SavedPost, error) {
	args := m.Called(ctx, recordID)
	saved, _ := args.Get(0).(*models.SavedPost)
	return saved, args.Error(1)
}

func (m *mockService) DeleteSavedPost(ctx context.Context, recordID string) error {
	return m.Called(ctx, recordID).Error(0)
}

func (m *mockService) GetSavedPosts(ctx context.Context, userID string) ([]models.SavedPostDetail, error) {
	args := m.Called(ctx, userID)
	saved, _ := args.Get(0).([]models.SavedPostDetail)
	return saved, args.Error(1)
}
