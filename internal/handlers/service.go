package handlers

import (
	"context"

	"github.com/anonto42/snapgram/backend/internal/models"
)

// Service is the application API the handlers call. *api.API implements it.
type Service interface {
	SignUp(ctx context.Context, in models.NewUser) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*models.SessionToken, error)
	SignInWithFirebase(ctx context.Context, idToken string) (*models.SessionToken, *models.User, error)
	SignOut(ctx context.Context, token string) error
	GetAccount(ctx context.Context, token string) (*models.Account, error)
	GetCurrentUser(ctx context.Context, token string) (*models.User, error)

	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUsers(ctx context.Context, limit int) ([]models.User, error)
	SearchUsers(ctx context.Context, term string) ([]models.User, error)
	UpdateUser(ctx context.Context, in models.UpdateUser) (*models.User, error)

	CreatePost(ctx context.Context, in models.NewPost) (*models.Post, error)
	UpdatePost(ctx context.Context, in models.UpdatePost) (*models.Post, error)
	DeletePost(ctx context.Context, postID, imageID string) error
	GetPostByID(ctx context.Context, postID string) (*models.Post, error)
	GetUserPosts(ctx context.Context, creatorID string) ([]models.Post, error)

	GetRecentPosts(ctx context.Context) ([]models.Post, error)
	GetInfinitePosts(ctx context.Context, cursor string) (*models.PostPage, error)
	SearchPosts(ctx context.Context, term string) ([]models.Post, error)

	LikePost(ctx context.Context, postID string, likes []string) (*models.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, bool, error)

	SavePost(ctx context.Context, userID, postID string) (*models.SavedPost, error)
	GetSavedPost(ctx context.Context, recordID string) (*models.SavedPost, error)
	DeleteSavedPost(ctx context.Context, recordID string) error
	GetSavedPosts(ctx context.Context, userID string) ([]models.SavedPostDetail, error)
}
