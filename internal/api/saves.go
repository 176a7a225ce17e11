package api

import (
	"context"
	"time"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/google/uuid"
)

// SavePost bookmarks a post for a user. Saving an already saved post returns
// the existing record.
func (a *API) SavePost(ctx context.Context, userID, postID string) (*models.SavedPost, error) {
	const op = "SavePost"
	if userID == "" || postID == "" {
		return nil, a.invalid(op, "user id and post id are required")
	}
	if _, err := a.posts.GetPostByID(ctx, postID); err != nil {
		return nil, a.fail(op, err)
	}

	saved, err := a.saves.SavePost(ctx, &models.SavedPost{
		ID:        uuid.NewString(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, a.fail(op, err)
	}
	return saved, nil
}

// GetSavedPost returns a single save record. Saves of deleted posts are
// still returned so they can be removed.
func (a *API) GetSavedPost(ctx context.Context, recordID string) (*models.SavedPost, error) {
	saved, err := a.saves.GetSavedPost(ctx, recordID)
	if err != nil {
		return nil, a.fail("GetSavedPost", err)
	}
	return saved, nil
}

func (a *API) DeleteSavedPost(ctx context.Context, recordID string) error {
	if err := a.saves.DeleteSavedPost(ctx, recordID); err != nil {
		return a.fail("DeleteSavedPost", err)
	}
	return nil
}

// GetSavedPosts lists the saves of a user with their posts, newest save
// first. Saves whose post no longer exists are left out.
func (a *API) GetSavedPosts(ctx context.Context, userID string) ([]models.SavedPostDetail, error) {
	const op = "GetSavedPosts"
	saved, err := a.saves.GetSavedPostsByUser(ctx, userID)
	if err != nil {
		return nil, a.fail(op, err)
	}

	ids := make([]string, 0, len(saved))
	for _, s := range saved {
		ids = append(ids, s.PostID)
	}
	posts, err := a.posts.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, a.fail(op, err)
	}
	byID := make(map[string]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID.Hex()] = p
	}

	out := make([]models.SavedPostDetail, 0, len(saved))
	for _, s := range saved {
		if post, ok := byID[s.PostID]; ok {
			out = append(out, models.SavedPostDetail{SavedPost: s, Post: post})
		}
	}
	return out, nil
}
