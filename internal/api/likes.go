package api

import (
	"context"
	"slices"

	"github.com/anonto42/snapgram/backend/internal/models"
)

// LikePost replaces the likers of a post with likes. Concurrent callers
// overwrite each other; ToggleLike does not.
func (a *API) LikePost(ctx context.Context, postID string, likes []string) (*models.Post, error) {
	post, err := a.posts.SetLikes(ctx, postID, dedupe(likes))
	if err != nil {
		return nil, a.fail("LikePost", err)
	}
	return post, nil
}

// ToggleLike adds or removes userID from the likers of a post. The bool is
// true when the post is liked afterwards.
func (a *API) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, bool, error) {
	const op = "ToggleLike"
	if userID == "" {
		return nil, false, a.invalid(op, "user id is required")
	}
	post, liked, err := a.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, false, a.fail(op, err)
	}
	return post, liked, nil
}

// ToggleLiker returns a copy of likers with userID removed if present and
// appended otherwise.
func ToggleLiker(likers []string, userID string) []string {
	out := make([]string, 0, len(likers)+1)
	found := false
	for _, id := range likers {
		if id == userID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, userID)
	}
	return out
}

func IsPostLiked(likers []string, userID string) bool {
	return slices.Contains(likers, userID)
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
