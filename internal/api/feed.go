package api

import (
	"context"
	"strings"

	"github.com/anonto42/snapgram/backend/internal/models"
)

// GetRecentPosts returns the newest posts by creation time.
func (a *API) GetRecentPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := a.posts.GetRecentPosts(ctx, RecentPostsLimit)
	if err != nil {
		return nil, a.fail("GetRecentPosts", err)
	}
	return posts, nil
}

// GetInfinitePosts returns the page of posts following cursor, ordered by
// last update. An empty cursor starts from the top. The returned NextCursor
// is empty once there is nothing left.
func (a *API) GetInfinitePosts(ctx context.Context, cursor string) (*models.PostPage, error) {
	posts, err := a.posts.GetPostsAfter(ctx, cursor, InfinitePageSize)
	if err != nil {
		return nil, a.fail("GetInfinitePosts", err)
	}
	page := &models.PostPage{Documents: posts}
	if len(posts) > 0 {
		page.NextCursor = posts[len(posts)-1].ID.Hex()
	}
	return page, nil
}

// SearchPosts matches term against captions. No hits is an empty list.
func (a *API) SearchPosts(ctx context.Context, term string) ([]models.Post, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Post{}, nil
	}
	posts, err := a.posts.SearchPosts(ctx, term, SearchPostsLimit)
	if err != nil {
		return nil, a.fail("SearchPosts", err)
	}
	return posts, nil
}
