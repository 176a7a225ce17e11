package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/query"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	service Service
	queries *query.Client
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(service Service, queries *query.Client) *FeedHandler {
	return &FeedHandler{service: service, queries: queries}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/posts", h.GetInfinitePosts)
	g.GET("/posts/recent", h.GetRecentPosts)
	g.GET("/posts/search", h.SearchPosts)
}

// GetRecentPosts returns the newest posts
func (h *FeedHandler) GetRecentPosts(c echo.Context) error {
	posts, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey(query.GetRecentPosts),
		h.service.GetRecentPosts)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetInfinitePosts returns the feed page after ?cursor=. Follow next_cursor
// until it is absent.
func (h *FeedHandler) GetInfinitePosts(c echo.Context) error {
	cursor := c.QueryParam("cursor")
	page, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey(query.GetInfinitePosts, cursor),
		func(ctx context.Context) (*models.PostPage, error) {
			return h.service.GetInfinitePosts(ctx, cursor)
		})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// SearchPosts searches captions for ?q=
func (h *FeedHandler) SearchPosts(c echo.Context) error {
	term := c.QueryParam("q")
	posts, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey(query.SearchPosts, term),
		func(ctx context.Context) ([]models.Post, error) {
			return h.service.SearchPosts(ctx, term)
		})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}
