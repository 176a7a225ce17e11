package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/query"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	service Service
	queries *query.Client
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(service Service, queries *query.Client) *PostHandler {
	return &PostHandler{service: service, queries: queries}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a post from a multipart form with an image in "file"
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.NewPost
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.File, err = readUpload(c, "file"); err != nil {
		return err
	}
	if req.File == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image file is required")
	}
	req.UserID = user.ID

	ctx := c.Request().Context()
	post, err := h.service.CreatePost(ctx, req)
	if err != nil {
		return httpError(err)
	}
	h.queries.Invalidate(ctx, postKeys(post)...)
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	id := c.Param("id")
	post, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey(query.GetPostByID, id),
		func(ctx context.Context) (*models.Post, error) {
			return h.service.GetPostByID(ctx, id)
		})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// ownPost loads a post and checks the signed-in user created it
func (h *PostHandler) ownPost(c echo.Context) (*models.Post, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	post, err := h.service.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, httpError(err)
	}
	if post.Creator != user.ID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not authorized to modify this post")
	}
	return post, nil
}

// UpdatePost edits a post. A replacement image may be attached as "file".
func (h *PostHandler) UpdatePost(c echo.Context) error {
	existing, err := h.ownPost(c)
	if err != nil {
		return err
	}

	var req models.UpdatePost
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.File, err = readUpload(c, "file"); err != nil {
		return err
	}
	req.PostID = existing.ID.Hex()
	req.ImageID = existing.ImageID
	req.ImageURL = existing.ImageURL

	ctx := c.Request().Context()
	post, err := h.service.UpdatePost(ctx, req)
	if err != nil {
		return httpError(err)
	}
	h.queries.Invalidate(ctx, postKeys(post)...)
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post together with its image and saves
func (h *PostHandler) DeletePost(c echo.Context) error {
	existing, err := h.ownPost(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.service.DeletePost(ctx, existing.ID.Hex(), existing.ImageID); err != nil {
		return httpError(err)
	}
	h.queries.Invalidate(ctx, postKeys(existing)...)
	return c.NoContent(http.StatusNoContent)
}
