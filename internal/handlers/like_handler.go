package handlers

import (
	"net/http"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/query"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	service Service
	queries *query.Client
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(service Service, queries *query.Client) *LikeHandler {
	return &LikeHandler{service: service, queries: queries}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.PUT("/posts/:id/likes", h.SetLikes)
	g.POST("/posts/:id/likes/toggle", h.ToggleLike)
}

// SetLikes replaces the likers of a post with the posted list
func (h *LikeHandler) SetLikes(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	var req models.LikePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	ctx := c.Request().Context()
	post, err := h.service.LikePost(ctx, c.Param("id"), req.Likes)
	if err != nil {
		return httpError(err)
	}
	h.queries.Invalidate(ctx, postKeys(post)...)
	return c.JSON(http.StatusOK, post)
}

// ToggleLike likes or unlikes a post for the signed-in user
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, liked, err := h.service.ToggleLike(ctx, c.Param("id"), user.ID)
	if err != nil {
		return httpError(err)
	}
	h.queries.Invalidate(ctx, postKeys(post)...)
	return c.JSON(http.StatusOK, echo.Map{"liked": liked, "post": post})
}
