package handlers

import (
	"net/http"

	"github.com/anonto42/snapgram/backend/internal/query"
	"github.com/labstack/echo/v4"
)

// SavedPostHandler handles saved post HTTP requests
type SavedPostHandler struct {
	service Service
	queries *query.Client
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(service Service, queries *query.Client) *SavedPostHandler {
	return &SavedPostHandler{service: service, queries: queries}
}

// RegisterSavedPostRoutes registers saved post routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/posts/:id/save", h.SavePost)
	g.DELETE("/saves/:id", h.DeleteSavedPost)
}

// SavePost saves/bookmarks a post. Saving twice returns the same record.
func (h *SavedPostHandler) SavePost(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	saved, err := h.service.SavePost(ctx, user.ID, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	h.queries.Invalidate(ctx, query.NewKey(query.GetSavedPosts, user.ID))
	return c.JSON(http.StatusOK, saved)
}

// DeleteSavedPost removes one of the signed-in user's saves
func (h *SavedPostHandler) DeleteSavedPost(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	recordID := c.Param("id")

	ctx := c.Request().Context()
	saved, err := h.service.GetSavedPost(ctx, recordID)
	if err != nil {
		return httpError(err)
	}
	if saved.UserID != user.ID {
		return echo.NewHTTPError(http.StatusNotFound, "Saved post not found")
	}

	if err := h.service.DeleteSavedPost(ctx, recordID); err != nil {
		return httpError(err)
	}
	h.queries.Invalidate(ctx, query.NewKey(query.GetSavedPosts, user.ID))
	return c.NoContent(http.StatusNoContent)
}
