package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/query"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	service Service
	queries *query.Client
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service Service, queries *query.Client) *UserHandler {
	return &UserHandler{service: service, queries: queries}
}

// RegisterUserRoutes registers user profile-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetCurrentUser)
	g.PUT("/users/me", h.UpdateProfile)
	g.GET("/users/me/saves", h.GetSavedPosts)
	g.GET("/users", h.GetUsers)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// GetCurrentUser returns the signed-in user's profile
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile edits the signed-in user's profile. An avatar may be
// attached as multipart field "file".
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateUser
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.File, err = readUpload(c, "file"); err != nil {
		return err
	}
	req.UserID = user.ID

	ctx := c.Request().Context()
	updated, err := h.service.UpdateUser(ctx, req)
	if err != nil {
		return httpError(err)
	}
	h.queries.Invalidate(ctx,
		query.NewKey(query.GetCurrentUser),
		query.NewKey(query.GetUserByID, user.ID),
		query.NewKey(query.GetUsers),
		query.NewKey(query.SearchUsers),
	)
	return c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id := c.Param("id")
	user, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey(query.GetUserByID, id),
		func(ctx context.Context) (*models.User, error) {
			return h.service.GetUserByID(ctx, id)
		})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUsers lists the newest users. limit defaults to 10.
func (h *UserHandler) GetUsers(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		limit = n
	}

	users, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey(query.GetUsers, strconv.Itoa(limit)),
		func(ctx context.Context) ([]models.User, error) {
			return h.service.GetUsers(ctx, limit)
		})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// SearchUsers searches users by name or username
func (h *UserHandler) SearchUsers(c echo.Context) error {
	term := c.QueryParam("q")
	users, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey(query.SearchUsers, term),
		func(ctx context.Context) ([]models.User, error) {
			return h.service.SearchUsers(ctx, term)
		})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUserPosts(c echo.Context) error {
	id := c.Param("id")
	posts, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey(query.GetUserPosts, id),
		func(ctx context.Context) ([]models.Post, error) {
			return h.service.GetUserPosts(ctx, id)
		})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetSavedPosts lists the signed-in user's saves with their posts
func (h *UserHandler) GetSavedPosts(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	saved, err := query.Fetch(c.Request().Context(), h.queries, query.NewKey(query.GetSavedPosts, user.ID),
		func(ctx context.Context) ([]models.SavedPostDetail, error) {
			return h.service.GetSavedPosts(ctx, user.ID)
		})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, saved)
}
