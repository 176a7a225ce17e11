package handlers

import (
	"net/http"

	"github.com/anonto42/snapgram/backend/internal/middleware"
	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/query"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service Service
	queries *query.Client
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service Service, queries *query.Client) *AuthHandler {
	return &AuthHandler{service: service, queries: queries}
}

// SessionResponse is returned by every sign-in flavour
type SessionResponse struct {
	models.SessionToken
	User *models.User `json:"user"`
}

// RegisterAuthRoutes registers authentication-related routes. Sign-out runs
// behind requireSession.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, requireSession echo.MiddlewareFunc) {
	g.POST("/signup", h.SignUp)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
	g.POST("/signout", h.SignOut, requireSession)
	g.GET("/account", h.GetAccount, requireSession)
}

// SignUp creates the account and profile, then signs the new user in
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req models.NewUser
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.service.SignUp(ctx, req)
	if err != nil {
		return httpError(err)
	}
	h.queries.Invalidate(ctx, query.NewKey(query.GetUsers), query.NewKey(query.SearchUsers))

	session, err := h.service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, SessionResponse{SessionToken: *session, User: user})
}

// SignIn opens an email/password session
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	session, err := h.service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	user, err := h.service.GetCurrentUser(ctx, session.Token)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, SessionResponse{SessionToken: *session, User: user})
}

// FirebaseLogin exchanges a Firebase ID token for a session
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	session, user, err := h.service.SignInWithFirebase(ctx, req.IDToken)
	if err != nil {
		return httpError(err)
	}
	h.queries.Invalidate(ctx, query.NewKey(query.GetUsers), query.NewKey(query.SearchUsers))
	return c.JSON(http.StatusOK, SessionResponse{SessionToken: *session, User: user})
}

// SignOut ends the current session
func (h *AuthHandler) SignOut(c echo.Context) error {
	token := middleware.SessionToken(c)
	ctx := c.Request().Context()
	if err := h.service.SignOut(ctx, token); err != nil {
		return httpError(err)
	}
	h.queries.Invalidate(ctx, query.NewKey(query.GetCurrentUser, token))
	return c.NoContent(http.StatusNoContent)
}

// GetAccount returns the account behind the current session
func (h *AuthHandler) GetAccount(c echo.Context) error {
	account, err := h.service.GetAccount(c.Request().Context(), middleware.SessionToken(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, account)
}
