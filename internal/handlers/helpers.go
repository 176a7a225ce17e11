package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/anonto42/snapgram/backend/internal/api"
	"github.com/anonto42/snapgram/backend/internal/middleware"
	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/query"
	"github.com/labstack/echo/v4"
)

// httpError maps an API failure onto an HTTP status
func httpError(err error) error {
	switch api.KindOf(err) {
	case api.KindInvalid:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case api.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case api.KindUnauthorized:
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case api.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case api.KindTransient:
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Service temporarily unavailable").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
}

func currentUser(c echo.Context) (*models.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return user, nil
}

// bindAndValidate binds the request into req and runs the echo validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// readUpload reads an optional multipart file. It returns nil when the
// request carries no file under field.
func readUpload(c echo.Context, field string) (*models.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s upload", field))
	}

	src, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s upload", field))
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s upload", field))
	}
	return &models.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// SessionResolver resolves session tokens through the query cache
type SessionResolver struct {
	service Service
	queries *query.Client
}

func NewSessionResolver(service Service, queries *query.Client) *SessionResolver {
	return &SessionResolver{service: service, queries: queries}
}

func (r *SessionResolver) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	return query.Fetch(ctx, r.queries, query.NewKey(query.GetCurrentUser, token),
		func(ctx context.Context) (*models.User, error) {
			return r.service.GetCurrentUser(ctx, token)
		})
}

// postKeys are the cached reads that can contain a given post
func postKeys(post *models.Post) []query.Key {
	return []query.Key{
		query.NewKey(query.GetPostByID, post.ID.Hex()),
		query.NewKey(query.GetUserPosts, post.Creator),
		query.NewKey(query.GetRecentPosts),
		query.NewKey(query.GetInfinitePosts),
		query.NewKey(query.SearchPosts),
		query.NewKey(query.GetSavedPosts),
	}
}
