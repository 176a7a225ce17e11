package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/snapgram/backend/internal/query"
	"github.com/anonto42/snapgram/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSetupRoutes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The client is never connected; no route below touches the post store.
	client, err := mongo.NewClient()
	require.NoError(t, err)

	cfg := &config.Config{JWTSecret: "test-secret", SessionTTL: time.Hour, MaxUploadBytes: 1 << 20}
	log := zaptest.NewLogger(t)
	e := echo.New()
	SetupMiddleware(e, cfg, log)
	authService, err := SetupRoutes(e, Dependencies{
		Config:   cfg,
		Postgres: db,
		Mongo:    client.Database("unused"),
		Queries:  query.NewClient(query.NewMemoryCache(), time.Minute, log),
		Logger:   log,
	})
	require.NoError(t, err)
	require.NotNil(t, authService)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/posts/recent", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	routes := map[string]bool{}
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/auth/signup",
		"POST /api/v1/auth/signout",
		"GET /api/v1/auth/account",
		"GET /api/v1/users/me/saves",
		"GET /api/v1/posts",
		"PUT /api/v1/posts/:id/likes",
		"POST /api/v1/posts/:id/likes/toggle",
		"DELETE /api/v1/saves/:id",
	} {
		assert.True(t, routes[want], want)
	}
}
