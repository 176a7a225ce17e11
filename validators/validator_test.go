package validators

import (
	"net/http"
	"testing"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_SignUpRules(t *testing.T) {
	v := NewValidator()

	ok := models.NewUser{Name: "Ana", Username: "ana", Email: "ana@example.com", Password: "password123"}
	assert.NoError(t, v.Validate(ok))

	tests := map[string]models.NewUser{
		"short name":     {Name: "A", Username: "ana", Email: "ana@example.com", Password: "password123"},
		"short username": {Name: "Ana", Username: "a", Email: "ana@example.com", Password: "password123"},
		"bad email":      {Name: "Ana", Username: "ana", Email: "ana", Password: "password123"},
		"short password": {Name: "Ana", Username: "ana", Email: "ana@example.com", Password: "short"},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			err := v.Validate(in)
			require.Error(t, err)
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		})
	}
}

func TestValidator_PostRules(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(models.NewPost{Caption: "golden hour", Location: "Lisbon"}))
	assert.Error(t, v.Validate(models.NewPost{Caption: "hey", Location: "Lisbon"}))
	assert.Error(t, v.Validate(models.NewPost{Caption: "golden hour", Location: "L"}))
	assert.Error(t, v.Validate(models.SignInRequest{Email: "ana@example.com", Password: "1234567"}))
}
