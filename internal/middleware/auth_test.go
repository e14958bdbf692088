package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	key    string
	userID uuid.UUID
}

func (s stubValidator) ValidateToken(_ context.Context, key string) (uuid.UUID, error) {
	if key == s.key {
		return s.userID, nil
	}
	return uuid.Nil, errors.New("invalid token")
}

func TestBearerKey(t *testing.T) {
	cases := []struct {
		header string
		key    string
		ok     bool
	}{
		{"Token abc123", "abc123", true},
		{"Bearer abc123", "abc123", true},
		{"", "", false},
		{"abc123", "", false},
		{"Basic abc123", "", false},
		{"Token", "", false},
	}
	for _, tc := range cases {
		key, ok := bearerKey(tc.header)
		assert.Equal(t, tc.ok, ok, "header %q", tc.header)
		assert.Equal(t, tc.key, key, "header %q", tc.header)
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	validator := stubValidator{key: "good-key", userID: userID}

	engine := gin.New()
	engine.GET("/protected", AuthMiddleware(validator), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, serve("Token good-key").Code)
	assert.Equal(t, http.StatusOK, serve("Bearer good-key").Code)
	assert.Equal(t, http.StatusUnauthorized, serve("Token bad-key").Code)
	assert.Equal(t, http.StatusUnauthorized, serve("").Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	validator := stubValidator{key: "good-key", userID: userID}

	engine := gin.New()
	engine.GET("/open", OptionalAuthMiddleware(validator), func(c *gin.Context) {
		_, authenticated := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
	})

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	w := serve("Token good-key")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)

	// Invalid or missing tokens never abort an optional route.
	w = serve("Token bad-key")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	w = serve("")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}
