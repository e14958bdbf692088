package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/api"
	"github.com/foodgram-app/backend/internal/router"
	"github.com/foodgram-app/backend/internal/service"
	"github.com/foodgram-app/backend/internal/testhelpers"
)

// setupAPITest wires the full route table over an in-memory database,
// without Redis, S3 or rate limiting.
func setupAPITest(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDatabase(t)

	authSvc := service.NewAuthService(db, nil, service.LookupEmail)
	engine := router.SetupRouter(
		api.NewAuthHandler(authSvc),
		api.NewUserHandler(service.NewUserService(db), authSvc),
		api.NewRecipeHandler(service.NewRecipeService(db, nil), service.NewMembershipService(db), authSvc, nil),
		api.NewCatalogHandler(service.NewIngredientService(db), service.NewTagService(db)),
		[]string{"http://localhost:3000"},
		nil,
	)
	return engine, db
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// loginAs exchanges a factory user's credentials for a bearer token.
func loginAs(t *testing.T, engine *gin.Engine, email string) string {
	t.Helper()

	w := doRequest(t, engine, http.MethodPost, "/api/auth/token/login", "", gin.H{
		"email":    email,
		"password": testhelpers.TestPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	var resp struct {
		AuthToken string `json:"auth_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AuthToken)
	return resp.AuthToken
}

func performRaw(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "undecodable body: %s", w.Body.String())
}
