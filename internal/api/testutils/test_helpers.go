package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/settleup-app/settleup-server/internal/api"
	"github.com/settleup-app/settleup-server/internal/models"
	"github.com/settleup-app/settleup-server/internal/repository"
	"github.com/settleup-app/settleup-server/internal/service"
	"github.com/settleup-app/settleup-server/internal/store"
	"github.com/settleup-app/settleup-server/internal/utils"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key"

// TestContext holds all dependencies for tests
type TestContext struct {
	Router     *gin.Engine
	Repository repository.Repository
	Service    service.Service
}

// SetupTestContext wires the full stack over an in-memory blob store.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	repo := repository.NewBlobRepository(store.NewMemoryBlobStore())
	svc := service.NewDefaultService(repo, testJWTSecret)
	handler := api.NewHandler(svc, utils.NewLogger(), []byte(testJWTSecret))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.SetupRoutes(router)

	return &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
	}
}

// RegisterUser registers a user through the API and returns the assigned
// user ID and session token.
func RegisterUser(t *testing.T, testCtx *TestContext, name, email string) (string, string) {
	t.Helper()

	w := PerformRequest(testCtx.Router, http.MethodPost, "/api/auth/register",
		models.RegisterRequest{Name: name, Email: email}, nil)
	require.Equal(t, http.StatusCreated, w.Code, "failed to register %s: %s", email, w.Body.String())

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.UserID)
	require.NotEmpty(t, resp.Token)

	return resp.UserID, resp.Token
}

// Befriend connects two users through the API.
func Befriend(t *testing.T, testCtx *TestContext, token, friendID string) {
	t.Helper()

	w := PerformRequest(testCtx.Router, http.MethodPost, "/api/friends",
		models.AddFriendRequest{FriendID: friendID}, AuthHeaders(token))
	require.Equal(t, http.StatusOK, w.Code, "failed to add friend: %s", w.Body.String())
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
