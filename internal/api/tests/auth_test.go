package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/settleup-app/settleup-server/internal/api/testutils"
	"github.com/settleup-app/settleup-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful registration
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/auth/register",
		models.RegisterRequest{Name: "Alice", Email: "alice@example.com"}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.UserID)
	assert.NotEmpty(t, resp.Token)

	// Test case 2: Duplicate email, different case
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/auth/register",
		models.RegisterRequest{Name: "Imposter", Email: "ALICE@example.com"}, nil)

	assert.Equal(t, http.StatusConflict, w.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "EMAIL_EXISTS", errResp.Code)

	// Test case 3: Invalid request (malformed email)
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/auth/register",
		models.RegisterRequest{Name: "Bob", Email: "not-an-email"}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	userID, _ := testutils.RegisterUser(t, testCtx, "Alice", "alice@example.com")

	// Test case 1: Successful login, case-insensitive email
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/auth/login",
		models.LoginRequest{Email: "Alice@EXAMPLE.com"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.UserID)
	assert.NotEmpty(t, resp.Token)

	// Test case 2: Unknown email
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/auth/login",
		models.LoginRequest{Email: "nobody@example.com"}, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCurrentUser(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	userID, token := testutils.RegisterUser(t, testCtx, "Alice", "alice@example.com")

	// Test case 1: Authenticated request
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/users/me",
		nil, testutils.AuthHeaders(token))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, userID, resp.User.ID)
	assert.Equal(t, "Alice", resp.User.Name)

	// Test case 2: No token
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/users/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: Garbage token
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/users/me",
		nil, testutils.AuthHeaders("not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchUsers(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	_, token := testutils.RegisterUser(t, testCtx, "Alice", "alice@example.com")
	testutils.RegisterUser(t, testCtx, "Bob Smith", "bob@other.org")

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/users/search?q=smith",
		nil, testutils.AuthHeaders(token))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.UsersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "Bob Smith", resp.Users[0].Name)
}
