package service_test

import (
	"context"
	"testing"

	"github.com/settleup-app/settleup-server/internal/models"
	"github.com/settleup-app/settleup-server/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, models.RegisterRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.UserID)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Alice", resp.Name)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, login.UserID)
	assert.NotEmpty(t, login.Token)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, models.RegisterRequest{Name: "Other Alice", Email: "ALICE@Example.COM"})
	assert.ErrorIs(t, err, service.ErrEmailExists)
}

func TestLoginCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, models.RegisterRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "Alice@EXAMPLE.com"})
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, login.UserID)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAddFriendIdempotent(t *testing.T) {
	svc, repo, alice, bob := setupPair(t)
	ctx := context.Background()

	// setupPair already added the friendship once; add it again
	require.NoError(t, svc.AddFriend(ctx, alice, bob))

	user, err := repo.GetUserByID(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, []string{bob}, user.Friends)
}

func TestFriendshipIsSymmetric(t *testing.T) {
	svc, repo, alice, bob := setupPair(t)
	ctx := context.Background()

	aliceUser, err := repo.GetUserByID(ctx, alice)
	require.NoError(t, err)
	bobUser, err := repo.GetUserByID(ctx, bob)
	require.NoError(t, err)

	assert.Contains(t, aliceUser.Friends, bob)
	assert.Contains(t, bobUser.Friends, alice)

	require.NoError(t, svc.RemoveFriend(ctx, bob, alice))

	aliceUser, err = repo.GetUserByID(ctx, alice)
	require.NoError(t, err)
	bobUser, err = repo.GetUserByID(ctx, bob)
	require.NoError(t, err)

	assert.NotContains(t, aliceUser.Friends, bob)
	assert.NotContains(t, bobUser.Friends, alice)
}

func TestAddFriendSelf(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	alice := registerUser(t, svc, "Alice", "alice@example.com")

	err := svc.AddFriend(ctx, alice, alice)
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAddFriendUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	alice := registerUser(t, svc, "Alice", "alice@example.com")
	assert.ErrorIs(t, svc.AddFriend(ctx, alice, "missing-user"), service.ErrNotFound)
}

func TestListFriends(t *testing.T) {
	svc, _, alice, bob := setupPair(t)
	ctx := context.Background()

	friends, err := svc.ListFriends(ctx, alice)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob, friends[0].ID)
	assert.Equal(t, "Bob", friends[0].Name)
}

func TestSearchUsers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registerUser(t, svc, "Alice Johnson", "alice@example.com")
	registerUser(t, svc, "Bob Smith", "bob@other.org")

	byName, err := svc.SearchUsers(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Alice Johnson", byName[0].Name)

	byEmail, err := svc.SearchUsers(ctx, "OTHER.ORG")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Bob Smith", byEmail[0].Name)

	none, err := svc.SearchUsers(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}
