package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/settleup-app/settleup-server/internal/models"
	"github.com/settleup-app/settleup-server/internal/repository"
	"github.com/settleup-app/settleup-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*repository.BlobRepository, *store.MemoryBlobStore) {
	t.Helper()
	blobs := store.NewMemoryBlobStore()
	return repository.NewBlobRepository(blobs), blobs
}

func TestUsersRoundTrip(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	alice := models.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Friends: []string{}}
	require.NoError(t, repo.InsertUser(ctx, &alice))

	loaded, err := repo.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, alice, *loaded)

	missing, err := repo.GetUserByID(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetUserByEmailCaseInsensitive(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, &models.User{ID: "u1", Name: "Alice", Email: "Alice@Example.com"}))

	loaded, err := repo.GetUserByEmail(ctx, "alice@EXAMPLE.COM")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "u1", loaded.ID)
}

func TestUpdateUsersSingleWrite(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, &models.User{ID: "u1", Name: "Alice", Friends: []string{}}))
	require.NoError(t, repo.InsertUser(ctx, &models.User{ID: "u2", Name: "Bob", Friends: []string{}}))

	require.NoError(t, repo.UpdateUsers(ctx,
		models.User{ID: "u1", Name: "Alice", Friends: []string{"u2"}},
		models.User{ID: "u2", Name: "Bob", Friends: []string{"u1"}},
	))

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, []string{"u2"}, users[0].Friends)
	assert.Equal(t, []string{"u1"}, users[1].Friends)
}

func TestTransactionsRoundTrip(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	txn := models.Transaction{
		ID:          "t1",
		Amount:      12.5,
		Description: "Lunch",
		Date:        time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Category:    models.CategoryLend,
		PayerID:     "u1",
		PayeeID:     "u2",
	}
	require.NoError(t, repo.InsertTransactions(ctx, txn))

	loaded, err := repo.GetTransactionByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, txn, *loaded)

	loaded.Settled = true
	require.NoError(t, repo.UpdateTransactions(ctx, *loaded))

	reloaded, err := repo.GetTransactionByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, reloaded.Settled)
}

func TestDeleteTransactions(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertTransactions(ctx,
		models.Transaction{ID: "t1", PayerID: "u1", PayeeID: "u2"},
		models.Transaction{ID: "t2", PayerID: "u2", PayeeID: "u1"},
		models.Transaction{ID: "t3", PayerID: "u1", PayeeID: "u3"},
	))

	require.NoError(t, repo.DeleteTransactions(ctx, "t1", "t2", "unknown-id"))

	txns, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "t3", txns[0].ID)
}

// The persisted blob must stay a plain JSON array so it round-trips
// across restarts.
func TestPersistedCollectionIsJSONArray(t *testing.T) {
	repo, blobs := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, &models.User{ID: "u1", Name: "Alice", Email: "a@b.c", Friends: []string{}}))

	raw, err := blobs.Get(ctx, "settleup_users")
	require.NoError(t, err)
	require.NotNil(t, raw)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "u1", decoded[0]["id"])

	// A fresh repository over the same store sees the same data
	reopened := repository.NewBlobRepository(blobs)
	loaded, err := reopened.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Alice", loaded.Name)
}
