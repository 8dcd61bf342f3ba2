package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/settleup-app/settleup-server/internal/models"
	"github.com/settleup-app/settleup-server/internal/store"
)

// Collection keys in the blob store. Each key holds one JSON array.
const (
	usersKey        = "settleup_users"
	transactionsKey = "settleup_transactions"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user *models.User) error
	UpdateUsers(ctx context.Context, users ...models.User) error

	// Transaction operations
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	InsertTransactions(ctx context.Context, txns ...models.Transaction) error
	UpdateTransactions(ctx context.Context, txns ...models.Transaction) error
	DeleteTransactions(ctx context.Context, ids ...string) error
}

// BlobRepository implements the Repository interface on top of a BlobStore.
// Every operation is a read-modify-write of the whole collection array.
type BlobRepository struct {
	store store.BlobStore
}

// NewBlobRepository creates a new blob-backed repository
func NewBlobRepository(s store.BlobStore) *BlobRepository {
	return &BlobRepository{
		store: s,
	}
}

func (r *BlobRepository) loadUsers(ctx context.Context) ([]models.User, error) {
	blob, err := r.store.Get(ctx, usersKey)
	if err != nil {
		return nil, fmt.Errorf("error loading users collection: %w", err)
	}

	if blob == nil {
		return []models.User{}, nil
	}

	var users []models.User
	if err := json.Unmarshal(blob, &users); err != nil {
		return nil, fmt.Errorf("error decoding users collection: %w", err)
	}

	return users, nil
}

func (r *BlobRepository) saveUsers(ctx context.Context, users []models.User) error {
	blob, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("error encoding users collection: %w", err)
	}

	if err := r.store.Set(ctx, usersKey, blob); err != nil {
		return fmt.Errorf("error saving users collection: %w", err)
	}

	return nil
}

func (r *BlobRepository) loadTransactions(ctx context.Context) ([]models.Transaction, error) {
	blob, err := r.store.Get(ctx, transactionsKey)
	if err != nil {
		return nil, fmt.Errorf("error loading transactions collection: %w", err)
	}

	if blob == nil {
		return []models.Transaction{}, nil
	}

	var txns []models.Transaction
	if err := json.Unmarshal(blob, &txns); err != nil {
		return nil, fmt.Errorf("error decoding transactions collection: %w", err)
	}

	return txns, nil
}

func (r *BlobRepository) saveTransactions(ctx context.Context, txns []models.Transaction) error {
	blob, err := json.Marshal(txns)
	if err != nil {
		return fmt.Errorf("error encoding transactions collection: %w", err)
	}

	if err := r.store.Set(ctx, transactionsKey, blob); err != nil {
		return fmt.Errorf("error saving transactions collection: %w", err)
	}

	return nil
}

// User repository methods
func (r *BlobRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	return r.loadUsers(ctx)
}

func (r *BlobRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	users, err := r.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}

	return nil, nil // User not found
}

// GetUserByEmail looks a user up by email, case-insensitively.
func (r *BlobRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}

	return nil, nil // User not found
}

func (r *BlobRepository) InsertUser(ctx context.Context, user *models.User) error {
	users, err := r.loadUsers(ctx)
	if err != nil {
		return err
	}

	users = append(users, *user)
	return r.saveUsers(ctx, users)
}

// UpdateUsers replaces the stored records matching the given users' IDs.
// All replacements land in a single collection write.
func (r *BlobRepository) UpdateUsers(ctx context.Context, updated ...models.User) error {
	users, err := r.loadUsers(ctx)
	if err != nil {
		return err
	}

	for _, u := range updated {
		for i := range users {
			if users[i].ID == u.ID {
				users[i] = u
				break
			}
		}
	}

	return r.saveUsers(ctx, users)
}

// Transaction repository methods
func (r *BlobRepository) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return r.loadTransactions(ctx)
}

func (r *BlobRepository) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	txns, err := r.loadTransactions(ctx)
	if err != nil {
		return nil, err
	}

	for i := range txns {
		if txns[i].ID == id {
			return &txns[i], nil
		}
	}

	return nil, nil // Transaction not found
}

func (r *BlobRepository) InsertTransactions(ctx context.Context, inserted ...models.Transaction) error {
	txns, err := r.loadTransactions(ctx)
	if err != nil {
		return err
	}

	txns = append(txns, inserted...)
	return r.saveTransactions(ctx, txns)
}

// UpdateTransactions replaces the stored records matching the given
// transactions' IDs in a single collection write, so both halves of a
// mirrored pair change together.
func (r *BlobRepository) UpdateTransactions(ctx context.Context, updated ...models.Transaction) error {
	txns, err := r.loadTransactions(ctx)
	if err != nil {
		return err
	}

	for _, u := range updated {
		for i := range txns {
			if txns[i].ID == u.ID {
				txns[i] = u
				break
			}
		}
	}

	return r.saveTransactions(ctx, txns)
}

// DeleteTransactions removes all records with the given IDs in a single
// collection write. Unknown IDs are ignored.
func (r *BlobRepository) DeleteTransactions(ctx context.Context, ids ...string) error {
	txns, err := r.loadTransactions(ctx)
	if err != nil {
		return err
	}

	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}

	remaining := txns[:0]
	for _, t := range txns {
		if !remove[t.ID] {
			remaining = append(remaining, t)
		}
	}

	return r.saveTransactions(ctx, remaining)
}
