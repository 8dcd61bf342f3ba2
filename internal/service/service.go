package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/settleup-app/settleup-server/internal/models"
	"github.com/settleup-app/settleup-server/internal/repository"
)

// Sentinel errors surfaced to the API layer.
var (
	ErrNotFound    = errors.New("not found")
	ErrEmailExists = errors.New("user with this email already exists")
)

// ValidationError carries a human-readable message for input the caller
// can fix. No mutation has happened when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Service defines all the business logic operations
type Service interface {
	// Accounts
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)

	// Friends
	AddFriend(ctx context.Context, userID, friendID string) error
	RemoveFriend(ctx context.Context, userID, friendID string) error
	ListFriends(ctx context.Context, userID string) ([]models.User, error)

	// Ledger operations
	CreateTransaction(ctx context.Context, userID string, req models.CreateTransactionRequest) (*models.Transaction, error)
	GetTransaction(ctx context.Context, userID, txnID string) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID, counterpartyID string) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, txnID string, req models.UpdateTransactionRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, txnID string) error
	SettleTransaction(ctx context.Context, userID, txnID string) (*models.Transaction, error)
	ComputeBalances(ctx context.Context, userID string) ([]models.Balance, error)
	ComputeStatistics(ctx context.Context, userID, timeRange string) (*models.Statistics, error)

	// Split bills
	SplitBill(ctx context.Context, userID string, req models.SplitBillRequest) ([]models.Transaction, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, jwtSecret string) Service {
	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
	}
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub": user.ID, // subject
		"exp": expirationTime.Unix(),
		"iat": time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
