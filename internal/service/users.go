package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/settleup-app/settleup-server/internal/models"
)

// Register creates a new user. Email uniqueness is case-insensitive.
// There is no password: possession of the email is the only gate.
func (s *DefaultService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, ErrEmailExists
	}

	user := &models.User{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Email:   req.Email,
		Friends: []string{},
	}

	if err := s.repo.InsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// Login looks the user up by email, case-insensitively, and issues a
// session token.
func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrNotFound
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

func (s *DefaultService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrNotFound
	}

	return user, nil
}

// SearchUsers matches the query against names and emails,
// case-insensitively.
func (s *DefaultService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	lowerQuery := strings.ToLower(query)

	matched := []models.User{}
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), lowerQuery) ||
			strings.Contains(strings.ToLower(u.Email), lowerQuery) {
			matched = append(matched, u)
		}
	}

	return matched, nil
}

// AddFriend connects two users. The relation is symmetric: both users'
// friend lists are updated in one collection write. Adding an existing
// friend is a no-op success.
func (s *DefaultService) AddFriend(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return validationErrorf("you cannot add yourself as a friend")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}

	friend, err := s.repo.GetUserByID(ctx, friendID)
	if err != nil {
		return fmt.Errorf("error getting friend: %w", err)
	}
	if friend == nil {
		return ErrNotFound
	}

	if containsID(user.Friends, friendID) {
		return nil // Already friends
	}

	user.Friends = append(user.Friends, friendID)
	if !containsID(friend.Friends, userID) {
		friend.Friends = append(friend.Friends, userID)
	}

	if err := s.repo.UpdateUsers(ctx, *user, *friend); err != nil {
		return fmt.Errorf("error updating friend lists: %w", err)
	}

	return nil
}

// RemoveFriend drops the edge from both users' lists. Historical
// transactions with the removed friend are untouched.
func (s *DefaultService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}

	user.Friends = removeID(user.Friends, friendID)
	updated := []models.User{*user}

	friend, err := s.repo.GetUserByID(ctx, friendID)
	if err != nil {
		return fmt.Errorf("error getting friend: %w", err)
	}
	if friend != nil {
		friend.Friends = removeID(friend.Friends, userID)
		updated = append(updated, *friend)
	}

	if err := s.repo.UpdateUsers(ctx, updated...); err != nil {
		return fmt.Errorf("error updating friend lists: %w", err)
	}

	return nil
}

// ListFriends resolves the observer's friend IDs to user records.
// Unresolvable IDs are skipped.
func (s *DefaultService) ListFriends(ctx context.Context, userID string) ([]models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	friends := []models.User{}
	for _, id := range user.Friends {
		if f, ok := byID[id]; ok {
			friends = append(friends, f)
		}
	}

	return friends, nil
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
