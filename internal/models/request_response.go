package models

import "time"

// Request models
type RegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AddFriendRequest struct {
	FriendID string `json:"friendId" binding:"required"`
}

type CreateTransactionRequest struct {
	Amount       float64       `json:"amount" binding:"required,gt=0"`
	Description  string        `json:"description" binding:"required"`
	Date         time.Time     `json:"date"`
	Category     string        `json:"category" binding:"required,oneof=lend borrow split"`
	PayerID      string        `json:"payerId" binding:"required"`
	PayeeID      string        `json:"payeeId" binding:"required"`
	SplitDetails []SplitDetail `json:"splitDetails"`
}

type UpdateTransactionRequest struct {
	Amount       float64       `json:"amount" binding:"required,gt=0"`
	Description  string        `json:"description" binding:"required"`
	Date         time.Time     `json:"date"`
	Settled      bool          `json:"settled"`
	SplitDetails []SplitDetail `json:"splitDetails"`
}

type SplitBillRequest struct {
	TotalAmount   float64            `json:"totalAmount" binding:"required,gt=0"`
	Description   string             `json:"description" binding:"required"`
	FriendIDs     []string           `json:"friendIds" binding:"required,min=1"`
	SplitType     string             `json:"splitType" binding:"required,oneof=equal custom"`
	CustomAmounts map[string]float64 `json:"customAmounts"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type UserResponse struct {
	Status string `json:"status"`
	User   *User  `json:"user,omitempty"`
}

type UsersResponse struct {
	Status string `json:"status"`
	Users  []User `json:"users"`
}

type TransactionResponse struct {
	Status      string       `json:"status"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

type TransactionsResponse struct {
	Status       string        `json:"status"`
	Transactions []Transaction `json:"transactions"`
}

type BalancesResponse struct {
	Status   string    `json:"status"`
	Balances []Balance `json:"balances"`
}

type StatisticsResponse struct {
	Status     string      `json:"status"`
	Statistics *Statistics `json:"statistics,omitempty"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
