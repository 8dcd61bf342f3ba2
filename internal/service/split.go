package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/settleup-app/settleup-server/internal/models"
)

// customSplitTolerance absorbs rounding in user-entered amounts when
// checking that a custom split adds up to the total.
const customSplitTolerance = 0.01

// EqualShare is one participant's portion when a total is divided evenly.
// Plain floating-point division: the shares may not sum back to the exact
// total in float representation, and no cent correction is applied.
func EqualShare(total float64, participantCount int) float64 {
	return total / float64(participantCount)
}

// validateSplit checks the whole request before anything is written.
func validateSplit(req models.SplitBillRequest, initiatorID string) error {
	if req.TotalAmount <= 0 {
		return validationErrorf("total amount must be greater than zero")
	}
	if strings.TrimSpace(req.Description) == "" {
		return validationErrorf("description must not be empty")
	}
	if len(req.FriendIDs) == 0 {
		return validationErrorf("select at least one friend to split with")
	}

	seen := make(map[string]bool, len(req.FriendIDs))
	for _, friendID := range req.FriendIDs {
		if friendID == initiatorID {
			return validationErrorf("you cannot split a bill with yourself")
		}
		if seen[friendID] {
			return validationErrorf("duplicate participant in split")
		}
		seen[friendID] = true
	}

	if req.SplitType != "custom" {
		return nil
	}

	var sum float64
	for _, friendID := range req.FriendIDs {
		amount, ok := req.CustomAmounts[friendID]
		if !ok || amount < 0 {
			return validationErrorf("enter a valid amount for all selected friends")
		}
		sum += amount
	}

	if math.Abs(sum-req.TotalAmount) > customSplitTolerance {
		return validationErrorf(
			"the sum of individual amounts (%.2f) doesn't match the total (%.2f)",
			sum, req.TotalAmount,
		)
	}

	return nil
}

// SplitBill divides a total among the initiator and the selected friends
// and materializes one mirrored transaction pair per friend: category
// split, payer = initiator, payee = friend, with a single-element
// splitDetails on the initiator-facing record. An N-way split produces N
// independent pairs, not one multi-party transaction. Returns the created
// primary records.
func (s *DefaultService) SplitBill(
	ctx context.Context,
	userID string,
	req models.SplitBillRequest,
) ([]models.Transaction, error) {
	if err := validateSplit(req, userID); err != nil {
		return nil, err
	}

	// Resolve every participant before any pair is created, so a bad ID
	// rejects the whole split rather than leaving it half materialized.
	for _, friendID := range req.FriendIDs {
		friend, err := s.repo.GetUserByID(ctx, friendID)
		if err != nil {
			return nil, fmt.Errorf("error getting participant: %w", err)
		}
		if friend == nil {
			return nil, ErrNotFound
		}
	}

	equalShare := EqualShare(req.TotalAmount, len(req.FriendIDs)+1)
	date := time.Now().UTC()

	created := []models.Transaction{}
	for _, friendID := range req.FriendIDs {
		amount := equalShare
		if req.SplitType == "custom" {
			amount = req.CustomAmounts[friendID]
		}

		// A zero allocation is no debt; it gets no pair.
		if amount == 0 {
			continue
		}

		txn, err := s.CreateTransaction(ctx, userID, models.CreateTransactionRequest{
			Amount:      amount,
			Description: req.Description,
			Date:        date,
			Category:    models.CategorySplit,
			PayerID:     userID,
			PayeeID:     friendID,
			SplitDetails: []models.SplitDetail{
				{UserID: friendID, Amount: amount, Paid: false},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("error creating split transaction: %w", err)
		}

		created = append(created, *txn)
	}

	return created, nil
}
