package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/settleup-app/settleup-server/internal/models"
)

// invertCategory maps a category to its mirror-side counterpart.
// Lend and borrow swap; split is its own mirror.
func invertCategory(category string) string {
	switch category {
	case models.CategoryLend:
		return models.CategoryBorrow
	case models.CategoryBorrow:
		return models.CategoryLend
	default:
		return models.CategorySplit
	}
}

// isParty reports whether the user is on either side of the transaction.
func isParty(txn *models.Transaction, userID string) bool {
	return txn.PayerID == userID || txn.PayeeID == userID
}

// CreateTransaction records a debt event as a mirrored pair: the primary
// record from the given perspective, and a mirror with payer/payee swapped
// and the category inverted, each pointing at the other through
// RelatedTransactionID. Returns the primary record.
func (s *DefaultService) CreateTransaction(
	ctx context.Context,
	userID string,
	req models.CreateTransactionRequest,
) (*models.Transaction, error) {
	if req.Amount <= 0 {
		return nil, validationErrorf("amount must be greater than zero")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, validationErrorf("description must not be empty")
	}
	if req.PayerID == req.PayeeID {
		return nil, validationErrorf("payer and payee must be different users")
	}
	if userID != req.PayerID && userID != req.PayeeID {
		return nil, validationErrorf("you must be a party to the transaction")
	}

	payer, err := s.repo.GetUserByID(ctx, req.PayerID)
	if err != nil {
		return nil, fmt.Errorf("error getting payer: %w", err)
	}
	if payer == nil {
		return nil, ErrNotFound
	}

	payee, err := s.repo.GetUserByID(ctx, req.PayeeID)
	if err != nil {
		return nil, fmt.Errorf("error getting payee: %w", err)
	}
	if payee == nil {
		return nil, ErrNotFound
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	primaryID := uuid.New().String()
	mirrorID := uuid.New().String()

	primary := models.Transaction{
		ID:                   primaryID,
		Amount:               req.Amount,
		Description:          req.Description,
		Date:                 date,
		Category:             req.Category,
		PayerID:              req.PayerID,
		PayeeID:              req.PayeeID,
		Settled:              false,
		RelatedTransactionID: mirrorID,
		SplitDetails:         req.SplitDetails,
	}

	mirror := models.Transaction{
		ID:                   mirrorID,
		Amount:               req.Amount,
		Description:          req.Description,
		Date:                 date,
		Category:             invertCategory(req.Category),
		PayerID:              req.PayeeID,
		PayeeID:              req.PayerID,
		Settled:              false,
		RelatedTransactionID: primaryID,
		SplitDetails:         req.SplitDetails,
	}

	if err := s.repo.InsertTransactions(ctx, primary); err != nil {
		return nil, fmt.Errorf("error saving transaction: %w", err)
	}

	if err := s.repo.InsertTransactions(ctx, mirror); err != nil {
		// Remove the primary again so no orphan half-pair survives.
		if delErr := s.repo.DeleteTransactions(ctx, primaryID); delErr != nil {
			return nil, fmt.Errorf("error saving mirror transaction (rollback also failed: %v): %w", delErr, err)
		}
		return nil, fmt.Errorf("error saving mirror transaction: %w", err)
	}

	return &primary, nil
}

func (s *DefaultService) GetTransaction(ctx context.Context, userID, txnID string) (*models.Transaction, error) {
	txn, err := s.repo.GetTransactionByID(ctx, txnID)
	if err != nil {
		return nil, fmt.Errorf("error getting transaction: %w", err)
	}

	if txn == nil || !isParty(txn, userID) {
		return nil, ErrNotFound
	}

	return txn, nil
}

// GetUserTransactions returns every transaction the observer is a party
// to, optionally restricted to those also involving counterpartyID.
func (s *DefaultService) GetUserTransactions(
	ctx context.Context,
	userID string,
	counterpartyID string,
) ([]models.Transaction, error) {
	txns, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}

	matched := []models.Transaction{}
	for _, t := range txns {
		if !isParty(&t, userID) {
			continue
		}
		if counterpartyID != "" && t.PayerID != counterpartyID && t.PayeeID != counterpartyID {
			continue
		}
		matched = append(matched, t)
	}

	return matched, nil
}

// UpdateTransaction overwrites the mutable fields of a record (amount,
// description, date, settled flag, split details) and propagates the same
// values to its mirror. The mirror keeps its own identity, orientation and
// category.
func (s *DefaultService) UpdateTransaction(
	ctx context.Context,
	userID string,
	txnID string,
	req models.UpdateTransactionRequest,
) (*models.Transaction, error) {
	if req.Amount <= 0 {
		return nil, validationErrorf("amount must be greater than zero")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, validationErrorf("description must not be empty")
	}

	txn, err := s.repo.GetTransactionByID(ctx, txnID)
	if err != nil {
		return nil, fmt.Errorf("error getting transaction: %w", err)
	}
	if txn == nil || !isParty(txn, userID) {
		return nil, ErrNotFound
	}

	txn.Amount = req.Amount
	txn.Description = req.Description
	if !req.Date.IsZero() {
		txn.Date = req.Date
	}
	txn.Settled = req.Settled
	txn.SplitDetails = req.SplitDetails

	updated := []models.Transaction{*txn}

	if txn.RelatedTransactionID != "" {
		mirror, err := s.repo.GetTransactionByID(ctx, txn.RelatedTransactionID)
		if err != nil {
			return nil, fmt.Errorf("error getting mirror transaction: %w", err)
		}
		if mirror != nil {
			mirror.Amount = txn.Amount
			mirror.Description = txn.Description
			mirror.Date = txn.Date
			mirror.Settled = txn.Settled
			mirror.SplitDetails = txn.SplitDetails
			updated = append(updated, *mirror)
		}
	}

	// Both halves land in one collection write.
	if err := s.repo.UpdateTransactions(ctx, updated...); err != nil {
		return nil, fmt.Errorf("error updating transaction: %w", err)
	}

	return txn, nil
}

// DeleteTransaction removes a record and its mirror.
func (s *DefaultService) DeleteTransaction(ctx context.Context, userID, txnID string) error {
	txn, err := s.repo.GetTransactionByID(ctx, txnID)
	if err != nil {
		return fmt.Errorf("error getting transaction: %w", err)
	}
	if txn == nil || !isParty(txn, userID) {
		return ErrNotFound
	}

	ids := []string{txn.ID}
	if txn.RelatedTransactionID != "" {
		ids = append(ids, txn.RelatedTransactionID)
	}

	if err := s.repo.DeleteTransactions(ctx, ids...); err != nil {
		return fmt.Errorf("error deleting transaction: %w", err)
	}

	return nil
}

// SettleTransaction marks a transaction settled and delegates to
// UpdateTransaction, which propagates the flag to the mirror.
func (s *DefaultService) SettleTransaction(ctx context.Context, userID, txnID string) (*models.Transaction, error) {
	txn, err := s.repo.GetTransactionByID(ctx, txnID)
	if err != nil {
		return nil, fmt.Errorf("error getting transaction: %w", err)
	}
	if txn == nil || !isParty(txn, userID) {
		return nil, ErrNotFound
	}

	return s.UpdateTransaction(ctx, userID, txnID, models.UpdateTransactionRequest{
		Amount:       txn.Amount,
		Description:  txn.Description,
		Date:         txn.Date,
		Settled:      true,
		SplitDetails: txn.SplitDetails,
	})
}

// ComputeBalances folds the observer's unsettled transactions into one net
// amount per counterparty. The observer's friends are seeded at zero so
// the output order starts with the friend list order; counterparties with
// a zero net are dropped from the result.
func (s *DefaultService) ComputeBalances(ctx context.Context, userID string) ([]models.Balance, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	txns, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}

	amounts := make(map[string]float64)
	order := []string{}

	seed := func(id string) {
		if _, ok := amounts[id]; !ok {
			amounts[id] = 0
			order = append(order, id)
		}
	}

	for _, friendID := range user.Friends {
		seed(friendID)
	}

	// Both halves of a mirrored pair involve the observer, on opposite
	// sides: fold each pair exactly once or the halves cancel out.
	folded := make(map[string]bool)

	for _, t := range txns {
		if t.Settled || folded[t.ID] {
			continue
		}

		switch userID {
		case t.PayerID:
			seed(t.PayeeID)
			amounts[t.PayeeID] += t.Amount
		case t.PayeeID:
			seed(t.PayerID)
			amounts[t.PayerID] -= t.Amount
		default:
			continue
		}

		folded[t.ID] = true
		if t.RelatedTransactionID != "" {
			folded[t.RelatedTransactionID] = true
		}
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	balances := []models.Balance{}
	for _, id := range order {
		if amounts[id] == 0 {
			continue
		}

		name, ok := names[id]
		if !ok {
			name = "Unknown User"
		}

		balances = append(balances, models.Balance{
			UserID: id,
			Name:   name,
			Amount: amounts[id],
		})
	}

	return balances, nil
}

// Statistics time ranges.
const (
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
	RangeAll   = "all"
)

func rangeCutoff(timeRange string, now time.Time) (time.Time, error) {
	switch timeRange {
	case RangeWeek:
		return now.AddDate(0, 0, -7), nil
	case RangeMonth, "":
		return now.AddDate(0, -1, 0), nil
	case RangeYear:
		return now.AddDate(-1, 0, 0), nil
	case RangeAll:
		return time.Time{}, nil
	default:
		return time.Time{}, validationErrorf("unknown time range %q", timeRange)
	}
}

// ComputeStatistics reports totals, per-friend activity and a category
// breakdown over the observer's transactions within the time range.
// Settled transactions are included: this is spending history, not
// outstanding balance.
func (s *DefaultService) ComputeStatistics(ctx context.Context, userID, timeRange string) (*models.Statistics, error) {
	cutoff, err := rangeCutoff(timeRange, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if timeRange == "" {
		timeRange = RangeMonth
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	txns, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	type personTotals struct {
		spent    float64
		received float64
	}

	perPerson := make(map[string]*personTotals)
	for _, friendID := range user.Friends {
		perPerson[friendID] = &personTotals{}
	}

	stats := &models.Statistics{TimeRange: timeRange}

	// As in ComputeBalances, fold each mirrored pair once. The record's
	// payer is the party that actually paid, so the observer's category
	// follows from which side of the folded half they are on.
	folded := make(map[string]bool)

	for _, t := range txns {
		if !isParty(&t, userID) || t.Date.Before(cutoff) || folded[t.ID] {
			continue
		}

		folded[t.ID] = true
		if t.RelatedTransactionID != "" {
			folded[t.RelatedTransactionID] = true
		}

		if t.Category == models.CategorySplit {
			stats.Categories.Counts.Split++
		} else if t.PayerID == userID {
			stats.Categories.Counts.Lend++
		} else {
			stats.Categories.Counts.Borrow++
		}

		if t.PayerID == userID {
			stats.Totals.Spent += t.Amount
			if p, ok := perPerson[t.PayeeID]; ok {
				p.spent += t.Amount
			}
		} else {
			stats.Totals.Received += t.Amount
			if p, ok := perPerson[t.PayerID]; ok {
				p.received += t.Amount
			}
		}
	}

	stats.Totals.Net = stats.Totals.Received - stats.Totals.Spent

	for _, friendID := range user.Friends {
		p := perPerson[friendID]
		if p.spent == 0 && p.received == 0 {
			continue
		}

		name, ok := names[friendID]
		if !ok {
			name = "Unknown User"
		}

		stats.ByPerson = append(stats.ByPerson, models.PersonStat{
			UserID:   friendID,
			Name:     name,
			Spent:    p.spent,
			Received: p.received,
			Net:      p.received - p.spent,
		})
	}

	sort.SliceStable(stats.ByPerson, func(i, j int) bool {
		return math.Abs(stats.ByPerson[i].Net) > math.Abs(stats.ByPerson[j].Net)
	})

	total := stats.Categories.Counts.Lend + stats.Categories.Counts.Borrow + stats.Categories.Counts.Split
	if total > 0 {
		stats.Categories.Percentages.Lend = roundPercent(stats.Categories.Counts.Lend, total)
		stats.Categories.Percentages.Borrow = roundPercent(stats.Categories.Counts.Borrow, total)
		stats.Categories.Percentages.Split = roundPercent(stats.Categories.Counts.Split, total)
	}

	return stats, nil
}

func roundPercent(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}
