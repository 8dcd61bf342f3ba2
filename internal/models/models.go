package models

import (
	"time"
)

// Transaction categories. A lend on one side of a pair is always stored as
// a borrow on the other side; split is its own mirror.
const (
	CategoryLend   = "lend"
	CategoryBorrow = "borrow"
	CategorySplit  = "split"
)

// User represents a registered user. Friends holds the IDs of the users
// this user is connected to; the relation is kept symmetric on both sides.
type User struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Friends []string `json:"friends"`
}

// SplitDetail records one participant's share of a split bill.
type SplitDetail struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
	Paid   bool    `json:"paid"`
}

// Transaction is one side of a mirrored pair. RelatedTransactionID points
// at the record describing the same debt event from the other party's
// perspective (swapped payer/payee, inverted category).
type Transaction struct {
	ID                   string        `json:"id"`
	Amount               float64       `json:"amount"`
	Description          string        `json:"description"`
	Date                 time.Time     `json:"date"`
	Category             string        `json:"category"`
	PayerID              string        `json:"payerId"`
	PayeeID              string        `json:"payeeId"`
	Settled              bool          `json:"settled"`
	RelatedTransactionID string        `json:"relatedTransactionId,omitempty"`
	SplitDetails         []SplitDetail `json:"splitDetails,omitempty"`
}

// Balance is the derived net amount between the observer and one
// counterparty. Positive means the counterparty owes the observer.
type Balance struct {
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// StatTotals aggregates amounts over a time range from the observer's
// point of view.
type StatTotals struct {
	Spent    float64 `json:"spent"`
	Received float64 `json:"received"`
	Net      float64 `json:"net"`
}

// PersonStat aggregates amounts exchanged with a single friend.
type PersonStat struct {
	UserID   string  `json:"userId"`
	Name     string  `json:"name"`
	Spent    float64 `json:"spent"`
	Received float64 `json:"received"`
	Net      float64 `json:"net"`
}

// CategoryCounts holds per-category figures, either raw counts or
// rounded percentages.
type CategoryCounts struct {
	Lend   int `json:"lend"`
	Borrow int `json:"borrow"`
	Split  int `json:"split"`
}

// CategoryBreakdown pairs the raw counts with their share of the total.
type CategoryBreakdown struct {
	Counts      CategoryCounts `json:"counts"`
	Percentages CategoryCounts `json:"percentages"`
}

// Statistics is the full report for one observer and time range.
type Statistics struct {
	TimeRange  string            `json:"timeRange"`
	Totals     StatTotals        `json:"totals"`
	ByPerson   []PersonStat      `json:"byPerson"`
	Categories CategoryBreakdown `json:"categories"`
}
