package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The wallet API sends and expects amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the calendar date format used for transactionDate.
const DateLayout = "2006-01-02"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid reports whether t is INCOME or EXPENSE.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single recorded income or expense event as returned by
// the wallet API. Expense amounts are negative, income amounts non-negative.
type Transaction struct {
	ID              string           `json:"id"`
	TransactionDate string           `json:"transactionDate"`
	Type            TransactionType  `json:"type"`
	CategoryID      string           `json:"categoryId"`
	UserID          string           `json:"userId,omitempty"`
	Comment         string           `json:"comment"`
	Amount          decimal.Decimal  `json:"amount"`
	BalanceAfter    *decimal.Decimal `json:"balanceAfter,omitempty"`
}

// Date parses TransactionDate. Both plain dates and RFC3339 timestamps are accepted.
func (t Transaction) Date() (time.Time, error) {
	return ParseDate(t.TransactionDate)
}

// ParseDate parses a YYYY-MM-DD date or an RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

// SignedAmount applies the stored sign convention: expenses are negative,
// income is non-negative, whatever sign the caller supplied.
func SignedAmount(t TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeExpense {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// CreateTransactionPayload is the body of POST /transactions.
type CreateTransactionPayload struct {
	TransactionDate string           `json:"transactionDate" validate:"required,iso_date"`
	Type            TransactionType  `json:"type" validate:"required,transaction_type"`
	CategoryID      string           `json:"categoryId" validate:"required"`
	Comment         string           `json:"comment"`
	Amount          *decimal.Decimal `json:"amount" validate:"required"`
}

// UpdateTransactionPayload is the body of PATCH /transactions/{id}.
// Nil fields are left unchanged by the server.
type UpdateTransactionPayload struct {
	TransactionDate *string          `json:"transactionDate,omitempty" validate:"omitempty,iso_date"`
	Type            *TransactionType `json:"type,omitempty" validate:"omitempty,transaction_type"`
	CategoryID      *string          `json:"categoryId,omitempty"`
	Comment         *string          `json:"comment,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
}

// IsEmpty reports whether the payload changes nothing.
func (p UpdateTransactionPayload) IsEmpty() bool {
	return p.TransactionDate == nil && p.Type == nil && p.CategoryID == nil && p.Comment == nil && p.Amount == nil
}
