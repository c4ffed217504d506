package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"moneyguard/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Category IDs used by the fixture category set.
const (
	IncomeCategoryID   = "cat-income"
	ProductsCategoryID = "cat-products"
	CarCategoryID      = "cat-car"
)

// Categories returns one INCOME and two EXPENSE categories.
func Categories() []models.Category {
	return []models.Category{
		{ID: IncomeCategoryID, Name: "Income", Type: models.CategoryTypeIncome},
		{ID: ProductsCategoryID, Name: "Products", Type: models.CategoryTypeExpense},
		{ID: CarCategoryID, Name: "Car", Type: models.CategoryTypeExpense},
	}
}

// NewExpense builds an EXPENSE transaction with a negative amount.
func NewExpense(date, categoryID, amount string) models.Transaction {
	return models.Transaction{
		ID:              fmt.Sprintf("tx-%d", nextID()),
		TransactionDate: date,
		Type:            models.TransactionTypeExpense,
		CategoryID:      categoryID,
		Amount:          decimal.RequireFromString(amount).Abs().Neg(),
	}
}

// NewIncome builds an INCOME transaction with a non-negative amount.
func NewIncome(date, categoryID, amount string) models.Transaction {
	return models.Transaction{
		ID:              fmt.Sprintf("tx-%d", nextID()),
		TransactionDate: date,
		Type:            models.TransactionTypeIncome,
		CategoryID:      categoryID,
		Amount:          decimal.RequireFromString(amount).Abs(),
	}
}

// NewCreatePayload builds a valid create payload.
func NewCreatePayload(t models.TransactionType, categoryID, amount string) models.CreateTransactionPayload {
	a := decimal.RequireFromString(amount)
	return models.CreateTransactionPayload{
		TransactionDate: "2025-09-01",
		Type:            t,
		CategoryID:      categoryID,
		Amount:          &a,
	}
}

// NewUser builds a user with a unique email.
func NewUser() models.User {
	n := nextID()
	return models.User{
		ID:       fmt.Sprintf("user-%d", n),
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@test.com", n),
		Balance:  decimal.Zero,
	}
}
