package models

// CategoryType represents the type of category
type CategoryType = TransactionType

const (
	CategoryTypeIncome  CategoryType = TransactionTypeIncome
	CategoryTypeExpense CategoryType = TransactionTypeExpense
)

// Category represents a transaction category
type Category struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}
