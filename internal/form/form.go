// Package form turns what the user typed into the add and edit dialogs into
// request payloads. Amounts are entered as magnitudes; the sign comes from
// the transaction type.
package form

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/models"
)

const msgFillAllFields = "Please fill in category, amount and date"

// AddForm is the state of the add-transaction dialog.
type AddForm struct {
	Type       models.TransactionType `json:"type"`
	CategoryID string                 `json:"categoryId"`
	Amount     string                 `json:"amount"`
	Date       string                 `json:"date"`
	Comment    string                 `json:"comment"`
}

// NewAddForm returns the dialog defaults: INCOME dated today.
func NewAddForm(today time.Time) AddForm {
	return AddForm{
		Type: models.TransactionTypeIncome,
		Date: today.Format(models.DateLayout),
	}
}

// ToCreatePayload checks the required fields and builds the payload. For
// INCOME without a category the INCOME category from categories is used.
func (f AddForm) ToCreatePayload(categories []models.Category) (models.CreateTransactionPayload, error) {
	t := f.Type
	if t == "" {
		t = models.TransactionTypeIncome
	}
	if !t.IsValid() {
		return models.CreateTransactionPayload{}, apperrors.WithMessage(apperrors.ErrValidation, "type must be INCOME or EXPENSE")
	}

	categoryID := strings.TrimSpace(f.CategoryID)
	if t == models.TransactionTypeIncome && categoryID == "" {
		categoryID = incomeCategoryID(categories)
	}

	amount, err := parseAmount(f.Amount)
	if err != nil {
		return models.CreateTransactionPayload{}, err
	}
	if categoryID == "" || strings.TrimSpace(f.Date) == "" {
		return models.CreateTransactionPayload{}, apperrors.WithMessage(apperrors.ErrValidation, msgFillAllFields)
	}

	signed := models.SignedAmount(t, amount)
	return models.CreateTransactionPayload{
		TransactionDate: strings.TrimSpace(f.Date),
		Type:            t,
		CategoryID:      categoryID,
		Comment:         f.Comment,
		Amount:          &signed,
	}, nil
}

// EditForm is the state of the edit dialog.
type EditForm struct {
	ID         string                 `json:"id"`
	Type       models.TransactionType `json:"type"`
	CategoryID string                 `json:"categoryId"`
	Amount     string                 `json:"amount"`
	Date       string                 `json:"date"`
	Comment    string                 `json:"comment"`
}

// NewEditForm prefills the dialog from tx, showing the amount unsigned.
// INCOME entries are moved to the INCOME category from categories.
func NewEditForm(tx models.Transaction, categories []models.Category, today time.Time) EditForm {
	f := EditForm{
		ID:         tx.ID,
		Type:       tx.Type,
		CategoryID: tx.CategoryID,
		Amount:     tx.Amount.Abs().String(),
		Date:       tx.TransactionDate,
		Comment:    tx.Comment,
	}
	if f.Type == "" {
		f.Type = models.TransactionTypeIncome
	}
	if f.Date == "" {
		f.Date = today.Format(models.DateLayout)
	}
	if f.Type == models.TransactionTypeIncome {
		if id := incomeCategoryID(categories); id != "" {
			f.CategoryID = id
		}
	}
	return f
}

// ToUpdatePayload checks the required fields and builds a payload that
// sets every field, with the amount signed by type.
func (f EditForm) ToUpdatePayload() (models.UpdateTransactionPayload, error) {
	if !f.Type.IsValid() {
		return models.UpdateTransactionPayload{}, apperrors.WithMessage(apperrors.ErrValidation, "type must be INCOME or EXPENSE")
	}
	amount, err := parseAmount(f.Amount)
	if err != nil {
		return models.UpdateTransactionPayload{}, err
	}
	categoryID := strings.TrimSpace(f.CategoryID)
	date := strings.TrimSpace(f.Date)
	if categoryID == "" || date == "" {
		return models.UpdateTransactionPayload{}, apperrors.WithMessage(apperrors.ErrValidation, msgFillAllFields)
	}

	t := f.Type
	signed := models.SignedAmount(t, amount)
	comment := f.Comment
	return models.UpdateTransactionPayload{
		TransactionDate: &date,
		Type:            &t,
		CategoryID:      &categoryID,
		Comment:         &comment,
		Amount:          &signed,
	}, nil
}

// parseAmount reads a user-entered amount. Empty and zero count as missing.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrValidation, msgFillAllFields)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrValidation, "amount must be a number")
	}
	if amount.IsZero() {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrValidation, msgFillAllFields)
	}
	return amount.Abs(), nil
}

func incomeCategoryID(categories []models.Category) string {
	for _, c := range categories {
		if c.Type == models.CategoryTypeIncome {
			return c.ID
		}
	}
	return ""
}
