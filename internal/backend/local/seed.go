package local

import (
	"context"
	"fmt"

	"moneyguard/internal/models"
)

// DefaultCategories is the category set every wallet starts with.
var DefaultCategories = []models.Category{
	{Name: "Income", Type: models.CategoryTypeIncome},
	{Name: "Main expenses", Type: models.CategoryTypeExpense},
	{Name: "Products", Type: models.CategoryTypeExpense},
	{Name: "Car", Type: models.CategoryTypeExpense},
	{Name: "Self care", Type: models.CategoryTypeExpense},
	{Name: "Child care", Type: models.CategoryTypeExpense},
	{Name: "Household products", Type: models.CategoryTypeExpense},
	{Name: "Education", Type: models.CategoryTypeExpense},
	{Name: "Leisure", Type: models.CategoryTypeExpense},
	{Name: "Other expenses", Type: models.CategoryTypeExpense},
	{Name: "Entertainment", Type: models.CategoryTypeExpense},
}

// SeedCategories inserts the default categories that do not exist yet.
// Running it again is a no-op.
func (b *Backend) SeedCategories(ctx context.Context) error {
	db := b.db.WithContext(ctx)
	for _, c := range DefaultCategories {
		rec := CategoryRecord{}
		err := db.Where(CategoryRecord{Name: c.Name, Type: string(c.Type)}).
			FirstOrCreate(&rec).Error
		if err != nil {
			return fmt.Errorf("seeding category %q: %w", c.Name, err)
		}
	}
	return nil
}
