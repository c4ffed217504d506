package local

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/models"
	mgvalidator "moneyguard/internal/validator"
)

// ListTransactions returns the user's transactions in creation order.
func (b *Backend) ListTransactions(ctx context.Context, token string) ([]models.Transaction, error) {
	user, err := b.currentUser(ctx, token)
	if err != nil {
		return nil, err
	}

	var records []TransactionRecord
	if err := b.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("created_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		out = append(out, r.toModel())
	}
	return out, nil
}

// ListCategories returns all categories. A valid token is required.
func (b *Backend) ListCategories(ctx context.Context, token string) ([]models.Category, error) {
	if _, err := b.currentUser(ctx, token); err != nil {
		return nil, err
	}

	var records []CategoryRecord
	if err := b.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]models.Category, 0, len(records))
	for _, r := range records {
		out = append(out, r.toModel())
	}
	return out, nil
}

// CreateTransaction stores a transaction and moves the user's balance.
func (b *Backend) CreateTransaction(ctx context.Context, token string, payload models.CreateTransactionPayload) (models.Transaction, error) {
	user, err := b.currentUser(ctx, token)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := b.validate.Struct(payload); err != nil {
		return models.Transaction{}, apperrors.WithMessage(apperrors.ErrInvalidInput, mgvalidator.Describe(err))
	}

	record := &TransactionRecord{
		UserID:          user.ID,
		CategoryID:      payload.CategoryID,
		Type:            string(payload.Type),
		TransactionDate: payload.TransactionDate,
		Comment:         payload.Comment,
		Amount:          models.SignedAmount(payload.Type, *payload.Amount),
	}

	err = b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategory(tx, record.CategoryID, payload.Type); err != nil {
			return err
		}
		if err := tx.Create(record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		balance, err := adjustBalance(tx, user.ID, record.Amount)
		if err != nil {
			return err
		}
		record.BalanceAfter = balance
		return tx.Model(record).Update("balance_after", balance).Error
	})
	if err != nil {
		return models.Transaction{}, asAppError(err)
	}
	return record.toModel(), nil
}

// UpdateTransaction applies the non-nil fields of payload.
func (b *Backend) UpdateTransaction(ctx context.Context, token, id string, payload models.UpdateTransactionPayload) (models.Transaction, error) {
	user, err := b.currentUser(ctx, token)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := b.validate.Struct(payload); err != nil {
		return models.Transaction{}, apperrors.WithMessage(apperrors.ErrInvalidInput, mgvalidator.Describe(err))
	}

	var record TransactionRecord
	err = b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOwned(tx, user.ID, id, &record); err != nil {
			return err
		}
		oldAmount := record.Amount

		if payload.TransactionDate != nil {
			record.TransactionDate = *payload.TransactionDate
		}
		if payload.Comment != nil {
			record.Comment = *payload.Comment
		}
		if payload.Type != nil {
			record.Type = string(*payload.Type)
		}
		if payload.CategoryID != nil {
			record.CategoryID = *payload.CategoryID
		}
		amount := record.Amount
		if payload.Amount != nil {
			amount = *payload.Amount
		}
		record.Amount = models.SignedAmount(models.TransactionType(record.Type), amount)

		if payload.Type != nil || payload.CategoryID != nil {
			if err := checkCategory(tx, record.CategoryID, models.TransactionType(record.Type)); err != nil {
				return err
			}
		}

		balance, err := adjustBalance(tx, user.ID, record.Amount.Sub(oldAmount))
		if err != nil {
			return err
		}
		record.BalanceAfter = balance
		if err := tx.Save(&record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return models.Transaction{}, asAppError(err)
	}
	return record.toModel(), nil
}

// DeleteTransaction removes a transaction and reverts its balance effect.
func (b *Backend) DeleteTransaction(ctx context.Context, token, id string) error {
	user, err := b.currentUser(ctx, token)
	if err != nil {
		return err
	}

	err = b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record TransactionRecord
		if err := findOwned(tx, user.ID, id, &record); err != nil {
			return err
		}
		if err := tx.Delete(&record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		_, err := adjustBalance(tx, user.ID, record.Amount.Neg())
		return err
	})
	return asAppError(err)
}

func findOwned(tx *gorm.DB, userID, id string, record *TransactionRecord) error {
	if err := tx.First(record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if record.UserID != userID {
		return apperrors.ErrForbidden
	}
	return nil
}

func checkCategory(tx *gorm.DB, categoryID string, t models.TransactionType) error {
	var category CategoryRecord
	if err := tx.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.Type != string(t) {
		return apperrors.ErrCategoryTypeMismatch
	}
	return nil
}

// adjustBalance adds delta to the user's balance and returns the new value.
func adjustBalance(tx *gorm.DB, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	if err := tx.Model(&UserRecord{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", delta)).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var user UserRecord
	if err := tx.Select("balance").First(&user, "id = ?", userID).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user.Balance, nil
}

func asAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
