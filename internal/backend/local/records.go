package local

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneyguard/internal/models"
	"moneyguard/internal/uuid"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// UserRecord is a registered wallet user.
type UserRecord struct {
	Base
	Username string          `gorm:"size:100;not null"`
	Email    string          `gorm:"size:255;not null;uniqueIndex"`
	Password string          `gorm:"size:255;not null"`
	Balance  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
}

// TableName overrides the table name.
func (UserRecord) TableName() string { return "users" }

func (u UserRecord) toModel() models.User {
	return models.User{ID: u.ID, Username: u.Username, Email: u.Email, Balance: u.Balance}
}

// CategoryRecord is a transaction category shared by all users.
type CategoryRecord struct {
	Base
	Name string `gorm:"size:100;not null;uniqueIndex:idx_category_name_type"`
	Type string `gorm:"size:10;not null;uniqueIndex:idx_category_name_type"`
}

// TableName overrides the table name.
func (CategoryRecord) TableName() string { return "transaction_categories" }

func (c CategoryRecord) toModel() models.Category {
	return models.Category{ID: c.ID, Name: c.Name, Type: models.CategoryType(c.Type)}
}

// TransactionRecord is one stored income or expense.
type TransactionRecord struct {
	Base
	UserID          string          `gorm:"type:varchar(36);not null;index"`
	CategoryID      string          `gorm:"type:varchar(36);not null"`
	Type            string          `gorm:"size:10;not null"`
	TransactionDate string          `gorm:"size:10;not null"`
	Comment         string          `gorm:"size:500"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
}

// TableName overrides the table name.
func (TransactionRecord) TableName() string { return "transactions" }

func (t TransactionRecord) toModel() models.Transaction {
	balanceAfter := t.BalanceAfter
	return models.Transaction{
		ID:              t.ID,
		TransactionDate: t.TransactionDate,
		Type:            models.TransactionType(t.Type),
		CategoryID:      t.CategoryID,
		UserID:          t.UserID,
		Comment:         t.Comment,
		Amount:          t.Amount,
		BalanceAfter:    &balanceAfter,
	}
}

// RevokedToken records a signed-out bearer token by its SHA-256 digest.
type RevokedToken struct {
	TokenHash string    `gorm:"size:64;primaryKey"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName overrides the table name.
func (RevokedToken) TableName() string { return "revoked_tokens" }

// Models lists the records the local backend persists, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&UserRecord{},
		&CategoryRecord{},
		&TransactionRecord{},
		&RevokedToken{},
	}
}
