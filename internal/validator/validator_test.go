package validator

import (
	"testing"

	"github.com/shopspring/decimal"

	"moneyguard/internal/models"
)

func validPayload() models.CreateTransactionPayload {
	amount := decimal.NewFromInt(-50)
	return models.CreateTransactionPayload{
		TransactionDate: "2025-09-01",
		Type:            models.TransactionTypeExpense,
		CategoryID:      "cat-a",
		Amount:          &amount,
	}
}

func TestCreatePayloadValidation(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(p *models.CreateTransactionPayload)
		wantMsg string
	}{
		{"valid", func(p *models.CreateTransactionPayload) {}, ""},
		{"missing date", func(p *models.CreateTransactionPayload) { p.TransactionDate = "" }, "transactionDate is required"},
		{"bad date", func(p *models.CreateTransactionPayload) { p.TransactionDate = "yesterday" }, "transactionDate must be a date in YYYY-MM-DD format"},
		{"missing type", func(p *models.CreateTransactionPayload) { p.Type = "" }, "type is required"},
		{"unknown type", func(p *models.CreateTransactionPayload) { p.Type = "TRANSFER" }, "type must be INCOME or EXPENSE"},
		{"missing category", func(p *models.CreateTransactionPayload) { p.CategoryID = "" }, "categoryId is required"},
		{"missing amount", func(p *models.CreateTransactionPayload) { p.Amount = nil }, "amount is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)
			err := v.Struct(p)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if got := Describe(err); got != tt.wantMsg {
				t.Errorf("Describe() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestUpdatePayloadValidation(t *testing.T) {
	v := New()

	if err := v.Struct(models.UpdateTransactionPayload{}); err != nil {
		t.Errorf("empty update should pass validation: %v", err)
	}

	bad := models.TransactionType("SAVINGS")
	err := v.Struct(models.UpdateTransactionPayload{Type: &bad})
	if err == nil {
		t.Fatal("expected error for invalid type")
	}
	if got := Describe(err); got != "type must be INCOME or EXPENSE" {
		t.Errorf("unexpected message %q", got)
	}

	good := models.TransactionTypeIncome
	if err := v.Struct(models.UpdateTransactionPayload{Type: &good}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthRequestMessages(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		req  models.SignUpRequest
		want string
	}{
		{"bad email", models.SignUpRequest{Username: "ann", Email: "nope", Password: "secret1"}, "email must be a valid email address"},
		{"short password", models.SignUpRequest{Username: "ann", Email: "a@b.co", Password: "abc"}, "password must be at least 6 characters"},
		{"long password", models.SignUpRequest{Username: "ann", Email: "a@b.co", Password: "abcdefghijklmn"}, "password must be at most 12 characters"},
		{"missing username", models.SignUpRequest{Email: "a@b.co", Password: "secret1"}, "username is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := Describe(err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
