package form

import (
	"testing"
	"time"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/models"
	"moneyguard/internal/testutil"
)

var today = time.Date(2025, 9, 14, 10, 0, 0, 0, time.UTC)

func TestNewAddForm_Defaults(t *testing.T) {
	f := NewAddForm(today)
	if f.Type != models.TransactionTypeIncome {
		t.Errorf("Type = %s, want INCOME", f.Type)
	}
	if f.Date != "2025-09-14" {
		t.Errorf("Date = %s, want 2025-09-14", f.Date)
	}
}

func TestAddForm_ToCreatePayload(t *testing.T) {
	cats := testutil.Categories()

	tests := []struct {
		name       string
		form       AddForm
		wantAmount string
		wantCat    string
		wantErr    string
	}{
		{"expense is negated", AddForm{Type: models.TransactionTypeExpense, CategoryID: testutil.CarCategoryID, Amount: "50", Date: "2025-09-01"}, "-50", testutil.CarCategoryID, ""},
		{"negative input is treated as magnitude", AddForm{Type: models.TransactionTypeExpense, CategoryID: testutil.CarCategoryID, Amount: "-12.5", Date: "2025-09-01"}, "-12.5", testutil.CarCategoryID, ""},
		{"income auto-selects category", AddForm{Type: models.TransactionTypeIncome, Amount: "200", Date: "2025-09-05"}, "200", testutil.IncomeCategoryID, ""},
		{"empty type defaults to income", AddForm{Amount: "10", Date: "2025-09-05"}, "10", testutil.IncomeCategoryID, ""},
		{"expense without category", AddForm{Type: models.TransactionTypeExpense, Amount: "10", Date: "2025-09-05"}, "", "", msgFillAllFields},
		{"missing amount", AddForm{Type: models.TransactionTypeExpense, CategoryID: testutil.CarCategoryID, Date: "2025-09-05"}, "", "", msgFillAllFields},
		{"zero amount", AddForm{Type: models.TransactionTypeExpense, CategoryID: testutil.CarCategoryID, Amount: "0", Date: "2025-09-05"}, "", "", msgFillAllFields},
		{"missing date", AddForm{Type: models.TransactionTypeExpense, CategoryID: testutil.CarCategoryID, Amount: "5"}, "", "", msgFillAllFields},
		{"non-numeric amount", AddForm{Type: models.TransactionTypeExpense, CategoryID: testutil.CarCategoryID, Amount: "ten", Date: "2025-09-05"}, "", "", "amount must be a number"},
		{"unknown type", AddForm{Type: "LOAN", CategoryID: testutil.CarCategoryID, Amount: "5", Date: "2025-09-05"}, "", "", "type must be INCOME or EXPENSE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.form.ToCreatePayload(cats)
			if tt.wantErr != "" {
				appErr := testutil.AssertAppError(t, err, apperrors.ErrValidation.Code)
				if appErr.Message != tt.wantErr {
					t.Errorf("message = %q, want %q", appErr.Message, tt.wantErr)
				}
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertDecimal(t, *p.Amount, tt.wantAmount)
			if p.CategoryID != tt.wantCat {
				t.Errorf("CategoryID = %q, want %q", p.CategoryID, tt.wantCat)
			}
		})
	}
}

func TestNewEditForm_Prefill(t *testing.T) {
	cats := testutil.Categories()
	expense := testutil.NewExpense("2025-09-01", testutil.CarCategoryID, "42.5")
	expense.Comment = "fuel"

	f := NewEditForm(expense, cats, today)
	if f.Amount != "42.5" || f.CategoryID != testutil.CarCategoryID || f.Comment != "fuel" || f.Date != "2025-09-01" {
		t.Errorf("unexpected prefill %+v", f)
	}

	income := testutil.NewIncome("", "stale-income-cat", "100")
	f = NewEditForm(income, cats, today)
	if f.CategoryID != testutil.IncomeCategoryID {
		t.Errorf("income should be moved to the income category, got %q", f.CategoryID)
	}
	if f.Date != "2025-09-14" {
		t.Errorf("missing date should default to today, got %q", f.Date)
	}
}

func TestEditForm_ToUpdatePayload(t *testing.T) {
	f := EditForm{ID: "1", Type: models.TransactionTypeExpense, CategoryID: testutil.CarCategoryID, Amount: "75", Date: "2025-09-01", Comment: "x"}
	p, err := f.ToUpdatePayload()
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, *p.Amount, "-75")
	if *p.Type != models.TransactionTypeExpense || *p.CategoryID != testutil.CarCategoryID || *p.TransactionDate != "2025-09-01" || *p.Comment != "x" {
		t.Errorf("unexpected payload %+v", p)
	}

	f.Type = models.TransactionTypeIncome
	p, err = f.ToUpdatePayload()
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, *p.Amount, "75")

	f.CategoryID = ""
	_, err = f.ToUpdatePayload()
	testutil.AssertAppError(t, err, apperrors.ErrValidation.Code)
}
