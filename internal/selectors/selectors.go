// Package selectors derives view data from a store snapshot. Every function
// is pure: same state in, same result out.
package selectors

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"moneyguard/internal/models"
	"moneyguard/internal/store"
)

// Fallback labels. UnknownCategory names a single row whose category cannot
// be resolved; OtherExpenses is the breakdown bucket for the same case.
const (
	UnknownCategory = "Unknown"
	OtherExpenses   = "Other expenses"
)

// FallbackColor is used for rows whose category has no breakdown colour.
const FallbackColor = "#C9CBCF"

// Palette colours are assigned to breakdown rows in order. Rows past the
// end of the palette get no colour.
var Palette = []string{
	"#FF6384",
	"#36A2EB",
	"#FFCE56",
	"#4BC0C0",
	"#9966FF",
	"#FF9F40",
	"#FF6384",
	"#C9CBCF",
}

// CategoryTotal is one slice of the monthly expense chart.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Color    string          `json:"color,omitempty"`
}

// Totals are the income and expense magnitudes of a month.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// ExpenseRow is one line of the statistics table.
type ExpenseRow struct {
	ID           string          `json:"id"`
	CategoryName string          `json:"categoryName"`
	Comment      string          `json:"comment"`
	Amount       decimal.Decimal `json:"amount"`
	Color        string          `json:"color"`
}

// Statistics bundles everything the statistics view shows for one month.
type Statistics struct {
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Totals    Totals          `json:"totals"`
	Breakdown []CategoryTotal `json:"breakdown"`
	Rows      []ExpenseRow    `json:"rows"`
}

// TotalBalance is the plain sum of all amounts. Amounts are already signed,
// so the result does not depend on order or type.
func TotalBalance(state store.State) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range state.Transactions {
		total = total.Add(tx.Amount)
	}
	return total
}

// CategoryName resolves id to a category name, or UnknownCategory.
func CategoryName(state store.State, id string) string {
	if id == "" {
		return UnknownCategory
	}
	if name, ok := categoryNames(state)[id]; ok {
		return name
	}
	return UnknownCategory
}

// MonthlyExpenseBreakdown sums the absolute EXPENSE amounts of the given
// month per category name, in first-seen order. Entries whose category
// cannot be resolved share one OtherExpenses slice, kept apart from a real
// category of the same name.
func MonthlyExpenseBreakdown(state store.State, month, year int) []CategoryTotal {
	out, _ := breakdown(state, month, year)
	return out
}

// breakdown also returns the slice index of every resolved category name.
func breakdown(state store.State, month, year int) ([]CategoryTotal, map[string]int) {
	names := categoryNames(state)
	out := []CategoryTotal{}
	index := map[string]int{}
	other := -1

	slot := func(name string, resolved bool) int {
		if !resolved {
			if other < 0 {
				other = len(out)
				out = append(out, CategoryTotal{Category: OtherExpenses, Total: decimal.Zero})
			}
			return other
		}
		i, seen := index[name]
		if !seen {
			i = len(out)
			index[name] = i
			out = append(out, CategoryTotal{Category: name, Total: decimal.Zero})
		}
		return i
	}

	for _, tx := range inMonth(state.Transactions, month, year) {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		name, ok := names[tx.CategoryID]
		i := slot(name, ok)
		out[i].Total = out[i].Total.Add(tx.Amount.Abs())
	}

	for i := range out {
		if i < len(Palette) {
			out[i].Color = Palette[i]
		}
	}
	return out, index
}

// MonthlyTotals returns income and expense magnitudes of the month and
// their difference.
func MonthlyTotals(state store.State, month, year int) Totals {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range inMonth(state.Transactions, month, year) {
		switch tx.Type {
		case models.TransactionTypeIncome:
			totals.Income = totals.Income.Add(tx.Amount.Abs())
		case models.TransactionTypeExpense:
			totals.Expense = totals.Expense.Add(tx.Amount.Abs())
		}
	}
	totals.Balance = totals.Income.Sub(totals.Expense)
	return totals
}

// ExpenseRows lists the EXPENSE entries of the month with their display
// name and the colour of their breakdown slice.
func ExpenseRows(state store.State, month, year int) []ExpenseRow {
	slices, index := breakdown(state, month, year)
	names := categoryNames(state)

	rows := []ExpenseRow{}
	for _, tx := range inMonth(state.Transactions, month, year) {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		name, ok := names[tx.CategoryID]
		if !ok {
			name = UnknownCategory
		}
		color := ""
		if ok {
			color = slices[index[name]].Color
		}
		if color == "" {
			color = FallbackColor
		}
		rows = append(rows, ExpenseRow{
			ID:           tx.ID,
			CategoryName: name,
			Comment:      tx.Comment,
			Amount:       tx.Amount.Abs(),
			Color:        color,
		})
	}
	return rows
}

// MonthlyStatistics combines totals, breakdown and rows for one month.
func MonthlyStatistics(state store.State, month, year int) Statistics {
	return Statistics{
		Month:     month,
		Year:      year,
		Totals:    MonthlyTotals(state, month, year),
		Breakdown: MonthlyExpenseBreakdown(state, month, year),
		Rows:      ExpenseRows(state, month, year),
	}
}

// SortedByDate returns the transactions oldest first. Entries with equal
// dates keep their store order; entries with unparseable dates come last,
// also in store order.
func SortedByDate(state store.State) []models.Transaction {
	type keyed struct {
		tx    models.Transaction
		date  time.Time
		valid bool
	}
	keys := make([]keyed, len(state.Transactions))
	for i, tx := range state.Transactions {
		d, err := tx.Date()
		keys[i] = keyed{tx: tx, date: d, valid: err == nil}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].valid != keys[j].valid {
			return keys[i].valid
		}
		return keys[i].valid && keys[i].date.Before(keys[j].date)
	})

	out := make([]models.Transaction, len(keys))
	for i, k := range keys {
		out[i] = k.tx
	}
	return out
}

// CategoriesByType returns the categories of type t in store order.
func CategoriesByType(state store.State, t models.CategoryType) []models.Category {
	out := []models.Category{}
	for _, c := range state.TransactionCategories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// IncomeCategory returns the first INCOME category. Income transactions
// are booked against it when the user picks none.
func IncomeCategory(state store.State) (models.Category, bool) {
	for _, c := range state.TransactionCategories {
		if c.Type == models.CategoryTypeIncome {
			return c, true
		}
	}
	return models.Category{}, false
}

func categoryNames(state store.State) map[string]string {
	names := make(map[string]string, len(state.TransactionCategories))
	for _, c := range state.TransactionCategories {
		names[c.ID] = c.Name
	}
	return names
}

func inMonth(txns []models.Transaction, month, year int) []models.Transaction {
	var out []models.Transaction
	for _, tx := range txns {
		d, err := tx.Date()
		if err != nil {
			continue
		}
		if int(d.Month()) == month && d.Year() == year {
			out = append(out, tx)
		}
	}
	return out
}
