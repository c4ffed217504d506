package local

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/models"
	"moneyguard/internal/testutil"
)

func setupBackend(t *testing.T) *Backend {
	t.Helper()
	db := testutil.SetupTestDB(t, Models()...)
	b := New(db, Options{JWTSecret: "test-secret", JWTExpiration: time.Hour})
	testutil.AssertNoError(t, b.SeedCategories(context.Background()))
	return b
}

func signUp(t *testing.T, b *Backend, email string) models.AuthResult {
	t.Helper()
	res, err := b.SignUp(context.Background(), models.SignUpRequest{Username: "ann", Email: email, Password: "secret1"})
	testutil.AssertNoError(t, err)
	return res
}

func categoryID(t *testing.T, b *Backend, token, name string) string {
	t.Helper()
	cats, err := b.ListCategories(context.Background(), token)
	testutil.AssertNoError(t, err)
	for _, c := range cats {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %q not seeded", name)
	return ""
}

func TestSeedCategories_Idempotent(t *testing.T) {
	b := setupBackend(t)
	testutil.AssertNoError(t, b.SeedCategories(context.Background()))

	res := signUp(t, b, "seed@test.com")
	cats, err := b.ListCategories(context.Background(), res.Token)
	testutil.AssertNoError(t, err)
	if len(cats) != len(DefaultCategories) {
		t.Fatalf("expected %d categories, got %d", len(DefaultCategories), len(cats))
	}

	income := 0
	for _, c := range cats {
		if c.Type == models.CategoryTypeIncome {
			income++
		}
	}
	if income != 1 {
		t.Errorf("expected exactly one income category, got %d", income)
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	res := signUp(t, b, "Ann@Test.com")
	if res.Token == "" || res.User.Email != "ann@test.com" {
		t.Fatalf("unexpected sign-up result %+v", res)
	}

	_, err := b.SignUp(ctx, models.SignUpRequest{Username: "ann", Email: "ann@test.com", Password: "secret1"})
	testutil.AssertAppError(t, err, apperrors.ErrDuplicateEmail.Code)

	_, err = b.SignUp(ctx, models.SignUpRequest{Username: "", Email: "bad", Password: "x"})
	testutil.AssertAppError(t, err, apperrors.ErrInvalidSignUp.Code)

	in, err := b.SignIn(ctx, models.SignInRequest{Email: "ann@test.com", Password: "secret1"})
	testutil.AssertNoError(t, err)
	if in.User.ID != res.User.ID {
		t.Errorf("signed in as %s, want %s", in.User.ID, res.User.ID)
	}
	if in.Token == res.Token {
		t.Error("every sign-in should issue a distinct token")
	}

	_, err = b.SignIn(ctx, models.SignInRequest{Email: "ann@test.com", Password: "wrong12"})
	testutil.AssertAppError(t, err, apperrors.ErrIncorrectPassword.Code)

	_, err = b.SignIn(ctx, models.SignInRequest{Email: "nobody@test.com", Password: "secret1"})
	testutil.AssertAppError(t, err, apperrors.ErrUserNotFound.Code)

	_, err = b.SignIn(ctx, models.SignInRequest{Email: "not-an-email", Password: "secret1"})
	testutil.AssertAppError(t, err, apperrors.ErrInvalidCredentials.Code)
}

func TestSignOutRevokesToken(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	res := signUp(t, b, "out@test.com")

	user, err := b.CurrentUser(ctx, res.Token)
	testutil.AssertNoError(t, err)
	if user.ID != res.User.ID {
		t.Errorf("CurrentUser = %s, want %s", user.ID, res.User.ID)
	}

	testutil.AssertNoError(t, b.SignOut(ctx, res.Token))

	_, err = b.CurrentUser(ctx, res.Token)
	testutil.AssertAppError(t, err, apperrors.ErrUnauthorized.Code)
	if got := apperrors.Classify(err); got.Code != apperrors.ErrSessionExpired.Code {
		t.Errorf("revoked token should classify as SESSION_EXPIRED, got %s", got.Code)
	}
}

func TestInvalidTokens(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	_, err := b.ListTransactions(ctx, "")
	testutil.AssertAppError(t, err, apperrors.ErrUnauthorized.Code)

	_, err = b.ListTransactions(ctx, "garbage")
	testutil.AssertAppError(t, err, apperrors.ErrUnauthorized.Code)

	other := New(b.db, Options{JWTSecret: "other-secret"})
	res, err := other.SignUp(ctx, models.SignUpRequest{Username: "x", Email: "x@test.com", Password: "secret1"})
	testutil.AssertNoError(t, err)
	_, err = b.ListTransactions(ctx, res.Token)
	testutil.AssertAppError(t, err, apperrors.ErrUnauthorized.Code)
}

func TestExpiredToken(t *testing.T) {
	db := testutil.SetupTestDB(t, Models()...)
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	b := New(db, Options{JWTSecret: "s", JWTExpiration: time.Minute, Now: func() time.Time { return now }})

	res, err := b.SignUp(context.Background(), models.SignUpRequest{Username: "a", Email: "exp@test.com", Password: "secret1"})
	testutil.AssertNoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = b.CurrentUser(context.Background(), res.Token)
	testutil.AssertAppError(t, err, apperrors.ErrUnauthorized.Code)
}

func TestTransactionLifecycle(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	res := signUp(t, b, "tx@test.com")
	products := categoryID(t, b, res.Token, "Products")
	income := categoryID(t, b, res.Token, "Income")

	expense, err := b.CreateTransaction(ctx, res.Token, testutil.NewCreatePayload(models.TransactionTypeExpense, products, "50"))
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, expense.Amount, "-50")
	testutil.AssertDecimal(t, *expense.BalanceAfter, "-50")
	if expense.ID == "" || expense.UserID != res.User.ID {
		t.Errorf("unexpected created transaction %+v", expense)
	}

	salary, err := b.CreateTransaction(ctx, res.Token, testutil.NewCreatePayload(models.TransactionTypeIncome, income, "200"))
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, *salary.BalanceAfter, "150")

	txns, err := b.ListTransactions(ctx, res.Token)
	testutil.AssertNoError(t, err)
	if len(txns) != 2 || txns[0].ID != expense.ID || txns[1].ID != salary.ID {
		t.Fatalf("unexpected list %+v", txns)
	}

	amount := decimal.NewFromInt(75)
	updated, err := b.UpdateTransaction(ctx, res.Token, expense.ID, models.UpdateTransactionPayload{Amount: &amount})
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, updated.Amount, "-75")

	user, err := b.CurrentUser(ctx, res.Token)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, user.Balance, "125")

	testutil.AssertNoError(t, b.DeleteTransaction(ctx, res.Token, expense.ID))
	user, err = b.CurrentUser(ctx, res.Token)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, user.Balance, "200")

	txns, err = b.ListTransactions(ctx, res.Token)
	testutil.AssertNoError(t, err)
	if len(txns) != 1 {
		t.Errorf("expected 1 transaction after delete, got %d", len(txns))
	}
}

func TestUpdateTypeFlipsSign(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	res := signUp(t, b, "flip@test.com")
	products := categoryID(t, b, res.Token, "Products")
	income := categoryID(t, b, res.Token, "Income")

	tx, err := b.CreateTransaction(ctx, res.Token, testutil.NewCreatePayload(models.TransactionTypeExpense, products, "30"))
	testutil.AssertNoError(t, err)

	typ := models.TransactionTypeIncome
	updated, err := b.UpdateTransaction(ctx, res.Token, tx.ID, models.UpdateTransactionPayload{Type: &typ, CategoryID: &income})
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, updated.Amount, "30")
	testutil.AssertDecimal(t, *updated.BalanceAfter, "30")
}

func TestCategoryTypeMismatch(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	res := signUp(t, b, "mismatch@test.com")
	income := categoryID(t, b, res.Token, "Income")
	car := categoryID(t, b, res.Token, "Car")

	_, err := b.CreateTransaction(ctx, res.Token, testutil.NewCreatePayload(models.TransactionTypeExpense, income, "10"))
	testutil.AssertAppError(t, err, apperrors.ErrCategoryTypeMismatch.Code)

	tx, err := b.CreateTransaction(ctx, res.Token, testutil.NewCreatePayload(models.TransactionTypeExpense, car, "10"))
	testutil.AssertNoError(t, err)

	typ := models.TransactionTypeIncome
	_, err = b.UpdateTransaction(ctx, res.Token, tx.ID, models.UpdateTransactionPayload{Type: &typ})
	testutil.AssertAppError(t, err, apperrors.ErrCategoryTypeMismatch.Code)

	_, err = b.CreateTransaction(ctx, res.Token, testutil.NewCreatePayload(models.TransactionTypeExpense, "missing", "10"))
	testutil.AssertAppError(t, err, apperrors.ErrCategoryNotFound.Code)

	user, err := b.CurrentUser(ctx, res.Token)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, user.Balance, "-10")
}

func TestOwnershipAndNotFound(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	alice := signUp(t, b, "alice@test.com")
	bob := signUp(t, b, "bob@test.com")
	car := categoryID(t, b, alice.Token, "Car")

	tx, err := b.CreateTransaction(ctx, alice.Token, testutil.NewCreatePayload(models.TransactionTypeExpense, car, "10"))
	testutil.AssertNoError(t, err)

	comment := "mine now"
	_, err = b.UpdateTransaction(ctx, bob.Token, tx.ID, models.UpdateTransactionPayload{Comment: &comment})
	testutil.AssertAppError(t, err, apperrors.ErrForbidden.Code)

	err = b.DeleteTransaction(ctx, bob.Token, tx.ID)
	testutil.AssertAppError(t, err, apperrors.ErrForbidden.Code)

	err = b.DeleteTransaction(ctx, alice.Token, "does-not-exist")
	testutil.AssertAppError(t, err, apperrors.ErrTransactionNotFound.Code)
	if got := apperrors.Classify(err); got.Code != apperrors.ErrNotFound.Code {
		t.Errorf("missing transaction should classify as NOT_FOUND, got %s", got.Code)
	}

	bobs, err := b.ListTransactions(ctx, bob.Token)
	testutil.AssertNoError(t, err)
	if len(bobs) != 0 {
		t.Errorf("bob should not see alice's transactions, got %d", len(bobs))
	}
}

func TestCreateValidation(t *testing.T) {
	b := setupBackend(t)
	res := signUp(t, b, "valid@test.com")

	p := testutil.NewCreatePayload(models.TransactionTypeExpense, "", "10")
	_, err := b.CreateTransaction(context.Background(), res.Token, p)
	testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	if got := apperrors.Classify(err); got.Code != apperrors.ErrMalformedRequest.Code {
		t.Errorf("invalid payload should classify as MALFORMED_REQUEST, got %s", got.Code)
	}
}
