package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"

	"moneyguard/internal/models"
)

// HTTPError is a backend failure carrying an HTTP status.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string { return fmt.Sprintf("unexpected status %d", e.Status) }

// HTTPStatus returns the status code.
func (e *HTTPError) HTTPStatus() int { return e.Status }

// StatusErr returns an HTTPError for status.
func StatusErr(status int) error { return &HTTPError{Status: status} }

// FakeBackend is an in-memory wallet API. Tokens are accepted when they
// were issued by SignIn/SignUp or added with AddToken. Every method records
// its name in Calls; Errors injects a failure per method name.
type FakeBackend struct {
	mu           sync.Mutex
	Transactions []models.Transaction
	Categories   []models.Category
	Errors       map[string]error
	Calls        []string
	// OnUpdate replaces UpdateTransaction when set.
	OnUpdate func(ctx context.Context, id string, payload models.UpdateTransactionPayload) (models.Transaction, error)

	tokens    map[string]models.User
	passwords map[string]string
	users     map[string]models.User
}

// NewFakeBackend returns a backend holding the fixture categories.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Categories: Categories(),
		Errors:     map[string]error{},
		tokens:     map[string]models.User{},
		passwords:  map[string]string{},
		users:      map[string]models.User{},
	}
}

// AddToken makes token valid for user.
func (f *FakeBackend) AddToken(token string, user models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = user
}

// CallCount returns how many times method was called.
func (f *FakeBackend) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == method {
			n++
		}
	}
	return n
}

// record must be called with mu held.
func (f *FakeBackend) record(method, token string, needsAuth bool) error {
	f.Calls = append(f.Calls, method)
	if err := f.Errors[method]; err != nil {
		return err
	}
	if needsAuth {
		if _, ok := f.tokens[token]; !ok {
			return StatusErr(http.StatusUnauthorized)
		}
	}
	return nil
}

// ListTransactions implements the wallet API.
func (f *FakeBackend) ListTransactions(_ context.Context, token string) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListTransactions", token, true); err != nil {
		return nil, err
	}
	return append([]models.Transaction{}, f.Transactions...), nil
}

// ListCategories implements the wallet API.
func (f *FakeBackend) ListCategories(_ context.Context, token string) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListCategories", token, true); err != nil {
		return nil, err
	}
	return append([]models.Category{}, f.Categories...), nil
}

// CreateTransaction implements the wallet API.
func (f *FakeBackend) CreateTransaction(_ context.Context, token string, p models.CreateTransactionPayload) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateTransaction", token, true); err != nil {
		return models.Transaction{}, err
	}
	if p.Amount == nil {
		return models.Transaction{}, StatusErr(http.StatusBadRequest)
	}
	if err := f.checkCategory(p.CategoryID, p.Type); err != nil {
		return models.Transaction{}, err
	}
	tx := models.Transaction{
		ID:              fmt.Sprintf("srv-%d", nextID()),
		TransactionDate: p.TransactionDate,
		Type:            p.Type,
		CategoryID:      p.CategoryID,
		Comment:         p.Comment,
		Amount:          *p.Amount,
	}
	f.Transactions = append(f.Transactions, tx)
	return tx, nil
}

// UpdateTransaction implements the wallet API.
func (f *FakeBackend) UpdateTransaction(ctx context.Context, token, id string, p models.UpdateTransactionPayload) (models.Transaction, error) {
	f.mu.Lock()
	if err := f.record("UpdateTransaction", token, true); err != nil {
		f.mu.Unlock()
		return models.Transaction{}, err
	}
	if f.OnUpdate != nil {
		hook := f.OnUpdate
		f.mu.Unlock()
		return hook(ctx, id, p)
	}
	defer f.mu.Unlock()

	i := f.indexOf(id)
	if i < 0 {
		return models.Transaction{}, StatusErr(http.StatusNotFound)
	}
	tx := f.Transactions[i]
	if p.TransactionDate != nil {
		tx.TransactionDate = *p.TransactionDate
	}
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.CategoryID != nil {
		tx.CategoryID = *p.CategoryID
	}
	if p.Comment != nil {
		tx.Comment = *p.Comment
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if err := f.checkCategory(tx.CategoryID, tx.Type); err != nil {
		return models.Transaction{}, err
	}
	f.Transactions[i] = tx
	return tx, nil
}

// DeleteTransaction implements the wallet API.
func (f *FakeBackend) DeleteTransaction(_ context.Context, token, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteTransaction", token, true); err != nil {
		return err
	}
	i := f.indexOf(id)
	if i < 0 {
		return StatusErr(http.StatusNotFound)
	}
	f.Transactions = append(f.Transactions[:i], f.Transactions[i+1:]...)
	return nil
}

// SignUp implements the wallet API.
func (f *FakeBackend) SignUp(_ context.Context, req models.SignUpRequest) (models.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SignUp", "", false); err != nil {
		return models.AuthResult{}, err
	}
	if _, exists := f.users[req.Email]; exists {
		return models.AuthResult{}, StatusErr(http.StatusConflict)
	}
	user := models.User{ID: fmt.Sprintf("user-%d", nextID()), Username: req.Username, Email: req.Email, Balance: decimal.Zero}
	f.users[req.Email] = user
	f.passwords[req.Email] = req.Password
	return f.issue(user), nil
}

// SignIn implements the wallet API.
func (f *FakeBackend) SignIn(_ context.Context, req models.SignInRequest) (models.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SignIn", "", false); err != nil {
		return models.AuthResult{}, err
	}
	user, ok := f.users[req.Email]
	if !ok {
		return models.AuthResult{}, StatusErr(http.StatusNotFound)
	}
	if f.passwords[req.Email] != req.Password {
		return models.AuthResult{}, StatusErr(http.StatusForbidden)
	}
	return f.issue(user), nil
}

// SignOut implements the wallet API.
func (f *FakeBackend) SignOut(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SignOut", token, true); err != nil {
		return err
	}
	delete(f.tokens, token)
	return nil
}

// CurrentUser implements the wallet API.
func (f *FakeBackend) CurrentUser(_ context.Context, token string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CurrentUser", token, true); err != nil {
		return models.User{}, err
	}
	user := f.tokens[token]
	balance := decimal.Zero
	for _, tx := range f.Transactions {
		balance = balance.Add(tx.Amount)
	}
	user.Balance = balance
	return user, nil
}

// issue must be called with mu held.
func (f *FakeBackend) issue(user models.User) models.AuthResult {
	token := fmt.Sprintf("token-%d", nextID())
	f.tokens[token] = user
	return models.AuthResult{Token: token, User: user}
}

// checkCategory must be called with mu held.
func (f *FakeBackend) checkCategory(id string, t models.TransactionType) error {
	for _, c := range f.Categories {
		if c.ID == id {
			if c.Type != t {
				return StatusErr(http.StatusConflict)
			}
			return nil
		}
	}
	return StatusErr(http.StatusNotFound)
}

func (f *FakeBackend) indexOf(id string) int {
	for i := range f.Transactions {
		if f.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}
