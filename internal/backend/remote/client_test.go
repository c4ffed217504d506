package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/models"
)

func TestListTransactions_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/transactions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"1","transactionDate":"2025-09-01","type":"EXPENSE","categoryId":"catA","userId":"u1","comment":"","amount":-50,"balanceAfter":150},
			{"id":"2","transactionDate":"2025-09-05","type":"INCOME","categoryId":"catB","comment":"salary","amount":200}
		]`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/api/", server.Client())
	txns, err := c.ListTransactions(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	if !txns[0].Amount.Equal(decimal.NewFromInt(-50)) || txns[0].BalanceAfter == nil || txns[0].UserID != "u1" {
		t.Errorf("first transaction mismatch: %+v", txns[0])
	}
	if txns[1].Comment != "salary" || txns[1].Type != models.TransactionTypeIncome {
		t.Errorf("second transaction mismatch: %+v", txns[1])
	}
}

func TestListCategories_NoTokenSendsNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction-categories" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("expected no Authorization header, got %q", r.Header.Get("Authorization"))
		}
		_ = json.NewEncoder(w).Encode([]models.Category{{ID: "c1", Name: "Car", Type: models.CategoryTypeExpense}})
	}))
	defer server.Close()

	cats, err := NewClient(server.URL, server.Client()).ListCategories(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Car" {
		t.Errorf("unexpected categories %+v", cats)
	}
}

func TestCreateTransaction_SendsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transactions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["amount"] != float64(-50) || body["categoryId"] != "catA" || body["type"] != "EXPENSE" {
			t.Errorf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new-1","transactionDate":"2025-09-01","type":"EXPENSE","categoryId":"catA","comment":"","amount":-50}`))
	}))
	defer server.Close()

	amount := decimal.NewFromInt(-50)
	tx, err := NewClient(server.URL, server.Client()).CreateTransaction(context.Background(), "tok", models.CreateTransactionPayload{
		TransactionDate: "2025-09-01",
		Type:            models.TransactionTypeExpense,
		CategoryID:      "catA",
		Amount:          &amount,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.ID != "new-1" {
		t.Errorf("ID = %q, want new-1", tx.ID)
	}
}

func TestUpdateTransaction_PartialBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/transactions/abc" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body) != 1 || body["comment"] != "fixed" {
			t.Errorf("expected only comment in body, got %v", body)
		}
		_, _ = w.Write([]byte(`{"id":"abc","transactionDate":"2025-09-01","type":"EXPENSE","categoryId":"catA","comment":"fixed","amount":-50}`))
	}))
	defer server.Close()

	comment := "fixed"
	tx, err := NewClient(server.URL, server.Client()).UpdateTransaction(context.Background(), "tok", "abc", models.UpdateTransactionPayload{Comment: &comment})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Comment != "fixed" {
		t.Errorf("Comment = %q", tx.Comment)
	}
}

func TestDeleteTransaction_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/transactions/abc" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := NewClient(server.URL, server.Client()).DeleteTransaction(context.Background(), "tok", "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatusErrors_Classify(t *testing.T) {
	tests := []struct {
		status int
		want   *apperrors.AppError
	}{
		{http.StatusBadRequest, apperrors.ErrMalformedRequest},
		{http.StatusUnauthorized, apperrors.ErrSessionExpired},
		{http.StatusForbidden, apperrors.ErrForbidden},
		{http.StatusNotFound, apperrors.ErrNotFound},
		{http.StatusConflict, apperrors.ErrCategoryTypeMismatch},
		{http.StatusInternalServerError, apperrors.ErrOperationFailed},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"server said no"}`))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, server.Client()).ListTransactions(context.Background(), "tok")
			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected *StatusError, got %T: %v", err, err)
			}
			if statusErr.StatusCode != tt.status || statusErr.Message != "server said no" {
				t.Errorf("unexpected status error %+v", statusErr)
			}
			if got := apperrors.Classify(err); got.Code != tt.want.Code {
				t.Errorf("Classify code = %s, want %s", got.Code, tt.want.Code)
			}
		})
	}
}

func TestSignIn_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/sign-in" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("sign-in must not send a bearer token")
		}
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"id":"u1","username":"ann","email":"ann@example.com","balance":150}}`))
	}))
	defer server.Close()

	res, err := NewClient(server.URL, server.Client()).SignIn(context.Background(), models.SignInRequest{Email: "ann@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token != "tok-1" || res.User.Username != "ann" || !res.User.Balance.Equal(decimal.NewFromInt(150)) {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, server.Client()).SignIn(context.Background(), models.SignInRequest{Email: "a@b.c", Password: "x"})
	if got := apperrors.ClassifySignIn(err); got.Code != apperrors.ErrIncorrectPassword.Code {
		t.Errorf("ClassifySignIn code = %s", got.Code)
	}
	if !strings.Contains(err.Error(), "unexpected status 403") {
		t.Errorf("error %q should mention the status", err.Error())
	}
}

func TestCurrentUserAndSignOut(t *testing.T) {
	var signedOut bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users/current":
			_, _ = w.Write([]byte(`{"id":"u1","username":"ann","email":"ann@example.com","balance":0}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/auth/sign-out":
			signedOut = true
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, server.Client())
	user, err := c.CurrentUser(context.Background(), "tok")
	if err != nil || user.ID != "u1" {
		t.Fatalf("CurrentUser = %+v, %v", user, err)
	}
	if err := c.SignOut(context.Background(), "tok"); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if !signedOut {
		t.Error("sign-out endpoint was not called")
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, nil).ListTransactions(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := apperrors.Classify(err); got.Code != apperrors.ErrOperationFailed.Code {
		t.Errorf("network failure should classify as OPERATION_FAILED, got %s", got.Code)
	}
}

func TestInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, server.Client()).ListCategories(context.Background(), "tok")
	if err == nil || !strings.Contains(err.Error(), "decoding response") {
		t.Errorf("expected decoding error, got %v", err)
	}
}
