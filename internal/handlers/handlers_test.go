package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"moneyguard/internal/middleware"
	"moneyguard/internal/models"
	"moneyguard/internal/testutil"
	"moneyguard/internal/validator"
	"moneyguard/internal/wallet"
)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

var fixedNow = time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func setupRouter(registry *wallet.Registry, rates RatesProvider) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())

	authHandler := NewAuthHandler(registry)
	transactionHandler := NewTransactionHandler(fixedClock)
	categoryHandler := NewCategoryHandler()
	statisticsHandler := NewStatisticsHandler(fixedClock)

	r.POST("/auth/sign-up", authHandler.SignUp)
	r.POST("/auth/sign-in", authHandler.SignIn)
	if rates != nil {
		r.GET("/currency", NewCurrencyHandler(rates).GetRates)
	}

	protected := r.Group("", middleware.Session(registry))
	protected.DELETE("/auth/sign-out", authHandler.SignOut)
	protected.GET("/auth/current", authHandler.Current)
	protected.GET("/transactions", transactionHandler.ListTransactions)
	protected.POST("/transactions/refresh", transactionHandler.RefreshTransactions)
	protected.GET("/transactions/form", transactionHandler.NewTransactionForm)
	protected.POST("/transactions", transactionHandler.CreateTransaction)
	protected.GET("/transactions/:id/form", transactionHandler.EditTransactionForm)
	protected.PATCH("/transactions/:id", transactionHandler.PatchTransaction)
	protected.PUT("/transactions/:id", transactionHandler.ReplaceTransaction)
	protected.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.GET("/balance", statisticsHandler.Balance)
	protected.GET("/statistics", statisticsHandler.Statistics)
	return r
}

// signedIn registers a user against fb and returns the router and its token.
func signedIn(t *testing.T, fb *testutil.FakeBackend) (*gin.Engine, string) {
	t.Helper()
	registry := wallet.NewRegistry(fb, nil)
	client, err := registry.SignUp(context.Background(), models.SignUpRequest{
		Username: "anna", Email: "anna@test.com", Password: "secret1",
	})
	testutil.AssertNoError(t, err)
	return setupRouter(registry, nil), client.Session.Token()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	return doAuthRequest(r, method, path, body, "")
}

func doAuthRequest(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
