package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"moneyguard/internal/currency"
	"moneyguard/internal/testutil"
	"moneyguard/internal/wallet"
)

type stubRates struct {
	rates []currency.Rate
	err   error
}

func (s stubRates) Rates(context.Context) ([]currency.Rate, time.Time, error) {
	return s.rates, fixedNow, s.err
}

func TestCurrencyHandler_GetRates(t *testing.T) {
	registry := wallet.NewRegistry(testutil.NewFakeBackend(), nil)

	t.Run("returns rates without authentication", func(t *testing.T) {
		r := setupRouter(registry, stubRates{rates: []currency.Rate{
			{Currency: "USD", Purchase: "41.05", Sale: "41.45", Code: currency.CodeUSD},
		}})

		rec := doRequest(r, "GET", "/currency", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		rates := parseJSON(t, rec)["rates"].([]interface{})
		usd := rates[0].(map[string]interface{})
		if usd["purchase"] != "41.05" || usd["sale"] != "41.45" {
			t.Errorf("usd = %v", usd)
		}
	})

	t.Run("returns 502 when the provider fails", func(t *testing.T) {
		r := setupRouter(registry, stubRates{err: errors.New("unexpected status 429")})

		rec := doRequest(r, "GET", "/currency", "")
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RATES_UNAVAILABLE")
	})
}
