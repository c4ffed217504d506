package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moneyguard/internal/currency"
	apperrors "moneyguard/internal/errors"
)

// RatesProvider returns exchange rates and when they were fetched.
type RatesProvider interface {
	Rates(ctx context.Context) ([]currency.Rate, time.Time, error)
}

// CurrencyHandler serves the USD and EUR exchange rates.
type CurrencyHandler struct {
	rates RatesProvider
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(rates RatesProvider) *CurrencyHandler {
	return &CurrencyHandler{rates: rates}
}

// RatesResponse lists the rates with their fetch time.
type RatesResponse struct {
	Rates     []currency.Rate `json:"rates"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// GetRates returns the cached exchange rates
// @Summary     Exchange rates
// @Description USD and EUR against UAH, purchase and sale, refreshed at most once per cache period.
// @Tags        currency
// @Produce     json
// @Success     200 {object} RatesResponse "Rates"
// @Failure     502 {object} ErrorResponse "Rates provider unavailable"
// @Router      /currency [get]
func (h *CurrencyHandler) GetRates(c *gin.Context) {
	rates, fetchedAt, err := h.rates.Rates(c.Request.Context())
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrRatesUnavailable, err))
		return
	}
	c.JSON(http.StatusOK, RatesResponse{Rates: rates, FetchedAt: fetchedAt})
}
