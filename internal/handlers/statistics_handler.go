package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/selectors"
	"moneyguard/internal/validator"
)

// StatisticsHandler serves the balance and the monthly statistics view.
type StatisticsHandler struct {
	now Clock
}

// NewStatisticsHandler creates a new StatisticsHandler. A nil clock uses time.Now.
func NewStatisticsHandler(now Clock) *StatisticsHandler {
	if now == nil {
		now = time.Now
	}
	return &StatisticsHandler{now: now}
}

// BalanceResponse is the sum of all cached amounts.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// StatisticsQuery selects the month. Zero values mean the current month.
type StatisticsQuery struct {
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" binding:"omitempty,min=1970,max=9999"`
}

// Balance returns the total balance of the cached transactions
// @Summary     Balance
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} BalanceResponse "Balance"
// @Failure     401 {object} ErrorResponse "Not authenticated"
// @Router      /balance [get]
func (h *StatisticsHandler) Balance(c *gin.Context) {
	client, err := getClient(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := client.EnsureListed(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{Balance: selectors.TotalBalance(client.Store.Snapshot())})
}

// Statistics returns the monthly totals, expense breakdown and table rows
// @Summary     Monthly statistics
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12 (default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} selectors.Statistics "Statistics"
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Not authenticated"
// @Router      /statistics [get]
func (h *StatisticsHandler) Statistics(c *gin.Context) {
	client, err := getClient(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q StatisticsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, validator.Describe(err)))
		return
	}
	now := h.now()
	if q.Month == 0 {
		q.Month = int(now.Month())
	}
	if q.Year == 0 {
		q.Year = now.Year()
	}

	if err := client.EnsureListed(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, selectors.MonthlyStatistics(client.Store.Snapshot(), q.Month, q.Year))
}
