package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/form"
	"moneyguard/internal/models"
	"moneyguard/internal/pagination"
	"moneyguard/internal/selectors"
	"moneyguard/internal/store"
	"moneyguard/internal/validator"
	"moneyguard/internal/wallet"
)

// TransactionHandler serves the transaction list and the add, edit and
// delete operations of the signed-in client.
type TransactionHandler struct {
	now Clock
}

// NewTransactionHandler creates a new TransactionHandler. A nil clock uses time.Now.
func NewTransactionHandler(now Clock) *TransactionHandler {
	if now == nil {
		now = time.Now
	}
	return &TransactionHandler{now: now}
}

// TransactionListResponse is a page of the client's transactions plus the
// store's loading flag and last error.
type TransactionListResponse struct {
	pagination.PageResponse[models.Transaction]
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

// ListTransactions returns the cached transactions, oldest first
// @Summary     List transactions
// @Description Page through the transactions held by the session. The first call after sign-in loads them from the wallet service.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} TransactionListResponse "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid paging"
// @Failure     401 {object} ErrorResponse "Not authenticated"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	client, err := getClient(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, validator.Describe(err)))
		return
	}

	if err := client.EnsureListed(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(client.Store.Snapshot(), page))
}

// RefreshTransactions reloads transactions and categories
// @Summary     Refresh transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} TransactionListResponse "First page after reload"
// @Failure     401 {object} ErrorResponse "Session expired"
// @Failure     502 {object} ErrorResponse "Wallet service failure"
// @Router      /transactions/refresh [post]
func (h *TransactionHandler) RefreshTransactions(c *gin.Context) {
	client, err := getClient(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := client.Ops.List(c.Request.Context(), client.Session); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(client.Store.Snapshot(), pagination.PageRequest{}))
}

// NewTransactionForm returns the add dialog defaults
// @Summary     Add form defaults
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} form.AddForm "INCOME dated today"
// @Router      /transactions/form [get]
func (h *TransactionHandler) NewTransactionForm(c *gin.Context) {
	c.JSON(http.StatusOK, form.NewAddForm(h.now()))
}

// CreateTransaction adds a transaction from the add dialog input
// @Summary     Create a transaction
// @Description Amount is entered unsigned; EXPENSE is stored negative. INCOME without a category uses the income category.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body form.AddForm true "Add dialog input"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Missing or invalid fields"
// @Failure     401 {object} ErrorResponse "Session expired"
// @Failure     409 {object} ErrorResponse "Category does not match type"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	client, err := getClient(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in form.AddForm
	if err := c.ShouldBindJSON(&in); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	payload, err := in.ToCreatePayload(client.Store.Snapshot().TransactionCategories)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := client.Ops.Create(c.Request.Context(), client.Session, payload)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// EditTransactionForm returns the edit dialog prefilled from a cached transaction
// @Summary     Edit form
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} form.EditForm "Prefilled edit dialog"
// @Failure     409 {object} ErrorResponse "Transaction is not in the local list"
// @Router      /transactions/{id}/form [get]
func (h *TransactionHandler) EditTransactionForm(c *gin.Context) {
	client, err := getClient(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, ok := client.Store.Transaction(c.Param("id"))
	if !ok {
		respondWithError(c, apperrors.ErrStaleReference)
		return
	}
	c.JSON(http.StatusOK, form.NewEditForm(tx, client.Store.Snapshot().TransactionCategories, h.now()))
}

// PatchTransaction applies a partial update
// @Summary     Update a transaction
// @Description Only the fields present are changed. An amount is re-signed from the resulting type.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                          true "Transaction ID"
// @Param       request body models.UpdateTransactionPayload true "Changed fields"
// @Success     200 {object} models.Transaction "Updated"
// @Failure     400 {object} ErrorResponse "Invalid fields"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Category mismatch or stale reference"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) PatchTransaction(c *gin.Context) {
	client, err := getClient(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var payload models.UpdateTransactionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, validator.Describe(err)))
		return
	}

	h.update(c, client, c.Param("id"), payload)
}

// ReplaceTransaction saves the edit dialog
// @Summary     Save the edit dialog
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Transaction ID"
// @Param       request body form.EditForm true "Edit dialog input"
// @Success     200 {object} models.Transaction "Updated"
// @Failure     400 {object} ErrorResponse "Invalid fields"
// @Failure     409 {object} ErrorResponse "Category mismatch or stale reference"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) ReplaceTransaction(c *gin.Context) {
	client, err := getClient(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in form.EditForm
	if err := c.ShouldBindJSON(&in); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}
	in.ID = c.Param("id")

	payload, err := in.ToUpdatePayload()
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.update(c, client, in.ID, payload)
}

// DeleteTransaction removes a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]string "Deleted id"
// @Failure     401 {object} ErrorResponse "Session expired"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	client, err := getClient(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := client.Ops.Delete(c.Request.Context(), client.Session, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *TransactionHandler) update(c *gin.Context, client *wallet.Client, id string, payload models.UpdateTransactionPayload) {
	tx, err := client.Ops.Update(c.Request.Context(), client.Session, id, payload)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func listResponse(state store.State, page pagination.PageRequest) TransactionListResponse {
	return TransactionListResponse{
		PageResponse: pagination.Window(selectors.SortedByDate(state), page),
		IsLoading:    state.IsLoading,
		Error:        state.Error,
	}
}
