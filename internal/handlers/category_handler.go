package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/models"
	"moneyguard/internal/selectors"
)

// CategoryHandler serves the cached transaction categories.
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// ListCategories returns the categories, optionally filtered by type
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       type query string false "INCOME or EXPENSE"
// @Success     200 {array}  models.Category "Categories"
// @Failure     400 {object} ErrorResponse "Invalid type"
// @Failure     401 {object} ErrorResponse "Not authenticated"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	client, err := getClient(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := client.EnsureListed(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}

	state := client.Store.Snapshot()
	typeParam := strings.ToUpper(c.Query("type"))
	if typeParam == "" {
		c.JSON(http.StatusOK, state.TransactionCategories)
		return
	}

	t := models.CategoryType(typeParam)
	if !t.IsValid() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSE"))
		return
	}
	c.JSON(http.StatusOK, selectors.CategoriesByType(state, t))
}
