package delivery

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	txdto "emailbudget-backend/internal/transaction/dto"
	"emailbudget-backend/internal/transaction/usecase"

	"github.com/gin-gonic/gin"
)

var monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

type TransactionHandler struct {
	transactionUsecase usecase.TransactionUsecase
}

func NewTransactionHandler(transactionUsecase usecase.TransactionUsecase) *TransactionHandler {
	return &TransactionHandler{
		transactionUsecase: transactionUsecase,
	}
}

// ImportReceiptText ingests OCR output from a photographed receipt.
func (h *TransactionHandler) ImportReceiptText(c *gin.Context) {
	var req txdto.ImportReceiptTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.transactionUsecase.ImportReceiptText(req.FullText, req.Confidence)
	if err != nil {
		if errors.Is(err, usecase.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	limit := 50
	offset := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	txs, err := h.transactionUsecase.List(
		c.Query("start_date"), c.Query("end_date"), c.Query("category_id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, txdto.TransactionsResponse{
		Transactions: txs,
		Limit:        limit,
		Offset:       offset,
	})
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	tx, err := h.transactionUsecase.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tx == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	if err := h.transactionUsecase.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

func (h *TransactionHandler) AssignCategory(c *gin.Context) {
	var req txdto.AssignCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.transactionUsecase.AssignCategory(c.Param("id"), req.CategoryID, req.CreateRule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category updated"})
}

func (h *TransactionHandler) MonthlySummary(c *gin.Context) {
	month := c.Query("month")
	if !monthRe.MatchString(month) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}

	rows, err := h.transactionUsecase.MonthlySummary(month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var total int64
	for _, row := range rows {
		total += row.TotalCents
	}
	c.JSON(http.StatusOK, txdto.SummaryResponse{
		Month:      month,
		TotalCents: total,
		Categories: rows,
	})
}

func (h *TransactionHandler) ListCategories(c *gin.Context) {
	categories, err := h.transactionUsecase.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *TransactionHandler) CreateCategory(c *gin.Context) {
	var req txdto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.transactionUsecase.CreateCategory(req.Name, req.Color)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *TransactionHandler) UpdateCategory(c *gin.Context) {
	var req txdto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.transactionUsecase.UpdateCategory(c.Param("id"), req.Name, req.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *TransactionHandler) DeleteCategory(c *gin.Context) {
	if err := h.transactionUsecase.DeleteCategory(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

func (h *TransactionHandler) ListBudgets(c *gin.Context) {
	budgets, err := h.transactionUsecase.ListBudgets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// SetBudget upserts: one budget exists per category and period, so
// repeating the call replaces the amount.
func (h *TransactionHandler) SetBudget(c *gin.Context) {
	var req txdto.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	budget, err := h.transactionUsecase.SetBudget(req.CategoryID, req.AmountCents, req.Period)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *TransactionHandler) DeleteBudget(c *gin.Context) {
	if err := h.transactionUsecase.DeleteBudget(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "budget deleted"})
}

func (h *TransactionHandler) ListRules(c *gin.Context) {
	rules, err := h.transactionUsecase.ListRules()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *TransactionHandler) CreateRule(c *gin.Context) {
	var req txdto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule, err := h.transactionUsecase.CreateRule(req.MerchantPattern, req.CategoryID, req.IsExactMatch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *TransactionHandler) DeleteRule(c *gin.Context) {
	if err := h.transactionUsecase.DeleteRule(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}
