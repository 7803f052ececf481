package dto

import "emailbudget-backend/internal/transaction/domain"

// ImportReceiptTextRequest carries OCR output from an external recognizer.
type ImportReceiptTextRequest struct {
	FullText   string  `json:"full_text" binding:"required"`
	Confidence float64 `json:"confidence"`
}

type TransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

type AssignCategoryRequest struct {
	CategoryID *string `json:"category_id"`
	CreateRule bool    `json:"create_rule"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type UpdateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CreateRuleRequest struct {
	MerchantPattern string `json:"merchant_pattern" binding:"required"`
	CategoryID      string `json:"category_id" binding:"required"`
	IsExactMatch    bool   `json:"is_exact_match"`
}

// SetBudgetRequest creates or replaces the budget for a category. Period
// must be weekly, monthly, or yearly.
type SetBudgetRequest struct {
	CategoryID  string `json:"category_id" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required"`
	Period      string `json:"period" binding:"required"`
}

type SummaryResponse struct {
	Month      string                   `json:"month"`
	TotalCents int64                    `json:"total_cents"`
	Categories []domain.CategorySummary `json:"categories"`
}
