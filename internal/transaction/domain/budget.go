package domain

import "time"

// Budget period identifiers. The window is derived from the current date,
// not from StartDate: weekly runs Monday through Sunday, monthly and
// yearly follow the calendar.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// ValidBudgetPeriod reports whether p names a supported budget period.
func ValidBudgetPeriod(p string) bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Budget caps spending for one category over a recurring period. At most
// one budget exists per (user, category, period); setting it again
// replaces the amount.
type Budget struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"uniqueIndex:idx_budget_scope;not null"`
	CategoryID  string    `json:"category_id" gorm:"uniqueIndex:idx_budget_scope;not null"`
	AmountCents int64     `json:"amount_cents" gorm:"not null"`
	Period      string    `json:"period" gorm:"uniqueIndex:idx_budget_scope;not null"`
	StartDate   string    `json:"start_date" gorm:"not null"` // YYYY-MM-DD
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BudgetProgress is a budget joined with spending over its current window.
type BudgetProgress struct {
	Budget
	CategoryName   string  `json:"category_name"`
	SpentCents     int64   `json:"spent_cents"`
	RemainingCents int64   `json:"remaining_cents"`
	Percentage     float64 `json:"percentage"`
	OverBudget     bool    `json:"over_budget"`
}
