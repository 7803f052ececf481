package usecase

import (
	"errors"
	"fmt"
	"log"
	"time"

	"emailbudget-backend/internal/transaction/domain"
)

const dateLayout = "2006-01-02"

// periodRange returns the inclusive YYYY-MM-DD window a budget period
// covers around now. Weekly runs Monday through Sunday; monthly and yearly
// follow the calendar.
func periodRange(period string, now time.Time) (string, string) {
	switch period {
	case domain.PeriodWeekly:
		start := now.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
		return start.Format(dateLayout), start.AddDate(0, 0, 6).Format(dateLayout)
	case domain.PeriodYearly:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return start.Format(dateLayout), time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location()).Format(dateLayout)
	default: // monthly
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start.Format(dateLayout), start.AddDate(0, 1, -1).Format(dateLayout)
	}
}

// ListBudgets returns every budget joined with spending over its current
// window. Budgets whose category has disappeared are skipped.
func (u *transactionUsecase) ListBudgets() ([]domain.BudgetProgress, error) {
	budgets, err := u.budgets.List(domain.LocalUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	progress := make([]domain.BudgetProgress, 0, len(budgets))
	for _, budget := range budgets {
		category, err := u.categories.FindByID(domain.LocalUserID, budget.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			continue
		}

		start, end := periodRange(budget.Period, now)
		spent, err := u.transactions.SumForCategory(domain.LocalUserID, budget.CategoryID, start, end)
		if err != nil {
			return nil, err
		}

		var percentage float64
		if budget.AmountCents > 0 {
			percentage = float64(spent) / float64(budget.AmountCents)
		}
		progress = append(progress, domain.BudgetProgress{
			Budget:         budget,
			CategoryName:   category.Name,
			SpentCents:     spent,
			RemainingCents: budget.AmountCents - spent,
			Percentage:     percentage,
			OverBudget:     spent > budget.AmountCents,
		})
	}
	return progress, nil
}

// SetBudget creates or replaces the budget for a category and period.
func (u *transactionUsecase) SetBudget(categoryID string, amountCents int64, period string) (*domain.Budget, error) {
	if !domain.ValidBudgetPeriod(period) {
		return nil, fmt.Errorf("invalid budget period %q: must be weekly, monthly, or yearly", period)
	}
	if amountCents <= 0 {
		return nil, errors.New("budget amount must be positive")
	}

	category, err := u.categories.FindByID(domain.LocalUserID, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category not found")
	}

	budget := &domain.Budget{
		UserID:      domain.LocalUserID,
		CategoryID:  categoryID,
		AmountCents: amountCents,
		Period:      period,
		StartDate:   time.Now().Format(dateLayout),
	}
	if err := u.budgets.Upsert(budget); err != nil {
		return nil, err
	}
	log.Printf("[Budget] set %s budget of %d cents for %s", period, amountCents, category.Name)
	return budget, nil
}

func (u *transactionUsecase) DeleteBudget(id string) error {
	return u.budgets.Delete(domain.LocalUserID, id)
}
