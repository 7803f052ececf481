package repository

import (
	"errors"
	"time"

	"emailbudget-backend/internal/transaction/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// budgetRepository implements BudgetRepository interface
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new instance of budgetRepository
func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{
		db: db,
	}
}

// Upsert replaces the budget for the same (user, category, period) scope,
// keeping the original row identity, or creates a new one.
func (r *budgetRepository) Upsert(budget *domain.Budget) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing domain.Budget
		err := tx.Where("user_id = ? AND category_id = ? AND period = ?",
			budget.UserID, budget.CategoryID, budget.Period).
			First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err == nil {
			budget.ID = existing.ID
			budget.CreatedAt = existing.CreatedAt
			budget.UpdatedAt = time.Now()
			return tx.Save(budget).Error
		}

		if budget.ID == "" {
			budget.ID = uuid.New().String()
		}
		budget.CreatedAt = time.Now()
		budget.UpdatedAt = time.Now()
		return tx.Create(budget).Error
	})
}

func (r *budgetRepository) FindByID(userID, id string) (*domain.Budget, error) {
	var budget domain.Budget
	err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepository) List(userID string) ([]domain.Budget, error) {
	var budgets []domain.Budget
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&budgets).Error
	return budgets, err
}

func (r *budgetRepository) Delete(userID, id string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&domain.Budget{}).Error
}
