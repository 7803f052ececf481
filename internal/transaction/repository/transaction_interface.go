package repository

import (
	"emailbudget-backend/internal/transaction/domain"
)

// TransactionRepository defines the interface for transaction storage operations
type TransactionRepository interface {
	Create(tx *domain.Transaction) error
	ExistsBySourceHash(userID, sourceHash string) (bool, error)
	FindByID(userID, id string) (*domain.Transaction, error)
	List(userID string, startDate, endDate string, categoryID string, limit, offset int) ([]domain.Transaction, error)
	UpdateCategory(userID, id string, categoryID *string) error
	Delete(userID, id string) error
	LatestCategoryForMerchant(userID, merchantNormalized string) (*string, error)
	MonthlySummary(userID, month string) ([]domain.CategorySummary, error)
	SumForCategory(userID, categoryID, startDate, endDate string) (int64, error)
}

// CategoryRepository defines the interface for category operations
type CategoryRepository interface {
	Create(category *domain.Category) error
	FindByID(userID, id string) (*domain.Category, error)
	FindByName(userID, name string) (*domain.Category, error)
	List(userID string) ([]domain.Category, error)
	Update(category *domain.Category) error
	Delete(userID, id string) error
	SeedDefaults(userID string) error
}

// BudgetRepository defines the interface for budget storage operations
type BudgetRepository interface {
	Upsert(budget *domain.Budget) error
	FindByID(userID, id string) (*domain.Budget, error)
	List(userID string) ([]domain.Budget, error)
	Delete(userID, id string) error
}

// MerchantRuleRepository defines the interface for merchant category rules
type MerchantRuleRepository interface {
	FindExact(userID, merchantNormalized string) (*domain.MerchantCategoryRule, error)
	FindLongestPattern(userID, merchantNormalized string) (*domain.MerchantCategoryRule, error)
	Upsert(rule *domain.MerchantCategoryRule) error
	List(userID string) ([]domain.MerchantCategoryRule, error)
	Delete(userID, id string) error
}
