package usecase

import (
	"errors"
	"fmt"
	"log"

	"emailbudget-backend/internal/categorizer"
	"emailbudget-backend/internal/transaction/domain"
	"emailbudget-backend/internal/transaction/repository"
	"emailbudget-backend/pkg/receipt"
)

// ErrDuplicate is returned when an imported receipt fingerprints to an
// already stored transaction.
var ErrDuplicate = errors.New("transaction already imported")

// TransactionUsecase defines the transaction-facing operations
type TransactionUsecase interface {
	ImportReceiptText(fullText string, confidence float64) (*domain.Transaction, error)
	List(startDate, endDate, categoryID string, limit, offset int) ([]domain.Transaction, error)
	Get(id string) (*domain.Transaction, error)
	Delete(id string) error
	AssignCategory(id string, categoryID *string, createRule bool) error
	MonthlySummary(month string) ([]domain.CategorySummary, error)

	ListCategories() ([]domain.Category, error)
	CreateCategory(name, color string) (*domain.Category, error)
	UpdateCategory(id, name, color string) (*domain.Category, error)
	DeleteCategory(id string) error

	ListRules() ([]domain.MerchantCategoryRule, error)
	CreateRule(merchantPattern, categoryID string, isExactMatch bool) (*domain.MerchantCategoryRule, error)
	DeleteRule(id string) error

	ListBudgets() ([]domain.BudgetProgress, error)
	SetBudget(categoryID string, amountCents int64, period string) (*domain.Budget, error)
	DeleteBudget(id string) error
}

// transactionUsecase implements TransactionUsecase interface
type transactionUsecase struct {
	transactions repository.TransactionRepository
	categories   repository.CategoryRepository
	rules        repository.MerchantRuleRepository
	budgets      repository.BudgetRepository
	resolver     *categorizer.Resolver
}

// NewTransactionUsecase creates a new instance of transactionUsecase
func NewTransactionUsecase(
	transactions repository.TransactionRepository,
	categories repository.CategoryRepository,
	rules repository.MerchantRuleRepository,
	budgets repository.BudgetRepository,
	resolver *categorizer.Resolver,
) TransactionUsecase {
	return &transactionUsecase{
		transactions: transactions,
		categories:   categories,
		rules:        rules,
		budgets:      budgets,
		resolver:     resolver,
	}
}

// ImportReceiptText runs the OCR ingestion path: parse, dedupe, categorize,
// insert. It enters the same pipeline mail sync uses, just without the
// mail-specific steps.
func (u *transactionUsecase) ImportReceiptText(fullText string, confidence float64) (*domain.Transaction, error) {
	extracted, err := receipt.ParseReceiptText(receipt.NewOCRResult(fullText, confidence))
	if err != nil {
		return nil, err
	}

	hash := extracted.SourceHash()
	exists, err := u.transactions.ExistsBySourceHash(domain.LocalUserID, hash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s %d on %s", ErrDuplicate,
			extracted.Merchant, extracted.AmountCents, extracted.TransactionDate)
	}

	merchantNormalized := extracted.MerchantNormalized()
	categoryID, err := u.resolver.Resolve(domain.LocalUserID, merchantNormalized, extracted.Provider)
	if err != nil {
		return nil, err
	}

	stored := &domain.Transaction{
		UserID:             domain.LocalUserID,
		CategoryID:         categoryID,
		Merchant:           extracted.Merchant,
		MerchantNormalized: merchantNormalized,
		AmountCents:        extracted.AmountCents,
		TransactionDate:    extracted.TransactionDate,
		Provider:           extracted.Provider,
		SourceHash:         hash,
		Confidence:         extracted.Confidence,
		RawText:            extracted.RawText,
	}
	for _, item := range extracted.Items {
		stored.Items = append(stored.Items, domain.TransactionItem{
			Name:            item.Name,
			Quantity:        item.Quantity,
			UnitPriceCents:  item.UnitPriceCents,
			TotalPriceCents: item.TotalPriceCents,
		})
	}

	if err := u.transactions.Create(stored); err != nil {
		return nil, err
	}
	log.Printf("[Transaction] imported %s (%d cents) from receipt photo", stored.Merchant, stored.AmountCents)
	return stored, nil
}

func (u *transactionUsecase) List(startDate, endDate, categoryID string, limit, offset int) ([]domain.Transaction, error) {
	return u.transactions.List(domain.LocalUserID, startDate, endDate, categoryID, limit, offset)
}

func (u *transactionUsecase) Get(id string) (*domain.Transaction, error) {
	return u.transactions.FindByID(domain.LocalUserID, id)
}

func (u *transactionUsecase) Delete(id string) error {
	return u.transactions.Delete(domain.LocalUserID, id)
}

// AssignCategory sets a transaction's category and optionally records an
// exact rule so the merchant resolves the same way next time.
func (u *transactionUsecase) AssignCategory(id string, categoryID *string, createRule bool) error {
	tx, err := u.transactions.FindByID(domain.LocalUserID, id)
	if err != nil {
		return err
	}
	if tx == nil {
		return errors.New("transaction not found")
	}

	if err := u.transactions.UpdateCategory(domain.LocalUserID, id, categoryID); err != nil {
		return err
	}

	if categoryID != nil {
		return u.resolver.LearnFromAssignment(domain.LocalUserID, tx.MerchantNormalized, *categoryID, createRule)
	}
	return nil
}

func (u *transactionUsecase) MonthlySummary(month string) ([]domain.CategorySummary, error) {
	return u.transactions.MonthlySummary(domain.LocalUserID, month)
}

func (u *transactionUsecase) ListCategories() ([]domain.Category, error) {
	return u.categories.List(domain.LocalUserID)
}

func (u *transactionUsecase) CreateCategory(name, color string) (*domain.Category, error) {
	existing, err := u.categories.FindByName(domain.LocalUserID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("category %q already exists", name)
	}

	category := &domain.Category{
		UserID: domain.LocalUserID,
		Name:   name,
		Color:  color,
	}
	if err := u.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (u *transactionUsecase) UpdateCategory(id, name, color string) (*domain.Category, error) {
	category, err := u.categories.FindByID(domain.LocalUserID, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category not found")
	}
	if category.Name == domain.UncategorizedName && name != "" && name != domain.UncategorizedName {
		return nil, errors.New("the Uncategorized category cannot be renamed")
	}

	if name != "" {
		category.Name = name
	}
	if color != "" {
		category.Color = color
	}
	if err := u.categories.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (u *transactionUsecase) DeleteCategory(id string) error {
	category, err := u.categories.FindByID(domain.LocalUserID, id)
	if err != nil {
		return err
	}
	if category == nil {
		return errors.New("category not found")
	}
	if category.Name == domain.UncategorizedName {
		return errors.New("the Uncategorized category cannot be deleted")
	}
	return u.categories.Delete(domain.LocalUserID, id)
}

func (u *transactionUsecase) ListRules() ([]domain.MerchantCategoryRule, error) {
	return u.rules.List(domain.LocalUserID)
}

// CreateRule stores a user rule. Patterns are matched against normalized
// merchants, so the pattern itself is normalized first.
func (u *transactionUsecase) CreateRule(merchantPattern, categoryID string, isExactMatch bool) (*domain.MerchantCategoryRule, error) {
	pattern := receipt.NormalizeMerchant(merchantPattern)
	if pattern == "" {
		return nil, errors.New("merchant pattern is empty after normalization")
	}

	category, err := u.categories.FindByID(domain.LocalUserID, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category not found")
	}

	rule := &domain.MerchantCategoryRule{
		UserID:          domain.LocalUserID,
		MerchantPattern: pattern,
		CategoryID:      categoryID,
		IsExactMatch:    isExactMatch,
	}
	if err := u.rules.Upsert(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (u *transactionUsecase) DeleteRule(id string) error {
	return u.rules.Delete(domain.LocalUserID, id)
}
