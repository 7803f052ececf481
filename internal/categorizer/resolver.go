package categorizer

import (
	"log"
	"strings"

	"emailbudget-backend/internal/transaction/domain"
	"emailbudget-backend/internal/transaction/repository"
)

// Resolver assigns a category to a transaction through a short-circuit
// priority chain:
//  1. Exact user rule for the normalized merchant.
//  2. Pattern user rule, longest pattern winning.
//  3. Category of the most recent prior transaction for the merchant.
//  4. Built-in merchant pattern table.
//  5. Built-in provider default.
//  6. The reserved Uncategorized category.
//
// Each step runs only when every step above it produced nothing.
type Resolver struct {
	rules        repository.MerchantRuleRepository
	transactions repository.TransactionRepository
	categories   repository.CategoryRepository
}

// NewResolver creates a new Resolver.
func NewResolver(
	rules repository.MerchantRuleRepository,
	transactions repository.TransactionRepository,
	categories repository.CategoryRepository,
) *Resolver {
	return &Resolver{
		rules:        rules,
		transactions: transactions,
		categories:   categories,
	}
}

// Resolve returns the category id for a merchant/provider pair, or nil when
// even the Uncategorized fallback is missing.
func (c *Resolver) Resolve(userID, merchantNormalized, provider string) (*string, error) {
	rule, err := c.rules.FindExact(userID, merchantNormalized)
	if err != nil {
		return nil, err
	}
	if rule != nil {
		log.Printf("[Categorizer] %q categorized by exact rule", merchantNormalized)
		return &rule.CategoryID, nil
	}

	rule, err = c.rules.FindLongestPattern(userID, merchantNormalized)
	if err != nil {
		return nil, err
	}
	if rule != nil {
		log.Printf("[Categorizer] %q categorized by pattern rule %q", merchantNormalized, rule.MerchantPattern)
		return &rule.CategoryID, nil
	}

	prior, err := c.transactions.LatestCategoryForMerchant(userID, merchantNormalized)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		log.Printf("[Categorizer] %q categorized from prior transaction", merchantNormalized)
		return prior, nil
	}

	if name, ok := defaultMerchantCategory(merchantNormalized); ok {
		id, err := c.categoryIDByName(userID, name)
		if err != nil {
			return nil, err
		}
		if id != nil {
			log.Printf("[Categorizer] %q categorized by built-in pattern as %s", merchantNormalized, name)
			return id, nil
		}
	}

	if name, ok := defaultProviderCategory(provider); ok {
		id, err := c.categoryIDByName(userID, name)
		if err != nil {
			return nil, err
		}
		if id != nil {
			log.Printf("[Categorizer] %q categorized by provider %s as %s", merchantNormalized, provider, name)
			return id, nil
		}
	}

	return c.categoryIDByName(userID, domain.UncategorizedName)
}

// LearnFromAssignment records an exact rule when a user manually assigns a
// category, so future transactions for the merchant resolve at step 1.
func (c *Resolver) LearnFromAssignment(userID, merchantNormalized, categoryID string, createRule bool) error {
	if !createRule {
		return nil
	}
	return c.rules.Upsert(&domain.MerchantCategoryRule{
		UserID:          userID,
		MerchantPattern: merchantNormalized,
		CategoryID:      categoryID,
		IsExactMatch:    true,
	})
}

func (c *Resolver) categoryIDByName(userID, name string) (*string, error) {
	category, err := c.categories.FindByName(userID, name)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}
	return &category.ID, nil
}

func containsPattern(merchantNormalized, pattern string) bool {
	return strings.Contains(merchantNormalized, pattern)
}
