package repository

import (
	"errors"
	"time"

	"emailbudget-backend/internal/transaction/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// merchantRuleRepository implements MerchantRuleRepository interface
type merchantRuleRepository struct {
	db *gorm.DB
}

// NewMerchantRuleRepository creates a new instance of merchantRuleRepository
func NewMerchantRuleRepository(db *gorm.DB) MerchantRuleRepository {
	return &merchantRuleRepository{
		db: db,
	}
}

func (r *merchantRuleRepository) FindExact(userID, merchantNormalized string) (*domain.MerchantCategoryRule, error) {
	var rule domain.MerchantCategoryRule
	err := r.db.Where("user_id = ? AND merchant_pattern = ? AND is_exact_match = ?", userID, merchantNormalized, true).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// FindLongestPattern returns the pattern rule whose pattern is contained in
// the normalized merchant, preferring the longest pattern when several
// match.
func (r *merchantRuleRepository) FindLongestPattern(userID, merchantNormalized string) (*domain.MerchantCategoryRule, error) {
	var rule domain.MerchantCategoryRule
	err := r.db.Where("user_id = ? AND is_exact_match = ? AND ? LIKE '%' || merchant_pattern || '%'",
		userID, false, merchantNormalized).
		Order("LENGTH(merchant_pattern) DESC, created_at DESC").
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// Upsert replaces any existing rule with the same pattern and match kind,
// keeping at most one exact rule per pattern.
func (r *merchantRuleRepository) Upsert(rule *domain.MerchantCategoryRule) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing domain.MerchantCategoryRule
		err := tx.Where("user_id = ? AND merchant_pattern = ? AND is_exact_match = ?",
			rule.UserID, rule.MerchantPattern, rule.IsExactMatch).
			First(&existing).Error
		if err == nil {
			existing.CategoryID = rule.CategoryID
			existing.UpdatedAt = time.Now()
			*rule = existing
			return tx.Save(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if rule.ID == "" {
			rule.ID = uuid.New().String()
		}
		rule.CreatedAt = time.Now()
		rule.UpdatedAt = time.Now()
		return tx.Create(rule).Error
	})
}

func (r *merchantRuleRepository) List(userID string) ([]domain.MerchantCategoryRule, error) {
	var rules []domain.MerchantCategoryRule
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&rules).Error
	return rules, err
}

func (r *merchantRuleRepository) Delete(userID, id string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&domain.MerchantCategoryRule{}).Error
}
