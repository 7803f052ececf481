package repository

import (
	"errors"
	"time"

	"emailbudget-backend/internal/transaction/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// categoryRepository implements CategoryRepository interface
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new instance of categoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

func (r *categoryRepository) Create(category *domain.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	category.CreatedAt = time.Now()
	return r.db.Create(category).Error
}

func (r *categoryRepository) FindByID(userID, id string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(userID, name string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.Where("user_id = ? AND name = ?", userID, name).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(userID string) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(category *domain.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) Delete(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Orphaned transactions fall back to Uncategorized at read time.
		if err := tx.Model(&domain.Transaction{}).
			Where("user_id = ? AND category_id = ?", userID, id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND category_id = ?", userID, id).
			Delete(&domain.MerchantCategoryRule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND category_id = ?", userID, id).
			Delete(&domain.Budget{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND id = ?", userID, id).Delete(&domain.Category{}).Error
	})
}

// SeedDefaults inserts the built-in categories that don't exist yet. Safe
// to call on every startup.
func (r *categoryRepository) SeedDefaults(userID string) error {
	for _, name := range domain.DefaultCategories {
		existing, err := r.FindByName(userID, name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := r.Create(&domain.Category{
			UserID:    userID,
			Name:      name,
			IsDefault: true,
		}); err != nil {
			return err
		}
	}
	return nil
}
