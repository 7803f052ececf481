package repository

import (
	"errors"
	"time"

	"emailbudget-backend/internal/transaction/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// transactionRepository implements TransactionRepository interface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new instance of transactionRepository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

func (r *transactionRepository) Create(tx *domain.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = time.Now()
	for i := range tx.Items {
		if tx.Items[i].ID == "" {
			tx.Items[i].ID = uuid.New().String()
		}
		tx.Items[i].TransactionID = tx.ID
	}
	return r.db.Create(tx).Error
}

func (r *transactionRepository) ExistsBySourceHash(userID, sourceHash string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Transaction{}).
		Where("user_id = ? AND source_hash = ?", userID, sourceHash).
		Count(&count).Error
	return count > 0, err
}

func (r *transactionRepository) FindByID(userID, id string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := r.db.Preload("Items").Where("user_id = ? AND id = ?", userID, id).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) List(userID string, startDate, endDate string, categoryID string, limit, offset int) ([]domain.Transaction, error) {
	query := r.db.Preload("Items").Where("user_id = ?", userID)
	if startDate != "" {
		query = query.Where("transaction_date >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("transaction_date <= ?", endDate)
	}
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var txs []domain.Transaction
	err := query.Order("transaction_date DESC, created_at DESC").Find(&txs).Error
	return txs, err
}

func (r *transactionRepository) UpdateCategory(userID, id string, categoryID *string) error {
	return r.db.Model(&domain.Transaction{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(map[string]interface{}{
			"category_id": categoryID,
			"updated_at":  time.Now(),
		}).Error
}

func (r *transactionRepository) Delete(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", id).Delete(&domain.TransactionItem{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND id = ?", userID, id).Delete(&domain.Transaction{}).Error
	})
}

// LatestCategoryForMerchant returns the category of the most recent prior
// transaction for a merchant. Ties on transaction_date break by created_at.
func (r *transactionRepository) LatestCategoryForMerchant(userID, merchantNormalized string) (*string, error) {
	var tx domain.Transaction
	err := r.db.Where("user_id = ? AND merchant_normalized = ? AND category_id IS NOT NULL", userID, merchantNormalized).
		Order("transaction_date DESC, created_at DESC").
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tx.CategoryID, nil
}

func (r *transactionRepository) MonthlySummary(userID, month string) ([]domain.CategorySummary, error) {
	var rows []domain.CategorySummary
	err := r.db.Model(&domain.Transaction{}).
		Select("transactions.category_id AS category_id, COALESCE(categories.name, ?) AS category_name, SUM(transactions.amount_cents) AS total_cents, COUNT(*) AS count", domain.UncategorizedName).
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.transaction_date LIKE ?", userID, month+"%").
		Group("transactions.category_id, categories.name").
		Order("total_cents DESC").
		Scan(&rows).Error
	return rows, err
}

// SumForCategory totals spending in a category over an inclusive date
// window, for budget progress.
func (r *transactionRepository) SumForCategory(userID, categoryID, startDate, endDate string) (int64, error) {
	var total int64
	err := r.db.Model(&domain.Transaction{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("user_id = ? AND category_id = ? AND transaction_date >= ? AND transaction_date <= ?",
			userID, categoryID, startDate, endDate).
		Scan(&total).Error
	return total, err
}
