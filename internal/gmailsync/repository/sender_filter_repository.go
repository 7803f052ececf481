package repository

import (
	"time"

	"emailbudget-backend/internal/gmailsync/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// senderFilterRepository implements SenderFilterRepository interface
type senderFilterRepository struct {
	db *gorm.DB
}

// NewSenderFilterRepository creates a new instance of senderFilterRepository
func NewSenderFilterRepository(db *gorm.DB) SenderFilterRepository {
	return &senderFilterRepository{
		db: db,
	}
}

func (r *senderFilterRepository) List(userID string) ([]domain.SenderFilter, error) {
	var filters []domain.SenderFilter
	err := r.db.Where("user_id = ?", userID).Order("email_address ASC").Find(&filters).Error
	return filters, err
}

func (r *senderFilterRepository) EnabledAddresses(userID string) ([]string, error) {
	var addresses []string
	err := r.db.Model(&domain.SenderFilter{}).
		Where("user_id = ? AND enabled = ?", userID, true).
		Pluck("email_address", &addresses).Error
	return addresses, err
}

func (r *senderFilterRepository) Create(filter *domain.SenderFilter) error {
	if filter.ID == "" {
		filter.ID = uuid.New().String()
	}
	filter.CreatedAt = time.Now()
	return r.db.Create(filter).Error
}

func (r *senderFilterRepository) SetEnabled(userID, id string, enabled bool) error {
	return r.db.Model(&domain.SenderFilter{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("enabled", enabled).Error
}

func (r *senderFilterRepository) Delete(userID, id string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&domain.SenderFilter{}).Error
}

// SeedDefaults inserts the built-in sender filters that aren't present
// yet. Safe to call on every startup.
func (r *senderFilterRepository) SeedDefaults(userID string) error {
	for _, def := range domain.DefaultSenderFilters {
		var count int64
		if err := r.db.Model(&domain.SenderFilter{}).
			Where("user_id = ? AND email_address = ?", userID, def.EmailAddress).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		filter := def
		filter.UserID = userID
		if err := r.Create(&filter); err != nil {
			return err
		}
	}
	return nil
}
