package repository

import (
	"errors"
	"time"

	"emailbudget-backend/internal/gmailsync/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation is the SQLSTATE postgres reports for unique-index
// conflicts.
const uniqueViolation = "23505"

// isDuplicateKey reports whether err is a unique-constraint conflict. The
// connection is opened with TranslateError, so gorm.ErrDuplicatedKey is the
// usual shape; the raw driver error is matched as well for paths gorm does
// not translate.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// processedMessageRepository implements ProcessedMessageRepository interface
type processedMessageRepository struct {
	db *gorm.DB
}

// NewProcessedMessageRepository creates a new instance of processedMessageRepository
func NewProcessedMessageRepository(db *gorm.DB) ProcessedMessageRepository {
	return &processedMessageRepository{
		db: db,
	}
}

func (r *processedMessageRepository) Contains(userID, messageID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.ProcessedMessage{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	return count > 0, err
}

// Add is idempotent; a concurrent manual and background cycle may both mark
// the same message.
func (r *processedMessageRepository) Add(userID, messageID string) error {
	err := r.db.Create(&domain.ProcessedMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		MessageID: messageID,
		CreatedAt: time.Now(),
	}).Error
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

func (r *processedMessageRepository) Clear(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.ProcessedMessage{}).Error
}
