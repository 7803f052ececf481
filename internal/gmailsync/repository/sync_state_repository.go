package repository

import (
	"errors"
	"time"

	"emailbudget-backend/internal/gmailsync/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// syncStateRepository implements SyncStateRepository interface
type syncStateRepository struct {
	db *gorm.DB
}

// NewSyncStateRepository creates a new instance of syncStateRepository
func NewSyncStateRepository(db *gorm.DB) SyncStateRepository {
	return &syncStateRepository{
		db: db,
	}
}

func (r *syncStateRepository) Get(userID string) (*domain.SyncState, error) {
	var state domain.SyncState
	err := r.db.Where("user_id = ?", userID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *syncStateRepository) SaveCursor(userID string, historyID uint64, initialComplete bool) error {
	state, err := r.Get(userID)
	if err != nil {
		return err
	}
	if state == nil {
		state = &domain.SyncState{
			ID:     uuid.New().String(),
			UserID: userID,
		}
	}
	state.HistoryID = &historyID
	state.InitialSyncComplete = initialComplete
	state.UpdatedAt = time.Now()
	return r.db.Save(state).Error
}

func (r *syncStateRepository) TouchLastSync(userID string, at time.Time) error {
	state, err := r.Get(userID)
	if err != nil {
		return err
	}
	if state == nil {
		state = &domain.SyncState{
			ID:     uuid.New().String(),
			UserID: userID,
		}
	}
	state.LastSyncAt = &at
	state.UpdatedAt = time.Now()
	return r.db.Save(state).Error
}

// Reset clears all cursor state; the next cycle runs in initial mode.
func (r *syncStateRepository) Reset(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.SyncState{}).Error
}
