package repository

import (
	"time"

	"emailbudget-backend/internal/gmailsync/domain"
)

// SyncStateRepository defines the interface for sync cursor storage
type SyncStateRepository interface {
	Get(userID string) (*domain.SyncState, error)
	SaveCursor(userID string, historyID uint64, initialComplete bool) error
	TouchLastSync(userID string, at time.Time) error
	Reset(userID string) error
}

// ProcessedMessageRepository defines the interface for the processed-message set
type ProcessedMessageRepository interface {
	Contains(userID, messageID string) (bool, error)
	Add(userID, messageID string) error
	Clear(userID string) error
}

// SenderFilterRepository defines the interface for sender allow-list operations
type SenderFilterRepository interface {
	List(userID string) ([]domain.SenderFilter, error)
	EnabledAddresses(userID string) ([]string, error)
	Create(filter *domain.SenderFilter) error
	SetEnabled(userID, id string, enabled bool) error
	Delete(userID, id string) error
	SeedDefaults(userID string) error
}

// TokenRepository defines the interface for OAuth token storage
type TokenRepository interface {
	Get(userID string) (*domain.TokenSet, error)
	Save(token *domain.TokenSet) error
	UpdateAccess(userID, accessToken string, expiresAt time.Time) error
	Delete(userID string) error
}

// CredentialsRepository defines the interface for OAuth client credential storage
type CredentialsRepository interface {
	Get(userID string) (*domain.OAuthCredentials, error)
	Save(creds *domain.OAuthCredentials) error
	Delete(userID string) error
}
