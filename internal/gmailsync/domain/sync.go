package domain

import "time"

// LocalUserID identifies the single local user this deployment serves.
const LocalUserID = "local"

// SyncStatus is the externally observable state of the sync engine.
type SyncStatus string

const (
	StatusIdle         SyncStatus = "idle"
	StatusSyncing      SyncStatus = "syncing"
	StatusRateLimited  SyncStatus = "rate_limited"
	StatusAuthRequired SyncStatus = "auth_required"
	StatusError        SyncStatus = "error"
)

// SyncState holds the resumable cursor for incremental sync. The cursor is
// advanced only on success and cleared entirely when the provider reports
// it expired.
type SyncState struct {
	ID                  string     `json:"id" gorm:"primaryKey"`
	UserID              string     `json:"user_id" gorm:"uniqueIndex;not null"`
	HistoryID           *uint64    `json:"history_id"`
	InitialSyncComplete bool       `json:"initial_sync_complete"`
	LastSyncAt          *time.Time `json:"last_sync_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ProcessedMessage records a remote message id that has already been
// evaluated: imported, duplicate, or intentionally skipped. Membership is
// checked before any fetch so a message is never worked twice.
type ProcessedMessage struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index:idx_processed_user_msg,unique;not null"`
	MessageID string    `json:"message_id" gorm:"index:idx_processed_user_msg,unique;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// SenderFilter is an allow-list entry; only mail from enabled senders is
// considered for extraction.
type SenderFilter struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"index;not null"`
	EmailAddress string    `json:"email_address" gorm:"not null"`
	Description  string    `json:"description"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// DefaultSenderFilters seeds the senders the built-in extractors know how
// to parse.
var DefaultSenderFilters = []SenderFilter{
	{EmailAddress: "auto-confirm@amazon.com", Description: "Amazon order confirmations", Enabled: true},
	{EmailAddress: "no-reply@doordash.com", Description: "DoorDash receipts", Enabled: true},
	{EmailAddress: "uber.us@uber.com", Description: "Uber trip receipts", Enabled: true},
	{EmailAddress: "noreply@uber.com", Description: "Uber Eats receipts", Enabled: true},
	{EmailAddress: "venmo@venmo.com", Description: "Venmo payment notices", Enabled: true},
}

// TokenSet is the stored OAuth token material for the mail account.
type TokenSet struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex;not null"`
	AccessToken  string    `json:"-" gorm:"not null"`
	RefreshToken string    `json:"-" gorm:"not null"`
	ExpiresAt    time.Time `json:"expires_at"`
	AccountEmail string    `json:"account_email"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OAuthCredentials is the app's own client registration, configurable at
// runtime so users can bring their own client id.
type OAuthCredentials struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex;not null"`
	ClientID     string    `json:"client_id" gorm:"not null"`
	ClientSecret string    `json:"-"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SyncCycleResult is the aggregate outcome of one sync cycle, reported to
// callers instead of raw internal errors.
type SyncCycleResult struct {
	NewTransactions   int      `json:"new_transactions"`
	DuplicatesSkipped int      `json:"duplicates_skipped"`
	EmailsProcessed   int      `json:"emails_processed"`
	Errors            []string `json:"errors"`
}

// SyncStatusReport is the observable engine state plus poller liveness.
type SyncStatusReport struct {
	Status        SyncStatus `json:"status"`
	Detail        string     `json:"detail,omitempty"`
	PollerRunning bool       `json:"poller_running"`
	LastSyncAt    *time.Time `json:"last_sync_at"`
}
