package domain

import "time"

// LocalUserID identifies the single local user this deployment serves.
// Multi-user support is out of scope; every row is keyed to it so the
// schema would survive growing one later.
const LocalUserID = "local"

// Transaction is a stored, categorized financial transaction. SourceHash
// is the sole deduplication key across both ingestion paths (mail sync
// and manual OCR import).
type Transaction struct {
	ID                 string            `json:"id" gorm:"primaryKey"`
	UserID             string            `json:"user_id" gorm:"index;not null"`
	CategoryID         *string           `json:"category_id" gorm:"index"`
	Merchant           string            `json:"merchant" gorm:"not null"`
	MerchantNormalized string            `json:"merchant_normalized" gorm:"index;not null"`
	AmountCents        int64             `json:"amount_cents" gorm:"not null"`
	TransactionDate    string            `json:"transaction_date" gorm:"index;not null"` // YYYY-MM-DD
	Provider           string            `json:"provider" gorm:"not null"`
	SourceHash         string            `json:"source_hash" gorm:"uniqueIndex;not null"`
	Confidence         float64           `json:"confidence"`
	RawText            string            `json:"raw_text,omitempty"`
	Items              []TransactionItem `json:"items" gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// TransactionItem is a line item owned by its transaction; it has no
// lifecycle of its own.
type TransactionItem struct {
	ID              string `json:"id" gorm:"primaryKey"`
	TransactionID   string `json:"transaction_id" gorm:"index;not null"`
	Name            string `json:"name" gorm:"not null"`
	Quantity        int    `json:"quantity" gorm:"not null"`
	UnitPriceCents  int64  `json:"unit_price_cents" gorm:"not null"`
	TotalPriceCents int64  `json:"total_price_cents" gorm:"not null"`
}

type Category struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// UncategorizedName is the reserved final-fallback category.
const UncategorizedName = "Uncategorized"

// DefaultCategories seeds a fresh database. Uncategorized must exist for
// the resolver's final fallback to land anywhere.
var DefaultCategories = []string{
	"Food & Dining",
	"Food Delivery",
	"Rideshare",
	"Shopping",
	"Subscriptions",
	"Entertainment",
	"Utilities",
	"Transportation",
	"Healthcare",
	"Personal Care",
	"Travel",
	"Education",
	"Peer Payment",
	UncategorizedName,
}

// MerchantCategoryRule maps a merchant pattern to a category. At most one
// exact rule exists per (user, pattern); pattern rules match by substring,
// longest pattern first.
type MerchantCategoryRule struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	UserID          string    `json:"user_id" gorm:"index;not null"`
	MerchantPattern string    `json:"merchant_pattern" gorm:"index;not null"`
	CategoryID      string    `json:"category_id" gorm:"not null"`
	IsExactMatch    bool      `json:"is_exact_match"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CategorySummary is one aggregate row for the dashboard summary.
type CategorySummary struct {
	CategoryID   *string `json:"category_id"`
	CategoryName string  `json:"category_name"`
	TotalCents   int64   `json:"total_cents"`
	Count        int64   `json:"count"`
}
