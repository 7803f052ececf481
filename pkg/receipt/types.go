package receipt

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// Transaction is a normalized transaction recovered from raw receipt
// evidence (an HTML email body or OCR text from a photographed receipt).
// AmountCents is always >= 0; direction is carried by the provider and
// merchant label, not by sign.
type Transaction struct {
	Merchant        string  `json:"merchant"`
	AmountCents     int64   `json:"amount_cents"`
	TransactionDate string  `json:"transaction_date"` // YYYY-MM-DD
	Provider        string  `json:"provider"`
	Items           []Item  `json:"items"`
	RawText         string  `json:"raw_text,omitempty"`
	Confidence      float64 `json:"confidence"`
}

// Item is a single line item. Items have no identity of their own; they
// live and die with their parent transaction.
type Item struct {
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
	UnitPriceCents  int64  `json:"unit_price_cents"`
	TotalPriceCents int64  `json:"total_price_cents"`
}

func NewTransaction(merchant string, amountCents int64, transactionDate, provider string) *Transaction {
	return &Transaction{
		Merchant:        merchant,
		AmountCents:     amountCents,
		TransactionDate: transactionDate,
		Provider:        provider,
		Confidence:      1.0,
	}
}

func NewItem(name string, quantity int, unitPriceCents int64) Item {
	return Item{
		Name:            name,
		Quantity:        quantity,
		UnitPriceCents:  unitPriceCents,
		TotalPriceCents: int64(quantity) * unitPriceCents,
	}
}

// SourceHash is the deduplication key: a sha256 over the lower-cased
// trimmed merchant, amount and date. Items, provider and confidence are
// deliberately excluded so that a photo import and a later email receipt
// for the same purchase collide here.
func (t *Transaction) SourceHash() string {
	normalized := strings.TrimSpace(strings.ToLower(t.Merchant))
	input := fmt.Sprintf("%s|%d|%s", normalized, t.AmountCents, t.TransactionDate)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// MerchantNormalized returns the canonical merchant key used for category
// rules and history lookups.
func (t *Transaction) MerchantNormalized() string {
	return NormalizeMerchant(t.Merchant)
}

// NormalizeMerchant lower-cases, strips non-alphanumeric characters and
// collapses whitespace. Idempotent.
func NormalizeMerchant(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
