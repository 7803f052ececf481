package receipt

import (
	"strings"
	"time"
)

const canonicalDateLayout = "2006-01-02"

// Absolute date layouts tried in order. Two-digit years go through Go's
// century inference ("23" -> 2023).
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"1-2-2006",
	"01-02-06",
	"2006-01-02",
}

// ParseDate converts a date string in any supported form into canonical
// YYYY-MM-DD.
func ParseDate(s string) (string, bool) {
	cleaned := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format(canonicalDateLayout), true
		}
	}
	return "", false
}

// Today returns the current local date in canonical form. Extractors fall
// back to it when no date is found; receipts arrive close to the purchase,
// so availability wins over accuracy here.
func Today() string {
	return time.Now().Format(canonicalDateLayout)
}
