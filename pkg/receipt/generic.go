package receipt

import (
	"regexp"
	"strings"
)

// genericExtractor is the catch-all fallback. It claims any input carrying
// common receipt vocabulary and must be ordered last in the engine.
type genericExtractor struct{}

func (genericExtractor) Provider() string { return "generic" }

func (genericExtractor) Matches(lower string) bool {
	for _, word := range []string{"total", "receipt", "order", "payment", "invoice"} {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

var genericMerchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:order from|receipt from|payment to)\s+([A-Za-z][A-Za-z0-9\s&'-]{1,50})`),
	regexp.MustCompile(`(?i)([A-Za-z][A-Za-z0-9\s&'-]{1,30})\s+(?:receipt|order|invoice)`),
}

var genericTotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:grand |order |)total[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)amount[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)you (?:paid|charged)[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)payment[:\s]*\$?\s*([\d,]+\.?\d*)`),
}

func (genericExtractor) Extract(in *Input) Outcome {
	text := in.Text()

	merchant := genericMerchant(in, text)
	if merchant == "" {
		return rejected("could not identify merchant")
	}

	// The total is the largest plausible candidate, since generic receipts
	// often list subtotal and tax before the figure we want.
	total, ok := largestAmount(genericTotalPatterns, []string{text, in.Raw}, 0, 1000000)
	if !ok {
		return rejected("could not extract amount")
	}

	date := findDate([]string{text, in.Raw})

	t := NewTransaction(merchant, total, date, "generic")
	t.Confidence = 0.5
	return recognized(t)
}

func genericMerchant(in *Input, text string) string {
	for _, re := range genericMerchantPatterns {
		if name, ok := findFirstGroup(re, []string{text}); ok && isValidMerchantName(name) {
			return name
		}
	}

	if title := firstElement(in.Doc(), "title"); title != nil {
		if name := merchantFromTitle(visibleText(title)); name != "" {
			return name
		}
	}

	if name := metaContent(in.Doc(), "og:site_name"); isValidMerchantName(name) {
		return name
	}

	return ""
}

func merchantFromTitle(title string) string {
	cleaned := title
	for _, suffix := range []string{"Receipt", "Order", "Confirmation", "Invoice"} {
		cleaned = strings.ReplaceAll(cleaned, suffix, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if isValidMerchantName(cleaned) {
		return cleaned
	}
	return ""
}

func isValidMerchantName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 || len(trimmed) > 50 {
		return false
	}
	hasLetter := false
	for _, r := range trimmed {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			hasLetter = true
			break
		}
	}
	lower := strings.ToLower(trimmed)
	return hasLetter && !strings.Contains(lower, "receipt") && !strings.Contains(lower, "order confirmation")
}
