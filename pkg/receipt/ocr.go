package receipt

import (
	"errors"
	"regexp"
	"strings"
)

// OCRResult is the output of an external text recognizer run over a
// photographed receipt. The recognizer itself is out of scope; only its
// text and confidence arrive here.
type OCRResult struct {
	FullText   string   `json:"full_text"`
	Lines      []string `json:"lines"`
	Confidence float64  `json:"confidence"`
}

// NewOCRResult splits the recognized text into trimmed non-empty lines.
func NewOCRResult(fullText string, confidence float64) OCRResult {
	var lines []string
	for _, line := range strings.Split(fullText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return OCRResult{FullText: fullText, Lines: lines, Confidence: confidence}
}

// Lines that are never a merchant name: dates, phone numbers, street
// addresses, receipt boilerplate.
var ocrMerchantSkipRe = regexp.MustCompile(
	`(?i)^(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}|tel|phone|fax|\d{3}[.\-\s]\d{3}[.\-\s]\d{4}|\d+ [a-z]+ (st|ave|blvd|rd|dr|ln)|receipt|order|invoice|#\d)`)

var ocrTotalRe = regexp.MustCompile(`(?i)(?:grand\s*)?total[:\s]*\$?\s*(\d+[,.]?\d*\.?\d{0,2})`)
var ocrDollarRe = regexp.MustCompile(`\$\s*(\d+[,.]?\d*\.?\d{0,2})`)
var ocrFullYearRe = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](20\d{2})`)
var ocrShortYearRe = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{2})\b`)
var ocrItemRe = regexp.MustCompile(`^(.{3,40}?)\s+\$?\s*(\d+\.?\d{0,2})\s*$`)

// ParseReceiptText recovers a transaction from OCR text. The derived
// confidence is always scaled down from the recognizer's own score and
// clamped to [0.4, 0.8]: heuristics on top of noisy characters never
// deserve full trust.
func ParseReceiptText(ocr OCRResult) (*Transaction, error) {
	if len(ocr.Lines) == 0 {
		return nil, errors.New("no text detected in image")
	}

	amount, err := ocrTotalAmount(ocr.FullText, ocr.Lines)
	if err != nil {
		return nil, err
	}

	t := NewTransaction(ocrMerchant(ocr.Lines), amount, ocrDate(ocr.FullText), "receipt_photo")
	t.Items = ocrItems(ocr.Lines)
	t.RawText = ocr.FullText
	t.Confidence = clamp(ocr.Confidence*0.8, 0.4, 0.8)

	// Without a merchant line, the first item is the best hint we have.
	if t.Merchant == "Unknown Merchant" && len(t.Items) > 0 {
		t.Merchant = "Receipt (" + t.Items[0].Name + ")"
	}

	return t, nil
}

// ocrMerchant takes the first non-trivial early line that isn't a date,
// phone number, address or boilerplate.
func ocrMerchant(lines []string) string {
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= 2 && len(trimmed) <= 50 && !ocrMerchantSkipRe.MatchString(trimmed) {
			return trimmed
		}
	}
	return "Unknown Merchant"
}

// ocrTotalAmount scans bottom-up for a "total" line first; the total sits
// near the end of a printed receipt. Falls back to the largest dollar
// token anywhere in the text.
func ocrTotalAmount(text string, lines []string) (int64, error) {
	for i := len(lines) - 1; i >= 0; i-- {
		if m := ocrTotalRe.FindStringSubmatch(lines[i]); len(m) == 2 {
			if amount, ok := ocrDollarAmount(m[1]); ok {
				return amount, nil
			}
		}
	}

	var largest int64
	found := false
	for _, m := range ocrDollarRe.FindAllStringSubmatch(text, -1) {
		if amount, ok := ocrDollarAmount(m[1]); ok && (!found || amount > largest) {
			largest = amount
			found = true
		}
	}
	if !found {
		return 0, errors.New("could not find a total amount on the receipt")
	}
	return largest, nil
}

// ocrDollarAmount parses a dollar token into cents, rejecting implausible
// values.
func ocrDollarAmount(s string) (int64, bool) {
	amount, ok := ParseAmount(strings.ReplaceAll(s, ",", ""))
	if !ok || amount <= 0 || amount >= 10000000 {
		return 0, false
	}
	return amount, true
}

func ocrDate(text string) string {
	if m := ocrFullYearRe.FindStringSubmatch(text); len(m) == 4 {
		if date, ok := ParseDate(m[1] + "/" + m[2] + "/" + m[3]); ok {
			return date
		}
	}
	if m := ocrShortYearRe.FindStringSubmatch(text); len(m) == 4 {
		if date, ok := ParseDate(m[1] + "/" + m[2] + "/" + m[3]); ok {
			return date
		}
	}
	return Today()
}

func ocrItems(lines []string) []Item {
	var items []Item
	for _, line := range lines {
		if isSummaryLine(line) {
			continue
		}
		m := ocrItemRe.FindStringSubmatch(line)
		if len(m) != 3 {
			continue
		}
		name := strings.TrimSpace(m[1])
		if price, ok := ocrDollarAmount(m[2]); ok && name != "" {
			items = append(items, NewItem(name, 1, price))
		}
	}
	return items
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
