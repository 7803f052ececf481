package receipt

import (
	"regexp"
	"strings"
)

type amazonExtractor struct{}

func (amazonExtractor) Provider() string { return "amazon" }

func (amazonExtractor) Matches(lower string) bool {
	return strings.Contains(lower, "amazon.com") || strings.Contains(lower, "amazon order")
}

var amazonTotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)order total[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)grand total[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)total[:\s]*\$?\s*([\d,]+\.?\d*)`),
}

var amazonDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)order placed[:\s]*([A-Za-z]+ \d{1,2}, \d{4})`),
	regexp.MustCompile(`(?i)ordered on[:\s]*([A-Za-z]+ \d{1,2}, \d{4})`),
}

func (amazonExtractor) Extract(in *Input) Outcome {
	total, ok := amazonTotal(in)
	if !ok {
		return rejected("could not extract order total")
	}

	date := ""
	for _, re := range amazonDatePatterns {
		if m, found := findFirstGroup(re, []string{in.Raw, in.Text()}); found {
			if parsed, pok := ParseDate(m); pok {
				date = parsed
				break
			}
		}
	}
	if date == "" {
		date = findDate([]string{in.Text(), in.Raw})
	}

	t := NewTransaction("Amazon", total, date, "amazon")
	t.Items = amazonItems(in)

	// A large order with no recoverable items is suspicious.
	if len(t.Items) == 0 && total > 10000 {
		t.Confidence = 0.7
	}

	return recognized(t)
}

func amazonTotal(in *Input) (int64, bool) {
	// Structured search: elements whose class suggests a total.
	for _, text := range elementsWithClass(in.Doc(), "total") {
		if amount, ok := amountFromText(text); ok && amount > 0 && amount < 1000000 {
			return amount, true
		}
	}

	// Regex over the raw markup, then over visible text.
	return findAmount(amazonTotalPatterns, []string{in.Raw, in.Text()}, 0, 1000000)
}

func amazonItems(in *Input) []Item {
	var items []Item
	for _, class := range []string{"item", "product"} {
		for _, text := range elementsWithClass(in.Doc(), class) {
			if item, ok := parseItemText(text); ok {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			break
		}
	}
	return items
}

var itemPriceRe = regexp.MustCompile(`\$?\s*([\d,]+\.\d{2})`)

// parseItemText splits "Some Item Name $12.99" into an item.
func parseItemText(text string) (Item, bool) {
	loc := itemPriceRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return Item{}, false
	}
	price, ok := ParseAmount(commaRe.ReplaceAllString(text[loc[2]:loc[3]], ""))
	if !ok || price <= 0 {
		return Item{}, false
	}
	name := strings.TrimSpace(text[:loc[0]])
	if name == "" || isSummaryLine(name) {
		return Item{}, false
	}
	return NewItem(name, 1, price), true
}
