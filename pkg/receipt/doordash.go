package receipt

import (
	"regexp"
	"strings"
)

type doorDashExtractor struct{}

func (doorDashExtractor) Provider() string { return "doordash" }

func (doorDashExtractor) Matches(lower string) bool {
	return strings.Contains(lower, "doordash")
}

var doorDashRestaurantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)your order from\s+([A-Za-z0-9\s&'-]+)`),
	regexp.MustCompile(`(?i)order from\s+([A-Za-z0-9\s&'-]+)`),
	regexp.MustCompile(`(?i)delivered from\s+([A-Za-z0-9\s&'-]+)`),
}

var doorDashTotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)order total[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)total[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)charged[:\s]*\$?\s*([\d,]+\.?\d*)`),
}

// Lines like "2x Pad Thai $15.90".
var quantityItemRe = regexp.MustCompile(`(\d+)\s*x?\s+([A-Za-z][A-Za-z0-9\s&'-]*?)\s+\$?([\d,]+\.\d{2})`)

func (doorDashExtractor) Extract(in *Input) Outcome {
	text := in.Text()

	// Delivery orders stay under a sanity ceiling of $1,000.
	total, ok := findAmount(doorDashTotalPatterns, []string{text, in.Raw}, 0, 100000)
	if !ok {
		return rejected("could not extract order total")
	}

	merchant := "DoorDash"
	for _, re := range doorDashRestaurantPatterns {
		if name, found := findFirstGroup(re, []string{text}); found && name != "" && len(name) < 100 {
			merchant = name
			break
		}
	}

	date := findDate([]string{text, in.Raw})

	t := NewTransaction(merchant, total, date, "doordash")
	t.Items = quantityItems(text)
	return recognized(t)
}

// quantityItems recovers "Nx name price" lines, skipping summary rows.
func quantityItems(text string) []Item {
	var items []Item
	for _, m := range quantityItemRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[2])
		if name == "" || isSummaryLine(name) {
			continue
		}
		quantity := 1
		if q, ok := parseQuantity(m[1]); ok {
			quantity = q
		}
		price, ok := ParseAmount(commaRe.ReplaceAllString(m[3], ""))
		if !ok || price <= 0 {
			continue
		}
		items = append(items, NewItem(name, quantity, price))
	}
	return items
}

func parseQuantity(s string) (int, bool) {
	q := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		q = q*10 + int(r-'0')
	}
	if q <= 0 {
		return 0, false
	}
	return q, true
}
