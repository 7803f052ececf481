package receipt

import (
	"regexp"
	"strings"
)

type uberEatsExtractor struct{}

func (uberEatsExtractor) Provider() string { return "uber_eats" }

func (uberEatsExtractor) Matches(lower string) bool {
	return strings.Contains(lower, "uber eats") || strings.Contains(lower, "ubereats")
}

var uberEatsRestaurantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)your order from\s+([A-Za-z0-9\s&'-]+)`),
	regexp.MustCompile(`(?i)order from\s+([A-Za-z0-9\s&'-]+)`),
	regexp.MustCompile(`(?i)receipt for\s+([A-Za-z0-9\s&'-]+)`),
}

var uberEatsTotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)total[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)order total[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)you paid[:\s]*\$?\s*([\d,]+\.?\d*)`),
}

func (uberEatsExtractor) Extract(in *Input) Outcome {
	text := in.Text()

	total, ok := findAmount(uberEatsTotalPatterns, []string{text, in.Raw}, 0, 50000)
	if !ok {
		return rejected("could not extract order total")
	}

	merchant := "Uber Eats"
	for _, re := range uberEatsRestaurantPatterns {
		if name, found := findFirstGroup(re, []string{text}); found && name != "" && len(name) < 100 {
			merchant = name
			break
		}
	}

	date := findDate([]string{text, in.Raw})

	t := NewTransaction(merchant, total, date, "uber_eats")
	t.Items = quantityItems(text)
	return recognized(t)
}
