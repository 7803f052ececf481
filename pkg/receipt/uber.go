package receipt

import (
	"fmt"
	"regexp"
	"strings"
)

type uberExtractor struct{}

func (uberExtractor) Provider() string { return "uber" }

func (uberExtractor) Matches(lower string) bool {
	// Rides only; Uber Eats is claimed earlier in the chain.
	return strings.Contains(lower, "uber.com") &&
		!strings.Contains(lower, "uber eats") &&
		!strings.Contains(lower, "ubereats")
}

var uberTotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)trip total[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)total[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)you paid[:\s]*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)fare[:\s]*\$?\s*([\d,]+\.?\d*)`),
}

var uberTripRe = regexp.MustCompile(`(?i)from\s+([A-Za-z0-9\s,]+?)\s+to\s+([A-Za-z0-9\s,]+)`)

func (uberExtractor) Extract(in *Input) Outcome {
	text := in.Text()

	// A ride fare above $500 is almost certainly a mis-parse.
	total, ok := findAmount(uberTotalPatterns, []string{text, in.Raw}, 0, 50000)
	if !ok {
		return rejected("could not extract trip total")
	}

	merchant := "Uber"
	if m := uberTripRe.FindStringSubmatch(text); len(m) == 3 {
		origin := strings.TrimSpace(m[1])
		dest := strings.TrimSpace(m[2])
		if len(origin) < 50 && len(dest) < 50 {
			merchant = fmt.Sprintf("Uber - %s to %s", origin, dest)
		}
	}

	date := findDate([]string{text, in.Raw})

	return recognized(NewTransaction(merchant, total, date, "uber"))
}
