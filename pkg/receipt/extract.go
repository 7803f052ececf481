package receipt

import (
	"regexp"
	"strings"
)

// Shared field-recovery helpers. Each extractor searches its sources in
// precedence order: structured markup first, then regex over markup, then
// regex over visible text.

var commaRe = regexp.MustCompile(`,`)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Za-z]+ \d{1,2},? \d{4})`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})`),
	regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
}

// Item lines never contain summary vocabulary.
var itemExclusions = []string{"total", "subtotal", "tax", "tip", "change", "balance", "payment"}

// findAmount returns the first amount matched by any pattern in any source
// that falls inside the plausibility window (minCents, maxCents).
func findAmount(patterns []*regexp.Regexp, sources []string, minCents, maxCents int64) (int64, bool) {
	for _, re := range patterns {
		for _, src := range sources {
			for _, m := range re.FindAllStringSubmatch(src, -1) {
				if len(m) < 2 {
					continue
				}
				amount, ok := ParseAmount(commaRe.ReplaceAllString(m[1], ""))
				if ok && amount > minCents && amount < maxCents {
					return amount, true
				}
			}
		}
	}
	return 0, false
}

// largestAmount returns the largest plausible amount matched anywhere.
func largestAmount(patterns []*regexp.Regexp, sources []string, minCents, maxCents int64) (int64, bool) {
	var best int64
	found := false
	for _, re := range patterns {
		for _, src := range sources {
			for _, m := range re.FindAllStringSubmatch(src, -1) {
				if len(m) < 2 {
					continue
				}
				amount, ok := ParseAmount(commaRe.ReplaceAllString(m[1], ""))
				if ok && amount > minCents && amount < maxCents && amount > best {
					best = amount
					found = true
				}
			}
		}
	}
	return best, found
}

// findDate returns the first parseable absolute date in any source, or
// today's date when nothing parses.
func findDate(sources []string) string {
	for _, re := range datePatterns {
		for _, src := range sources {
			for _, m := range re.FindAllStringSubmatch(src, -1) {
				if len(m) < 2 {
					continue
				}
				if date, ok := ParseDate(m[1]); ok {
					return date
				}
			}
		}
	}
	return Today()
}

// findFirstGroup returns the first capture group of re in any source.
func findFirstGroup(re *regexp.Regexp, sources []string) (string, bool) {
	for _, src := range sources {
		if m := re.FindStringSubmatch(src); len(m) >= 2 {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

func isSummaryLine(line string) bool {
	lower := strings.ToLower(line)
	for _, word := range itemExclusions {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// amountFromText pulls the first dollar-looking token out of a text blob.
func amountFromText(text string) (int64, bool) {
	re := regexp.MustCompile(`\$?\s*([\d,]+\.?\d*)`)
	if m := re.FindStringSubmatch(text); len(m) >= 2 {
		return ParseAmount(commaRe.ReplaceAllString(m[1], ""))
	}
	return 0, false
}
