package receipt

import (
	"fmt"
	"regexp"
	"strings"
)

type venmoExtractor struct{}

func (venmoExtractor) Provider() string { return "venmo" }

func (venmoExtractor) Matches(lower string) bool {
	return strings.Contains(lower, "venmo")
}

var venmoSentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)you paid\s+([A-Za-z][A-Za-z\s]+)`),
	regexp.MustCompile(`(?i)you sent\s+([A-Za-z][A-Za-z\s]+)`),
	regexp.MustCompile(`(?i)payment to\s+([A-Za-z][A-Za-z\s]+)`),
}

var venmoReceivedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([A-Za-z][A-Za-z\s]+)\s+paid you`),
	regexp.MustCompile(`(?i)([A-Za-z][A-Za-z\s]+)\s+sent you`),
	regexp.MustCompile(`(?i)payment from\s+([A-Za-z][A-Za-z\s]+)`),
}

var venmoAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)amount[:\s]*\$?\s*([\d,]+\.?\d*)`),
}

var venmoNoteRe = regexp.MustCompile(`(?i)(?:for|note)[:\s]*["']?([^"'\n]{1,100})["']?`)

func (venmoExtractor) Extract(in *Input) Outcome {
	text := in.Text()

	total, ok := findAmount(venmoAmountPatterns, []string{text, in.Raw}, 0, 1000000)
	if !ok {
		return rejected("could not extract payment amount")
	}

	outgoing, counterparty := venmoDirection(text)
	date := findDate([]string{text, in.Raw})

	merchant := "Venmo"
	if counterparty != "" {
		if note, found := findFirstGroup(venmoNoteRe, []string{text}); found && note != "" {
			merchant = fmt.Sprintf("Venmo - %s (%s)", counterparty, note)
		} else {
			merchant = fmt.Sprintf("Venmo - %s", counterparty)
		}
	}

	// The amount stays non-negative either way; an inbound payment is
	// down-weighted rather than sign-flipped.
	t := NewTransaction(merchant, total, date, "venmo")
	if !outgoing {
		t.Confidence = 0.8
	}
	return recognized(t)
}

// venmoDirection reports whether the payment was outgoing and names the
// counterparty when one is found. Unknown direction defaults to outgoing.
func venmoDirection(text string) (bool, string) {
	for _, re := range venmoSentPatterns {
		if name, ok := findFirstGroup(re, []string{text}); ok && name != "" && len(name) < 50 {
			return true, name
		}
	}
	for _, re := range venmoReceivedPatterns {
		if name, ok := findFirstGroup(re, []string{text}); ok && name != "" && len(name) < 50 {
			return false, name
		}
	}
	return true, ""
}
