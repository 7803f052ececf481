package receipt

import "log"

// Result classifies one extraction attempt.
type Result int

const (
	// Recognized: the extractor recovered a full transaction.
	Recognized Result = iota
	// Rejected: the format matched but a required field was missing.
	Rejected
	// Unrecognized: no extractor claimed the input.
	Unrecognized
)

type Outcome struct {
	Result      Result
	Transaction *Transaction
	Reason      string
}

func recognized(t *Transaction) Outcome {
	return Outcome{Result: Recognized, Transaction: t}
}

func rejected(reason string) Outcome {
	return Outcome{Result: Rejected, Reason: reason}
}

func unrecognized() Outcome {
	return Outcome{Result: Unrecognized}
}

// Extractor recovers a transaction from one class of raw input.
type Extractor interface {
	// Provider is the identifier recorded on extracted transactions.
	Provider() string
	// Matches reports whether this extractor claims the (lower-cased) input.
	Matches(lower string) bool
	// Extract attempts the actual field recovery.
	Extract(in *Input) Outcome
}

// Engine runs format-specific extractors in priority order. The order is
// part of the contract: the first Recognized outcome wins, a Rejected
// outcome falls through to lower-priority extractors, and the generic
// fallback must stay last.
type Engine struct {
	extractors []Extractor
}

func NewEngine() *Engine {
	return &Engine{
		extractors: []Extractor{
			amazonExtractor{},
			doorDashExtractor{},
			uberEatsExtractor{},
			uberExtractor{},
			venmoExtractor{},
			genericExtractor{},
		},
	}
}

func (e *Engine) Extract(raw string) Outcome {
	in := NewInput(raw)
	lower := in.Lower()

	for _, ex := range e.extractors {
		if !ex.Matches(lower) {
			continue
		}

		out := ex.Extract(in)
		switch out.Result {
		case Recognized:
			log.Printf("[Receipt] %s extracted %q for $%.2f", ex.Provider(),
				out.Transaction.Merchant, float64(out.Transaction.AmountCents)/100.0)
			return out
		case Rejected:
			log.Printf("[Receipt] %s rejected input: %s", ex.Provider(), out.Reason)
			// fall through to the next extractor
		}
	}

	return unrecognized()
}
