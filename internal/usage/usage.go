// Package usage accumulates per-model-class token counts across API calls
// and derives a monetary cost estimate from configured per-token rates.
package usage

import "sync"

// Class identifies one of the two model tiers the tool uses: a cheap fast
// model for bulk transcript cleanup and a capable model for the derived
// transforms (explanation, summary, TLDR).
type Class string

const (
	Fast    Class = "fast"
	Capable Class = "capable"
)

// Pricing holds USD rates per million tokens for each model class.
type Pricing struct {
	FastInputPerMTok     float64
	FastOutputPerMTok    float64
	CapableInputPerMTok  float64
	CapableOutputPerMTok float64
}

// Report is a point-in-time snapshot of the ledger totals.
type Report struct {
	InputTokens  int64
	OutputTokens int64
	Cost         float64 // USD
}

// Ledger accumulates token usage for one run of the tool. Counters only
// grow; there is no reset. Safe for concurrent use, since the derived
// transforms may record from multiple goroutines.
type Ledger struct {
	mu      sync.Mutex
	pricing Pricing

	fastIn     int64
	fastOut    int64
	capableIn  int64
	capableOut int64
}

// NewLedger creates an empty ledger priced with the given rates.
func NewLedger(pricing Pricing) *Ledger {
	return &Ledger{pricing: pricing}
}

// Record adds the reported token counts for one call under the given model
// class. Negative counts indicate a misbehaving upstream report and are
// ignored rather than propagated; the ledger never decreases. Unrecognized
// classes are dropped so they cannot be booked under the wrong rates.
func (l *Ledger) Record(class Class, inputTokens, outputTokens int) {
	if inputTokens < 0 || outputTokens < 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch class {
	case Fast:
		l.fastIn += int64(inputTokens)
		l.fastOut += int64(outputTokens)
	case Capable:
		l.capableIn += int64(inputTokens)
		l.capableOut += int64(outputTokens)
	}
}

// Cost computes the estimated USD cost of all recorded usage. It is a pure
// function of the current totals: calling it twice without an intervening
// Record yields the same value.
func (l *Ledger) Cost() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cost()
}

// cost computes the estimate. Caller must hold l.mu.
func (l *Ledger) cost() float64 {
	const mTok = 1e6
	return float64(l.fastIn)/mTok*l.pricing.FastInputPerMTok +
		float64(l.fastOut)/mTok*l.pricing.FastOutputPerMTok +
		float64(l.capableIn)/mTok*l.pricing.CapableInputPerMTok +
		float64(l.capableOut)/mTok*l.pricing.CapableOutputPerMTok
}

// Report returns the combined totals across both classes plus the cost
// estimate, taken atomically.
func (l *Ledger) Report() Report {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Report{
		InputTokens:  l.fastIn + l.capableIn,
		OutputTokens: l.fastOut + l.capableOut,
		Cost:         l.cost(),
	}
}
