package probability

import (
	"github.com/shopspring/decimal"
)

// Quote is a priced over/under pair for one line.
type Quote struct {
	Line       float64         `json:"line"`
	Estimate   float64         `json:"estimate"`
	PUnder     float64         `json:"p_under"`
	POver      float64         `json:"p_over"`
	UnderPrice decimal.Decimal `json:"under_price"` // fair decimal odds, no vig
	OverPrice  decimal.Decimal `json:"over_price"`
}

// NewQuote converts an estimate against a line and prices both sides at fair
// decimal odds (1/p, two decimal places). A side with zero probability gets
// a zero price rather than infinity.
func NewQuote(line, estimate float64) (Quote, error) {
	pUnder, pOver, err := Convert(line, estimate)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Line:       line,
		Estimate:   estimate,
		PUnder:     pUnder,
		POver:      pOver,
		UnderPrice: fairPrice(pUnder),
		OverPrice:  fairPrice(pOver),
	}, nil
}

func fairPrice(p float64) decimal.Decimal {
	if p <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Div(decimal.NewFromFloat(p)).Round(2)
}
