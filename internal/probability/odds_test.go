package probability

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewQuote(t *testing.T) {
	quote, err := NewQuote(28.5, 28)
	assert.NoError(t, err)

	assert.Equal(t, 28.5, quote.Line)
	assert.Equal(t, 28.0, quote.Estimate)
	assert.InDelta(t, 1.0, quote.PUnder+quote.POver, 1e-12)

	// Fair prices invert the probabilities at two decimal places.
	wantUnder := decimal.NewFromInt(1).Div(decimal.NewFromFloat(quote.PUnder)).Round(2)
	assert.True(t, quote.UnderPrice.Equal(wantUnder))
	assert.True(t, quote.OverPrice.GreaterThan(decimal.NewFromInt(1)))
}

func TestNewQuoteCertainUnder(t *testing.T) {
	quote, err := NewQuote(10.5, 0)
	assert.NoError(t, err)

	assert.Equal(t, 1.0, quote.PUnder)
	assert.Equal(t, 0.0, quote.POver)
	assert.True(t, quote.UnderPrice.Equal(decimal.NewFromInt(1)))
	// The impossible side gets no price.
	assert.True(t, quote.OverPrice.IsZero())
}

func TestNewQuoteInvalidInput(t *testing.T) {
	_, err := NewQuote(-2.5, 20)
	assert.Error(t, err)
}
