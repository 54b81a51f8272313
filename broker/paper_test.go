package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperBuyAppliesTakerFee(t *testing.T) {
	t.Parallel()
	p := NewPaper(0.02)

	fill, err := p.Buy(context.Background(), "BTC-USD", 0.01, 50000)
	require.NoError(t, err)

	assert.Equal(t, "BTC-USD", fill.ProductID)
	assert.Equal(t, "BUY", fill.Side)
	assert.InDelta(t, 0.01, fill.Quantity, 1e-12)
	assert.InDelta(t, 50000.0, fill.Price, 1e-9)
	assert.InDelta(t, 500*0.02, fill.Fee, 1e-9)
	assert.False(t, fill.Time.IsZero())
}

func TestPaperSell(t *testing.T) {
	t.Parallel()
	p := NewPaper(0.02)

	fill, err := p.Sell(context.Background(), "BTC-USD", 0.01, 52000)
	require.NoError(t, err)
	assert.Equal(t, "SELL", fill.Side)
	assert.InDelta(t, 520*0.02, fill.Fee, 1e-9)
}

func TestPaperRejectsBadOrders(t *testing.T) {
	t.Parallel()
	p := NewPaper(0.02)

	_, err := p.Buy(context.Background(), "BTC-USD", 0, 50000)
	assert.ErrorContains(t, err, "quantity")

	_, err = p.Buy(context.Background(), "BTC-USD", 0.01, -1)
	assert.ErrorContains(t, err, "price")
}

func TestPaperHonorsContextCancellation(t *testing.T) {
	t.Parallel()
	p := NewPaper(0.02)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Buy(ctx, "BTC-USD", 0.01, 50000)
	assert.ErrorIs(t, err, context.Canceled)
}
