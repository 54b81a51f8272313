package broker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeed(t *testing.T, content string) *CSVFeed {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	feed, err := NewCSVFeed(path)
	require.NoError(t, err)
	return feed
}

func TestCSVFeedAdvancesPerProduct(t *testing.T) {
	t.Parallel()

	feed := newTestFeed(t, `product_id,price
BTC-USD,50000
BTC-USD,51000
ETH-USD,3000
BTC-USD,49000
`)
	ctx := context.Background()

	for _, want := range []float64{50000, 51000, 49000} {
		got, err := feed.CurrentPrice(ctx, "BTC-USD")
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9)
	}

	got, err := feed.CurrentPrice(ctx, "ETH-USD")
	require.NoError(t, err)
	assert.InDelta(t, 3000.0, got, 1e-9)
}

func TestCSVFeedHoldsLastPriceAtEOF(t *testing.T) {
	t.Parallel()

	feed := newTestFeed(t, "product_id,price\nBTC-USD,50000\n")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := feed.CurrentPrice(ctx, "BTC-USD")
		require.NoError(t, err)
		assert.InDelta(t, 50000.0, got, 1e-9)
	}
}

func TestCSVFeedUnknownProduct(t *testing.T) {
	t.Parallel()

	feed := newTestFeed(t, "product_id,price\nBTC-USD,50000\n")
	_, err := feed.CurrentPrice(context.Background(), "DOGE-USD")
	assert.Error(t, err)
}

func TestCSVFeedBadPrice(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte("product_id,price\nBTC-USD,abc\n"), 0644))

	_, err := NewCSVFeed(path)
	assert.ErrorContains(t, err, "parse price")
}
