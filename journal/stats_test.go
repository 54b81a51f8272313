package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMetrics(t *testing.T) {
	t.Parallel()

	trades := []TradeRecord{
		{Side: "BUY", FeeUSD: 3},
		{Side: "SELL", NetPnL: 10, FeeUSD: 3, HoldHours: 2},
		{Side: "SELL", NetPnL: 30, FeeUSD: 3, HoldHours: 6},
		{Side: "SELL", NetPnL: -20, FeeUSD: 3, HoldHours: 4},
		{Side: "SELL", NetPnL: 0, FeeUSD: 1, HoldHours: 8},
	}

	m := ComputeMetrics(trades)

	assert.Equal(t, 4, m.TotalTrades)
	assert.Equal(t, 2, m.WinCount)
	assert.Equal(t, 1, m.LossCount)
	assert.InDelta(t, 50.0, m.WinRate, 1e-9)
	assert.InDelta(t, 20.0, m.TotalPnL, 1e-9)
	assert.InDelta(t, 40.0, m.TotalWins, 1e-9)
	assert.InDelta(t, 20.0, m.TotalLosses, 1e-9)
	assert.InDelta(t, 2.0, m.ProfitFactor, 1e-9)
	assert.InDelta(t, 20.0, m.AvgWin, 1e-9)
	assert.InDelta(t, 20.0, m.AvgLoss, 1e-9)
	assert.InDelta(t, 30.0, m.MaxWin, 1e-9)
	assert.InDelta(t, -20.0, m.MaxLoss, 1e-9)
	assert.InDelta(t, 13.0, m.TotalFees, 1e-9)
	assert.InDelta(t, 5.0, m.AvgHoldHours, 1e-9)
}

func TestComputeMetricsEmpty(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(nil)
	assert.Equal(t, 0, m.TotalTrades)
	assert.InDelta(t, 0.0, m.WinRate, 1e-12)
	assert.InDelta(t, 0.0, m.ProfitFactor, 1e-12)
}

func TestComputeMetricsIgnoresBuyPnL(t *testing.T) {
	t.Parallel()

	// Entry records carry zero P&L fields, but even a nonzero value must not
	// count toward realized stats.
	m := ComputeMetrics([]TradeRecord{{Side: "BUY", NetPnL: 100, FeeUSD: 2}})
	assert.Equal(t, 0, m.TotalTrades)
	assert.InDelta(t, 0.0, m.TotalPnL, 1e-12)
	assert.InDelta(t, 2.0, m.TotalFees, 1e-12)
}
