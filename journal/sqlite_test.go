package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func sampleTrade(id string, side string, tm time.Time) TradeRecord {
	return TradeRecord{
		TradeID:   id,
		ProductID: "BTC-USD",
		Side:      side,
		Quantity:  0.01,
		Price:     50000,
		ValueUSD:  500,
		FeeUSD:    5,
		NetPnL:    9.8,
		PnLPct:    1.94,
		HoldHours: 4.5,
		Time:      tm,
		Reason:    "take profit",
		Notes:     "DRY RUN",
	}
}

func TestSQLiteRecordAndGetTrade(t *testing.T) {
	t.Parallel()
	j := newTestSQLite(t)

	tm := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	want := sampleTrade("trade-1", "SELL", tm)
	require.NoError(t, j.RecordTrade(want))

	got, err := j.GetTrade("trade-1")
	require.NoError(t, err)

	assert.Equal(t, want.TradeID, got.TradeID)
	assert.Equal(t, want.ProductID, got.ProductID)
	assert.Equal(t, want.Side, got.Side)
	assert.InDelta(t, want.NetPnL, got.NetPnL, 1e-9)
	assert.InDelta(t, want.HoldHours, got.HoldHours, 1e-9)
	assert.Equal(t, want.Reason, got.Reason)
	assert.True(t, got.Time.Equal(tm))
}

func TestSQLiteGetTradeMissing(t *testing.T) {
	t.Parallel()
	j := newTestSQLite(t)

	_, err := j.GetTrade("nope")
	assert.ErrorContains(t, err, "not found")
}

func TestSQLiteListTradesBetween(t *testing.T) {
	t.Parallel()
	j := newTestSQLite(t)

	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(sampleTrade("t1", "BUY", day1)))
	require.NoError(t, j.RecordTrade(sampleTrade("t2", "SELL", day1.Add(2*time.Hour))))
	require.NoError(t, j.RecordTrade(sampleTrade("t3", "SELL", day2)))

	got, err := j.ListTradesBetween(day1, day1.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].TradeID)
	assert.Equal(t, "t2", got[1].TradeID)

	all, err := j.ListAllTrades()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteRecordCapital(t *testing.T) {
	t.Parallel()
	j := newTestSQLite(t)

	require.NoError(t, j.RecordCapital(CapitalSnapshot{
		Time:           time.Now(),
		CurrentCapital: 609.8,
		DailyPnL:       9.8,
		DailyTrades:    1,
		TotalDrawdown:  0,
		OpenPositions:  0,
	}))
}
