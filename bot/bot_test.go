package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/cryptobot/broker"
	"github.com/rustyeddy/cryptobot/config"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/risk"
)

type stubPrices struct {
	prices map[string]float64
	errs   map[string]error
}

func (s *stubPrices) CurrentPrice(_ context.Context, productID string) (float64, error) {
	if err, ok := s.errs[productID]; ok {
		return 0, err
	}
	price, ok := s.prices[productID]
	if !ok {
		return 0, fmt.Errorf("no price for %q", productID)
	}
	return price, nil
}

type stubExec struct {
	fee   float64
	fills []broker.Fill
}

func (s *stubExec) Buy(_ context.Context, productID string, quantity, price float64) (broker.Fill, error) {
	return s.fill(productID, "BUY", quantity, price), nil
}

func (s *stubExec) Sell(_ context.Context, productID string, quantity, price float64) (broker.Fill, error) {
	return s.fill(productID, "SELL", quantity, price), nil
}

func (s *stubExec) fill(productID, side string, quantity, price float64) broker.Fill {
	f := broker.Fill{
		ProductID: productID,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Fee:       quantity * price * s.fee,
		Time:      time.Now(),
	}
	s.fills = append(s.fills, f)
	return f
}

type stubJournal struct {
	trades  []journal.TradeRecord
	capital []journal.CapitalSnapshot
	closed  bool
}

func (j *stubJournal) RecordTrade(rec journal.TradeRecord) error {
	j.trades = append(j.trades, rec)
	return nil
}

func (j *stubJournal) RecordCapital(rec journal.CapitalSnapshot) error {
	j.capital = append(j.capital, rec)
	return nil
}

func (j *stubJournal) Close() error {
	j.closed = true
	return nil
}

type stubScanner struct {
	candidates []Candidate
	calls      int
}

func (s *stubScanner) Scan(_ context.Context) ([]Candidate, error) {
	s.calls++
	return s.candidates, nil
}

func newTestBot(t *testing.T, mutate func(*config.Config)) (*Bot, *risk.Ledger, *stubPrices, *stubExec, *stubJournal) {
	t.Helper()

	cfg := config.Default()
	cfg.MakerFee = 0.004
	cfg.TakerFee = 0.006
	cfg.MaxFeePct = 0.01
	cfg.MinTradeUSD = 50
	if mutate != nil {
		mutate(cfg)
	}

	ledger := risk.NewLedger(cfg, nil, nil)
	prices := &stubPrices{prices: map[string]float64{}}
	exec := &stubExec{fee: cfg.TakerFee}
	j := &stubJournal{}

	return New(cfg, ledger, prices, exec, j, nil), ledger, prices, exec, j
}

func TestStepClosesOnStopLoss(t *testing.T) {
	b, ledger, prices, exec, j := newTestBot(t, nil)

	require.NoError(t, ledger.Open("BTC-USD", 1, 100, 0))
	prices.prices["BTC-USD"] = 90

	b.Step(context.Background())

	assert.Equal(t, 0, ledger.Stats().OpenPositions)

	require.Len(t, exec.fills, 1)
	assert.Equal(t, "SELL", exec.fills[0].Side)
	assert.InDelta(t, 1.0, exec.fills[0].Quantity, 1e-12)

	require.Len(t, j.trades, 1)
	assert.Equal(t, "SELL", j.trades[0].Side)
	assert.Contains(t, j.trades[0].Reason, "stop loss")
	assert.Equal(t, "DRY RUN", j.trades[0].Notes)

	require.Len(t, j.capital, 1)
	assert.Equal(t, 0, j.capital[0].OpenPositions)
}

func TestStepReducesOnPartialProfit(t *testing.T) {
	b, ledger, prices, exec, j := newTestBot(t, nil)

	require.NoError(t, ledger.Open("BTC-USD", 1, 100, 0))
	prices.prices["BTC-USD"] = 111

	b.Step(context.Background())

	pos, ok := ledger.Position("BTC-USD")
	require.True(t, ok)
	assert.InDelta(t, 0.67, pos.Quantity, 1e-9)
	assert.Equal(t, []bool{true, false, false}, pos.PartialHit)

	require.Len(t, exec.fills, 1)
	assert.InDelta(t, 0.33, exec.fills[0].Quantity, 1e-9)

	require.Len(t, j.trades, 1)
	assert.InDelta(t, 0.33, j.trades[0].Quantity, 1e-9)
}

func TestStepHoldsInsideBands(t *testing.T) {
	b, ledger, prices, exec, _ := newTestBot(t, nil)

	require.NoError(t, ledger.Open("BTC-USD", 1, 100, 0))
	prices.prices["BTC-USD"] = 102

	b.Step(context.Background())

	assert.Equal(t, 1, ledger.Stats().OpenPositions)
	assert.Empty(t, exec.fills)
}

func TestStepContinuesPastPriceErrors(t *testing.T) {
	b, ledger, prices, _, _ := newTestBot(t, nil)

	require.NoError(t, ledger.Open("BTC-USD", 1, 100, 0))
	require.NoError(t, ledger.Open("ETH-USD", 1, 50, 0))
	prices.errs = map[string]error{"BTC-USD": fmt.Errorf("feed down")}
	prices.prices["ETH-USD"] = 40 // -20%, well past the stop

	b.Step(context.Background())

	// The broken feed leaves BTC untouched; ETH still exits.
	_, btcOpen := ledger.Position("BTC-USD")
	_, ethOpen := ledger.Position("ETH-USD")
	assert.True(t, btcOpen)
	assert.False(t, ethOpen)
}

func TestStepOpensFromScanner(t *testing.T) {
	b, ledger, _, exec, j := newTestBot(t, nil)

	scanner := &stubScanner{candidates: []Candidate{
		{ProductID: "BTC-USD", Price: 50000, Reason: "momentum"},
	}}
	b.SetScanner(scanner)

	b.Step(context.Background())

	assert.Equal(t, 1, scanner.calls)
	assert.Equal(t, 1, ledger.Stats().OpenPositions)

	require.Len(t, exec.fills, 1)
	assert.Equal(t, "BUY", exec.fills[0].Side)

	require.Len(t, j.trades, 1)
	assert.Equal(t, "BUY", j.trades[0].Side)
	assert.Equal(t, "momentum", j.trades[0].Reason)
}

func TestStepSkipsScanWhenFull(t *testing.T) {
	b, ledger, prices, _, _ := newTestBot(t, func(c *config.Config) {
		c.MaxPositions = 1
	})

	require.NoError(t, ledger.Open("BTC-USD", 1, 100, 0))
	prices.prices["BTC-USD"] = 102

	scanner := &stubScanner{candidates: []Candidate{
		{ProductID: "ETH-USD", Price: 3000, Reason: "momentum"},
	}}
	b.SetScanner(scanner)

	b.Step(context.Background())
	assert.Equal(t, 0, scanner.calls)
}

func TestStepRejectionLeavesLedgerUntouched(t *testing.T) {
	b, ledger, _, exec, j := newTestBot(t, func(c *config.Config) {
		c.MinTradeUSD = 500 // sizing can never reach this
	})

	scanner := &stubScanner{candidates: []Candidate{
		{ProductID: "BTC-USD", Price: 50000, Reason: "momentum"},
	}}
	b.SetScanner(scanner)

	b.Step(context.Background())

	assert.Equal(t, 0, ledger.Stats().OpenPositions)
	assert.Empty(t, exec.fills)
	// Only the capital snapshot is journaled.
	assert.Empty(t, j.trades)
}

func TestRolloverResetsDailyCounters(t *testing.T) {
	b, ledger, _, _, _ := newTestBot(t, nil)

	require.NoError(t, ledger.Open("BTC-USD", 1, 100, 0))
	_, err := ledger.Close("BTC-USD", 95, 0, "stop loss")
	require.NoError(t, err)
	require.Equal(t, 1, ledger.Stats().DailyTrades)

	b.lastReset = time.Now().Add(-48 * time.Hour)
	b.Step(context.Background())

	st := ledger.Stats()
	assert.Equal(t, 0, st.DailyTrades)
	assert.InDelta(t, 0.0, st.DailyPnL, 1e-12)
	// Drawdown is not a daily counter.
	assert.Greater(t, st.TotalDrawdown, 0.0)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	b, _, _, _, _ := newTestBot(t, func(c *config.Config) {
		c.CheckIntervalSec = 3600
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not stop on cancel")
	}
}
