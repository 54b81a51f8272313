// Package bot runs the outer polling loop: evaluate exits on open positions,
// execute them through the broker, then look for new entries. All risk and
// capital decisions live in the risk package; the bot only wires collaborators
// together.
package bot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/cryptobot/broker"
	"github.com/rustyeddy/cryptobot/config"
	"github.com/rustyeddy/cryptobot/internal/id"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/risk"
)

// Candidate is a product proposed for entry by a Scanner, priced at proposal
// time.
type Candidate struct {
	ProductID string
	Price     float64
	Reason    string
}

// Scanner proposes entry candidates. Screening and scoring are external
// concerns; the bot only applies sizing and admission control to whatever
// comes back.
type Scanner interface {
	Scan(ctx context.Context) ([]Candidate, error)
}

type Bot struct {
	cfg     *config.Config
	ledger  *risk.Ledger
	prices  broker.PriceSource
	exec    broker.Executor
	journal journal.Journal
	scanner Scanner
	log     *zap.SugaredLogger

	lastReset time.Time
}

func New(cfg *config.Config, ledger *risk.Ledger, prices broker.PriceSource,
	exec broker.Executor, j journal.Journal, log *zap.SugaredLogger) *Bot {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Bot{
		cfg:       cfg,
		ledger:    ledger,
		prices:    prices,
		exec:      exec,
		journal:   j,
		log:       log,
		lastReset: time.Now(),
	}
}

// SetScanner installs an optional entry source. Without one the bot only
// manages exits on existing positions.
func (b *Bot) SetScanner(s Scanner) { b.scanner = s }

// Run executes Step on the configured interval until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	interval := time.Duration(b.cfg.CheckIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Hour
	}

	b.log.Infow("bot started", "interval", interval, "dry_run", b.cfg.DryRun)

	// First cycle immediately, then on the ticker.
	b.Step(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.log.Infow("bot stopping")
			return ctx.Err()
		case <-ticker.C:
			b.Step(ctx)
		}
	}
}

// Step runs one full cycle: daily rollover, exit checks, entry scan, capital
// snapshot. Errors inside a cycle are logged and absorbed so one bad product
// never halts monitoring of the others.
func (b *Bot) Step(ctx context.Context) {
	start := time.Now()
	defer func() { CheckCycleDuration.Observe(time.Since(start).Seconds()) }()

	b.rolloverIfNewDay(start)
	b.checkPositions(ctx)

	if b.scanner != nil && b.ledger.Stats().OpenPositions < b.cfg.MaxPositions {
		b.scanForEntries(ctx)
	}

	st := b.ledger.Stats()
	updateLedgerGauges(st)
	if err := b.journal.RecordCapital(journal.CapitalSnapshot{
		Time:           time.Now(),
		CurrentCapital: st.CurrentCapital,
		DailyPnL:       st.DailyPnL,
		DailyTrades:    st.DailyTrades,
		TotalDrawdown:  st.TotalDrawdown,
		OpenPositions:  st.OpenPositions,
	}); err != nil {
		b.log.Errorw("record capital snapshot", "error", err)
	}
}

// rolloverIfNewDay resets the daily counters when the calendar day changes.
func (b *Bot) rolloverIfNewDay(now time.Time) {
	ly, lm, ld := b.lastReset.Date()
	ny, nm, nd := now.Date()
	if ny == ly && nm == lm && nd == ld {
		return
	}
	b.ledger.ResetDaily()
	b.lastReset = now
}

func (b *Bot) checkPositions(ctx context.Context) {
	for _, pos := range b.ledger.Positions() {
		price, err := b.prices.CurrentPrice(ctx, pos.ProductID)
		if err != nil {
			PriceFetchErrors.Inc()
			b.log.Warnw("could not get price", "product_id", pos.ProductID, "error", err)
			continue
		}

		sig := b.ledger.CheckExit(pos.ProductID, price)
		if sig == nil {
			if rep, err := b.ledger.PositionPnL(pos.ProductID, price); err == nil {
				b.log.Infow("holding",
					"product_id", pos.ProductID,
					"net_pnl", rep.NetPnL,
					"pnl_pct", rep.PnLPct,
					"price", price,
					"stop", rep.StopLossPrice)
			}
			continue
		}

		b.log.Infow("exit signal",
			"product_id", pos.ProductID,
			"action", string(sig.Action),
			"reason", sig.Reason)

		if sig.Action == risk.ActionPartialProfit {
			b.reducePosition(ctx, pos, price, sig)
		} else {
			b.closePosition(ctx, pos, price, sig)
		}
	}
}

func (b *Bot) closePosition(ctx context.Context, pos risk.Position, price float64, sig *risk.ExitSignal) {
	fill, err := b.exec.Sell(ctx, pos.ProductID, pos.Quantity, price)
	if err != nil {
		b.log.Errorw("sell order failed", "product_id", pos.ProductID, "error", err)
		return
	}

	res, err := b.ledger.Close(pos.ProductID, fill.Price, fill.Fee, sig.Reason)
	if err != nil {
		b.log.Errorw("ledger close failed", "product_id", pos.ProductID, "error", err)
		return
	}

	TradesClosed.WithLabelValues(string(sig.Action)).Inc()
	b.recordExit(res, fill)
}

func (b *Bot) reducePosition(ctx context.Context, pos risk.Position, price float64, sig *risk.ExitSignal) {
	sellQty := sig.Fraction * pos.OriginalQuantity
	if sellQty > pos.Quantity {
		sellQty = pos.Quantity
	}

	fill, err := b.exec.Sell(ctx, pos.ProductID, sellQty, price)
	if err != nil {
		b.log.Errorw("partial sell order failed", "product_id", pos.ProductID, "error", err)
		return
	}

	res, err := b.ledger.Reduce(pos.ProductID, sig.Fraction, fill.Price, fill.Fee, sig.Reason)
	if err != nil {
		b.log.Errorw("ledger reduce failed", "product_id", pos.ProductID, "error", err)
		return
	}

	TradesClosed.WithLabelValues(string(sig.Action)).Inc()
	b.recordExit(res, fill)
}

func (b *Bot) recordExit(res risk.CloseResult, fill broker.Fill) {
	if err := b.journal.RecordTrade(journal.TradeRecord{
		TradeID:   id.New(),
		ProductID: res.ProductID,
		Side:      "SELL",
		Quantity:  res.Quantity,
		Price:     res.ExitPrice,
		ValueUSD:  res.ExitValue,
		FeeUSD:    fill.Fee,
		NetPnL:    res.NetPnL,
		PnLPct:    res.PnLPct,
		HoldHours: res.HoldTime.Hours(),
		Time:      fill.Time,
		Reason:    res.Reason,
		Notes:     b.notes(),
	}); err != nil {
		b.log.Errorw("record trade", "error", err)
	}
}

func (b *Bot) scanForEntries(ctx context.Context) {
	candidates, err := b.scanner.Scan(ctx)
	if err != nil {
		b.log.Warnw("scan failed", "error", err)
		return
	}

	for _, c := range candidates {
		if b.ledger.Stats().OpenPositions >= b.cfg.MaxPositions {
			return
		}
		b.tryOpen(ctx, c)
	}
}

func (b *Bot) tryOpen(ctx context.Context, c Candidate) {
	balance := b.ledger.CurrentCapital()
	sizeUSD := b.ledger.Size(balance)

	if d := b.ledger.CanOpen(c.ProductID, sizeUSD, balance); !d.Allowed {
		AdmissionRejections.WithLabelValues(d.Code).Inc()
		b.log.Infow("cannot open position",
			"product_id", c.ProductID, "code", d.Code, "reason", d.Reason)
		return
	}

	quantity := sizeUSD / c.Price

	fill, err := b.exec.Buy(ctx, c.ProductID, quantity, c.Price)
	if err != nil {
		b.log.Errorw("buy order failed", "product_id", c.ProductID, "error", err)
		return
	}

	if err := b.ledger.Open(c.ProductID, fill.Quantity, fill.Price, fill.Fee); err != nil {
		b.log.Errorw("ledger open failed", "product_id", c.ProductID, "error", err)
		return
	}

	TradesOpened.Inc()
	if err := b.journal.RecordTrade(journal.TradeRecord{
		TradeID:   id.New(),
		ProductID: c.ProductID,
		Side:      "BUY",
		Quantity:  fill.Quantity,
		Price:     fill.Price,
		ValueUSD:  fill.Quantity * fill.Price,
		FeeUSD:    fill.Fee,
		Time:      fill.Time,
		Reason:    c.Reason,
		Notes:     b.notes(),
	}); err != nil {
		b.log.Errorw("record trade", "error", err)
	}
}

func (b *Bot) notes() string {
	if b.cfg.DryRun {
		return "DRY RUN"
	}
	return "LIVE"
}
