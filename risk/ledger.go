package risk

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/cryptobot/config"
)

var (
	// ErrPositionExists is returned when opening a product that already has
	// an open position.
	ErrPositionExists = errors.New("position already exists")

	// ErrNoPosition is returned when closing or querying an unknown product.
	ErrNoPosition = errors.New("no open position")
)

// Ledger tracks cash and the set of open positions. current capital is cash
// only; the market value of open positions is carried at entry price inside
// the position set, never marked to market.
//
// All mutating operations are serialized behind one mutex. The expected
// caller is a single control loop, but the lock makes the ledger safe to
// embed in a service context.
type Ledger struct {
	mu    sync.Mutex
	cfg   *config.Config
	log   *zap.SugaredLogger
	store *Store

	positions      map[string]*Position
	currentCapital float64
	initialCapital float64
	dailyPnL       float64
	dailyTrades    int
	totalDrawdown  float64
}

// CloseResult records the realized outcome of a full or partial exit.
type CloseResult struct {
	ProductID  string
	Quantity   float64 // quantity sold
	EntryPrice float64
	ExitPrice  float64
	EntryValue float64
	ExitValue  float64
	GrossPnL   float64
	TotalFees  float64
	NetPnL     float64
	PnLPct     float64
	HoldTime   time.Duration
	Reason     string
	Remaining  float64 // quantity still open; 0 on a full close
}

// Stats is a point-in-time snapshot of the ledger counters.
type Stats struct {
	CurrentCapital float64
	InitialCapital float64
	DailyPnL       float64
	DailyTrades    int
	TotalDrawdown  float64
	OpenPositions  int
}

// NewLedger builds a ledger with capital from cfg and, when store is
// non-nil, restores persisted state. Persistence failures are logged and
// absorbed: the ledger starts from defaults rather than halting the caller.
func NewLedger(cfg *config.Config, store *Store, log *zap.SugaredLogger) *Ledger {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	l := &Ledger{
		cfg:            cfg,
		log:            log,
		store:          store,
		positions:      make(map[string]*Position),
		currentCapital: cfg.InitialCapital,
		initialCapital: cfg.InitialCapital,
	}

	if store != nil {
		st, err := store.Load(cfg.InitialCapital, len(cfg.PartialProfitLevels))
		if err != nil {
			log.Errorw("load positions failed, starting from defaults", "error", err)
		} else if st != nil {
			l.currentCapital = st.CurrentCapital
			l.dailyPnL = st.DailyPnL
			l.dailyTrades = st.DailyTrades
			l.totalDrawdown = st.TotalDrawdown
			l.positions = st.Positions
			log.Infow("restored capital state",
				"current_capital", l.currentCapital,
				"initial_capital", l.initialCapital,
				"positions", len(l.positions))
		}
	}

	return l
}

// Open opens a new position and debits its cost (entry value + fee) from
// capital. The admission checks in CanOpen are the caller's responsibility;
// Open only enforces the one-position-per-product invariant.
func (l *Ledger) Open(productID string, quantity, entryPrice, entryFee float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.positions[productID]; ok {
		l.log.Errorw("position already exists", "product_id", productID)
		return ErrPositionExists
	}

	pos := newPosition(productID, quantity, entryPrice, entryFee, time.Now(), len(l.cfg.PartialProfitLevels))
	l.positions[productID] = pos
	l.currentCapital -= pos.EntryValue() + entryFee

	l.log.Infow("opened position",
		"product_id", productID,
		"quantity", quantity,
		"entry_price", entryPrice,
		"entry_fee", entryFee,
		"remaining_capital", l.currentCapital)

	l.persistLocked()
	return nil
}

// Close fully exits a position, credits the proceeds (exit value - exit fee)
// and updates daily P&L, trade count and drawdown.
func (l *Ledger) Close(productID string, exitPrice, exitFee float64, reason string) (CloseResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[productID]
	if !ok {
		l.log.Errorw("no position found", "product_id", productID)
		return CloseResult{}, ErrNoPosition
	}

	res := l.realizeLocked(pos, pos.Quantity, exitPrice, exitFee, pos.EntryFee, reason)
	delete(l.positions, productID)

	l.log.Infow("closed position",
		"product_id", productID,
		"net_pnl", res.NetPnL,
		"pnl_pct", res.PnLPct,
		"reason", reason,
		"current_capital", l.currentCapital)

	l.persistLocked()
	return res, nil
}

// Reduce sells fraction × original quantity of a position. The entry fee is
// realized on the final close, not apportioned across tranches. When the
// remainder would be dust the whole position is closed instead.
func (l *Ledger) Reduce(productID string, fraction, exitPrice, exitFee float64, reason string) (CloseResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[productID]
	if !ok {
		l.log.Errorw("no position found", "product_id", productID)
		return CloseResult{}, ErrNoPosition
	}

	sellQty := fraction * pos.OriginalQuantity
	if sellQty > pos.Quantity {
		sellQty = pos.Quantity
	}

	const dust = 1e-9
	if pos.Quantity-sellQty <= dust {
		// Remainder too small to carry: final close, entry fee realized now.
		res := l.realizeLocked(pos, pos.Quantity, exitPrice, exitFee, pos.EntryFee, reason)
		delete(l.positions, productID)
		l.log.Infow("closed position on final tranche",
			"product_id", productID, "net_pnl", res.NetPnL, "reason", reason)
		l.persistLocked()
		return res, nil
	}

	res := l.realizeLocked(pos, sellQty, exitPrice, exitFee, 0, reason)
	pos.Quantity -= sellQty
	res.Remaining = pos.Quantity

	l.log.Infow("reduced position",
		"product_id", productID,
		"sold", sellQty,
		"remaining", pos.Quantity,
		"net_pnl", res.NetPnL,
		"reason", reason)

	l.persistLocked()
	return res, nil
}

// realizeLocked books the P&L of selling sellQty at exitPrice and returns the
// trade record. entryFee is the portion of the entry fee charged against this
// tranche (the full fee on a final close, zero on partials).
func (l *Ledger) realizeLocked(pos *Position, sellQty, exitPrice, exitFee, entryFee float64, reason string) CloseResult {
	entryValue := pos.EntryPrice * sellQty
	exitValue := exitPrice * sellQty
	grossPnL := exitValue - entryValue
	totalFees := entryFee + exitFee
	netPnL := grossPnL - totalFees
	pnlPct := netPnL / (entryValue + entryFee) * 100

	l.currentCapital += exitValue - exitFee
	l.dailyPnL += netPnL
	l.dailyTrades++
	if netPnL < 0 {
		l.totalDrawdown += -netPnL / l.initialCapital
	}

	return CloseResult{
		ProductID:  pos.ProductID,
		Quantity:   sellQty,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  exitPrice,
		EntryValue: entryValue,
		ExitValue:  exitValue,
		GrossPnL:   grossPnL,
		TotalFees:  totalFees,
		NetPnL:     netPnL,
		PnLPct:     pnlPct,
		HoldTime:   time.Since(pos.OpenTime),
		Reason:     reason,
	}
}

// Position returns a copy of one open position.
func (l *Ledger) Position(productID string) (Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[productID]
	if !ok {
		return Position{}, false
	}
	return pos.clone(), true
}

// Positions returns copies of all open positions.
func (l *Ledger) Positions() []Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Position, 0, len(l.positions))
	for _, pos := range l.positions {
		out = append(out, pos.clone())
	}
	return out
}

// Stats returns the current capital counters.
func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Stats{
		CurrentCapital: l.currentCapital,
		InitialCapital: l.initialCapital,
		DailyPnL:       l.dailyPnL,
		DailyTrades:    l.dailyTrades,
		TotalDrawdown:  l.totalDrawdown,
		OpenPositions:  len(l.positions),
	}
}

// CurrentCapital returns available cash (excludes open position value).
func (l *Ledger) CurrentCapital() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentCapital
}

// ResetDaily clears the daily P&L and trade count. Triggered externally once
// per calendar day; the ledger has no internal clock.
func (l *Ledger) ResetDaily() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.dailyPnL = 0
	l.dailyTrades = 0
	l.log.Infow("reset daily metrics")
	l.persistLocked()
}

// ResetDrawdown clears the cumulative drawdown. This is the explicit
// administrative action that re-arms the kill switch; it never happens
// automatically.
func (l *Ledger) ResetDrawdown() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.totalDrawdown = 0
	l.log.Warnw("drawdown reset by administrative action")
	l.persistLocked()
}

func (l *Ledger) persistLocked() {
	if l.store == nil {
		return
	}

	st := &State{
		CurrentCapital: l.currentCapital,
		InitialCapital: l.initialCapital,
		DailyPnL:       l.dailyPnL,
		DailyTrades:    l.dailyTrades,
		TotalDrawdown:  l.totalDrawdown,
		Positions:      l.positions,
	}
	if err := l.store.Save(st); err != nil {
		l.log.Errorw("save positions failed", "error", err)
	}
}
