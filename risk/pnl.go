package risk

// PnLReport is an unrealized P&L view of one open position. The exit fee is
// estimated at the taker rate.
type PnLReport struct {
	ProductID       string
	Quantity        float64
	EntryPrice      float64
	CurrentPrice    float64
	EntryValue      float64
	CurrentValue    float64
	GrossPnL        float64
	TotalFees       float64
	NetPnL          float64
	PnLPct          float64
	StopLossPrice   float64
	TakeProfitPrice float64
	BreakEvenPrice  float64
}

// PositionPnL reports unrealized P&L for an open position at currentPrice.
func (l *Ledger) PositionPnL(productID string, currentPrice float64) (PnLReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[productID]
	if !ok {
		return PnLReport{}, ErrNoPosition
	}

	entryValue := pos.EntryPrice * pos.Quantity
	currentValue := currentPrice * pos.Quantity
	grossPnL := currentValue - entryValue

	exitFee := currentValue * l.cfg.TakerFee
	totalFees := pos.EntryFee + exitFee
	netPnL := grossPnL - totalFees

	return PnLReport{
		ProductID:       productID,
		Quantity:        pos.Quantity,
		EntryPrice:      pos.EntryPrice,
		CurrentPrice:    currentPrice,
		EntryValue:      entryValue,
		CurrentValue:    currentValue,
		GrossPnL:        grossPnL,
		TotalFees:       totalFees,
		NetPnL:          netPnL,
		PnLPct:          netPnL / (entryValue + pos.EntryFee) * 100,
		StopLossPrice:   pos.EntryPrice * (1 - l.cfg.StopLossPct),
		TakeProfitPrice: pos.EntryPrice * (1 + l.cfg.TakeProfitPct),
		BreakEvenPrice:  BreakEvenPrice(pos.EntryPrice, l.cfg.TakerFee),
	}, nil
}
