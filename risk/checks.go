package risk

import "fmt"

// Decision is the outcome of admission control. A rejected decision carries
// the code of the first failing check and a human-readable reason.
type Decision struct {
	Allowed bool
	Code    string
	Reason  string
}

func reject(code, reason string) Decision {
	return Decision{Allowed: false, Code: code, Reason: reason}
}

// CanOpen decides whether a new position may be opened. Checks run in a fixed
// order and the first failure wins; the call never mutates the ledger, so
// repeated calls with unchanged state return identical decisions.
func (l *Ledger) CanOpen(productID string, sizeUSD, balance float64) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.positions[productID]; ok {
		return reject("POSITION_EXISTS",
			fmt.Sprintf("already have position in %s", productID))
	}

	if len(l.positions) >= l.cfg.MaxPositions {
		return reject("MAX_POSITIONS",
			fmt.Sprintf("max positions (%d) reached", l.cfg.MaxPositions))
	}

	if sizeUSD < l.cfg.MinTradeUSD {
		return reject("BELOW_MIN_SIZE",
			fmt.Sprintf("trade size $%.2f below minimum $%.2f", sizeUSD, l.cfg.MinTradeUSD))
	}

	if sizeUSD > balance*l.cfg.MaxPositionPct {
		return reject("SIZE_OVER_LIMIT",
			fmt.Sprintf("trade size exceeds %.0f%% of balance", l.cfg.MaxPositionPct*100))
	}

	if feePct := RoundTripFeePct(l.cfg.MakerFee, l.cfg.TakerFee); feePct > l.cfg.MaxFeePct {
		return reject("FEES_TOO_HIGH",
			fmt.Sprintf("fees (%.2f%%) exceed max (%.2f%%)", feePct*100, l.cfg.MaxFeePct*100))
	}

	// Capital-preservation kill switch. No automatic reset; see ResetDrawdown.
	if l.totalDrawdown >= l.cfg.MaxDrawdownPct {
		return reject("MAX_DRAWDOWN",
			fmt.Sprintf("max drawdown (%.0f%%) reached - trading paused", l.cfg.MaxDrawdownPct*100))
	}

	// Daily circuit breaker. Cleared only by the daily rollover.
	maxDailyLoss := l.initialCapital * l.cfg.MaxDailyLossPct
	if l.dailyPnL <= -maxDailyLoss {
		return reject("DAILY_LOSS_LIMIT",
			fmt.Sprintf("daily loss limit ($%.2f) reached", maxDailyLoss))
	}

	return Decision{Allowed: true, Code: "OK", Reason: "OK"}
}

// Size converts an available balance into a trade size using the configured
// position fraction and taker fee.
func (l *Ledger) Size(balance float64) float64 {
	return SizeUSD(balance, l.cfg.MaxPositionPct, l.cfg.TakerFee)
}
