package risk

import "fmt"

// Action identifies an exit instruction produced by CheckExit.
type Action string

const (
	ActionStopLoss      Action = "STOP_LOSS"
	ActionTakeProfit    Action = "TAKE_PROFIT"
	ActionPartialProfit Action = "PARTIAL_PROFIT"
	ActionTrailingStop  Action = "TRAILING_STOP"
)

// ExitSignal is at most one exit instruction per evaluation. Fraction is the
// share of the original quantity to liquidate and is set only for
// PARTIAL_PROFIT; every other action is a full exit.
type ExitSignal struct {
	Action   Action
	Reason   string
	Fraction float64
	Level    int
}

// CheckExit evaluates exit conditions for one position at the current price.
// Returns nil when the position should be held or does not exist.
//
// This is NOT a pure function: it ratchets partial-profit flags and advances
// the trailing peak on the position, and those mutations persist across calls
// whether or not a signal fires. Callers that receive PARTIAL_PROFIT are
// expected to apply the fractional reduction via Reduce.
//
// Priority is strict and deliberate: stop loss first, so a capital-protection
// signal can never be masked by a profit-taking or trailing state.
func (l *Ledger) CheckExit(productID string, currentPrice float64) *ExitSignal {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[productID]
	if !ok {
		return nil
	}
	return l.evaluateExitLocked(pos, currentPrice)
}

func (l *Ledger) evaluateExitLocked(pos *Position, currentPrice float64) *ExitSignal {
	pnlPct := pos.PnLPct(currentPrice)

	// 1. Stop loss. Boundary is inclusive.
	if pnlPct <= -l.cfg.StopLossPct {
		return &ExitSignal{
			Action: ActionStopLoss,
			Reason: fmt.Sprintf("hit stop loss at %.2f%%", pnlPct*100),
		}
	}

	// 2. Take profit, optionally in partial tranches.
	if pnlPct >= l.cfg.TakeProfitPct {
		if !l.cfg.PartialProfitEnabled {
			return &ExitSignal{
				Action: ActionTakeProfit,
				Reason: fmt.Sprintf("hit take profit at %.2f%%", pnlPct*100),
			}
		}
		return l.checkPartialProfitsLocked(pos, pnlPct)
	}

	// 3. Trailing stop, armed once the activation threshold is reached.
	if l.cfg.TrailingStopEnabled && pnlPct >= l.cfg.TrailingStopActivationPct {
		if currentPrice > pos.PeakPrice {
			pos.PeakPrice = currentPrice
			pos.PeakPnLPct = pnlPct
		}

		dropFromPeak := (pos.PeakPrice - currentPrice) / pos.PeakPrice
		if dropFromPeak >= l.cfg.TrailingStopDistancePct {
			return &ExitSignal{
				Action: ActionTrailingStop,
				Reason: fmt.Sprintf("trailing stop triggered (drop %.2f%% from peak)", dropFromPeak*100),
			}
		}
	}

	return nil
}

// checkPartialProfitsLocked scans the configured levels in ascending order
// and marks the first unhit level whose threshold is crossed. Once every
// level has been taken the remainder closes as a take profit.
func (l *Ledger) checkPartialProfitsLocked(pos *Position, pnlPct float64) *ExitSignal {
	for i, level := range l.cfg.PartialProfitLevels {
		if pnlPct >= level && !pos.PartialHit[i] {
			pos.PartialHit[i] = true
			amount := l.cfg.PartialProfitAmounts[i]
			return &ExitSignal{
				Action:   ActionPartialProfit,
				Reason:   fmt.Sprintf("take %.0f%% profit at +%.0f%%", amount*100, level*100),
				Fraction: amount,
				Level:    i,
			}
		}
	}

	if pos.allPartialsHit() {
		return &ExitSignal{
			Action: ActionTakeProfit,
			Reason: "all partial profit levels hit",
		}
	}

	return nil
}
