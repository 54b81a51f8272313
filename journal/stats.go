package journal

// Metrics summarizes realized performance over a set of trade records.
// Only SELL records carry P&L; BUY records contribute fees only.
type Metrics struct {
	TotalTrades  int
	WinCount     int
	LossCount    int
	WinRate      float64 // percent
	ProfitFactor float64
	TotalPnL     float64
	TotalWins    float64
	TotalLosses  float64 // absolute value
	AvgWin       float64
	AvgLoss      float64
	MaxWin       float64
	MaxLoss      float64
	TotalFees    float64
	AvgHoldHours float64
}

// ComputeMetrics derives performance metrics from trade records.
func ComputeMetrics(trades []TradeRecord) Metrics {
	var m Metrics
	var holdSum float64

	for _, t := range trades {
		m.TotalFees += t.FeeUSD

		if t.Side != "SELL" {
			continue
		}

		m.TotalTrades++
		m.TotalPnL += t.NetPnL
		holdSum += t.HoldHours

		switch {
		case t.NetPnL > 0:
			m.WinCount++
			m.TotalWins += t.NetPnL
			if t.NetPnL > m.MaxWin {
				m.MaxWin = t.NetPnL
			}
		case t.NetPnL < 0:
			m.LossCount++
			m.TotalLosses += -t.NetPnL
			if t.NetPnL < m.MaxLoss {
				m.MaxLoss = t.NetPnL
			}
		}
	}

	if m.TotalTrades > 0 {
		m.WinRate = float64(m.WinCount) / float64(m.TotalTrades) * 100
		m.AvgHoldHours = holdSum / float64(m.TotalTrades)
	}
	if m.TotalLosses > 0 {
		m.ProfitFactor = m.TotalWins / m.TotalLosses
	}
	if m.WinCount > 0 {
		m.AvgWin = m.TotalWins / float64(m.WinCount)
	}
	if m.LossCount > 0 {
		m.AvgLoss = m.TotalLosses / float64(m.LossCount)
	}

	return m
}
