package journal

import "time"

// TradeRecord is one executed fill, entry or exit. Exit records carry
// realized P&L; entry records leave those fields zero.
type TradeRecord struct {
	TradeID   string
	ProductID string
	Side      string // "BUY" or "SELL"
	Quantity  float64
	Price     float64
	ValueUSD  float64
	FeeUSD    float64
	NetPnL    float64
	PnLPct    float64
	HoldHours float64
	Time      time.Time
	Reason    string
	Notes     string
}

// CapitalSnapshot is the ledger's counters at one point in time.
type CapitalSnapshot struct {
	Time           time.Time
	CurrentCapital float64
	DailyPnL       float64
	DailyTrades    int
	TotalDrawdown  float64
	OpenPositions  int
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordCapital(CapitalSnapshot) error
	Close() error
}
