package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rustyeddy/cryptobot/risk"
)

var (
	// TradesOpened counts positions opened.
	TradesOpened = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cryptobot",
		Subsystem: "trading",
		Name:      "trades_opened_total",
		Help:      "Total number of positions opened",
	})

	// TradesClosed counts full and partial exits by reason.
	TradesClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cryptobot",
		Subsystem: "trading",
		Name:      "trades_closed_total",
		Help:      "Total number of exits by reason",
	}, []string{"reason"})

	// AdmissionRejections counts rejected open attempts by check code.
	AdmissionRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cryptobot",
		Subsystem: "trading",
		Name:      "admission_rejections_total",
		Help:      "Total number of open attempts rejected by admission control",
	}, []string{"code"})

	// PriceFetchErrors counts failed price lookups during position checks.
	PriceFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cryptobot",
		Subsystem: "trading",
		Name:      "price_fetch_errors_total",
		Help:      "Total number of failed price fetches",
	})

	// CheckCycleDuration observes the wall time of one full check cycle.
	CheckCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cryptobot",
		Subsystem: "trading",
		Name:      "check_cycle_seconds",
		Help:      "Duration of one position check cycle in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	})

	openPositions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "cryptobot",
		Subsystem: "ledger",
		Name:      "open_positions",
		Help:      "Number of open positions",
	})

	currentCapital = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "cryptobot",
		Subsystem: "ledger",
		Name:      "current_capital_usd",
		Help:      "Available cash, excluding open position value",
	})

	dailyPnL = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "cryptobot",
		Subsystem: "ledger",
		Name:      "daily_pnl_usd",
		Help:      "Realized P&L since the last daily rollover",
	})

	totalDrawdown = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "cryptobot",
		Subsystem: "ledger",
		Name:      "total_drawdown",
		Help:      "Cumulative realized loss as a fraction of initial capital",
	})
)

func updateLedgerGauges(st risk.Stats) {
	openPositions.Set(float64(st.OpenPositions))
	currentCapital.Set(st.CurrentCapital)
	dailyPnL.Set(st.DailyPnL)
	totalDrawdown.Set(st.TotalDrawdown)
}
