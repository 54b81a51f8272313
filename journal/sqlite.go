package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, product_id, side, quantity, price, value_usd, fee_usd, net_pnl, pnl_pct, hold_hours, time, reason, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.ProductID, t.Side, t.Quantity, t.Price, t.ValueUSD,
		t.FeeUSD, t.NetPnL, t.PnLPct, t.HoldHours, t.Time, t.Reason, t.Notes,
	)
	return err
}

func (j *SQLiteJournal) RecordCapital(c CapitalSnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO capital
		(time, current_capital, daily_pnl, daily_trades, total_drawdown, open_positions)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.Time, c.CurrentCapital, c.DailyPnL, c.DailyTrades, c.TotalDrawdown, c.OpenPositions,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
