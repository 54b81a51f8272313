package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetTrade returns a single trade record by ID.
func (j *SQLiteJournal) GetTrade(tradeID string) (TradeRecord, error) {
	var rec TradeRecord

	row := j.db.QueryRow(`
		SELECT trade_id, product_id, side, quantity, price, value_usd, fee_usd, net_pnl, pnl_pct, hold_hours, time, reason, notes
		FROM trades
		WHERE trade_id = ?`, tradeID)

	err := scanTrade(row, &rec)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesBetween returns trades whose time is within [start, end).
func (j *SQLiteJournal) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, product_id, side, quantity, price, value_usd, fee_usd, net_pnl, pnl_pct, hold_hours, time, reason, notes
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := scanTrade(rows, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllTrades returns every recorded trade in time order.
func (j *SQLiteJournal) ListAllTrades() ([]TradeRecord, error) {
	return j.ListTradesBetween(time.Time{}, time.Now().Add(24*time.Hour))
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTrade(row scannable, rec *TradeRecord) error {
	return row.Scan(
		&rec.TradeID,
		&rec.ProductID,
		&rec.Side,
		&rec.Quantity,
		&rec.Price,
		&rec.ValueUSD,
		&rec.FeeUSD,
		&rec.NetPnL,
		&rec.PnLPct,
		&rec.HoldHours,
		&rec.Time,
		&rec.Reason,
		&rec.Notes,
	)
}
