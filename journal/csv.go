package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSVJournal appends records to two flat files, one for trades and one for
// capital snapshots. Existing files keep their history; headers are written
// only on first creation.
type CSVJournal struct {
	trades  *csv.Writer
	capital *csv.Writer
	tf, cf  *os.File
}

func NewCSV(tradesPath, capitalPath string) (*CSVJournal, error) {
	tf, tw, err := openAppend(tradesPath,
		[]string{"trade_id", "product_id", "side", "quantity", "price", "value_usd", "fee_usd", "net_pnl", "pnl_pct", "hold_hours", "time", "reason", "notes"})
	if err != nil {
		return nil, err
	}
	cf, cw, err := openAppend(capitalPath,
		[]string{"time", "current_capital", "daily_pnl", "daily_trades", "total_drawdown", "open_positions"})
	if err != nil {
		tf.Close()
		return nil, err
	}

	return &CSVJournal{tw, cw, tf, cf}, nil
}

func openAppend(path string, header []string) (*os.File, *csv.Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	w := csv.NewWriter(f)

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, nil, err
		}
	}

	return f, w, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.TradeID,
		t.ProductID,
		t.Side,
		f(t.Quantity),
		f(t.Price),
		f(t.ValueUSD),
		f(t.FeeUSD),
		f(t.NetPnL),
		f(t.PnLPct),
		f(t.HoldHours),
		t.Time.Format(time.RFC3339),
		t.Reason,
		t.Notes,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordCapital(c CapitalSnapshot) error {
	err := j.capital.Write([]string{
		c.Time.Format(time.RFC3339),
		f(c.CurrentCapital),
		f(c.DailyPnL),
		strconv.Itoa(c.DailyTrades),
		f(c.TotalDrawdown),
		strconv.Itoa(c.OpenPositions),
	})
	if err != nil {
		return err
	}
	j.capital.Flush()
	return j.capital.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.capital.Flush()
	if err := j.capital.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.cf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
