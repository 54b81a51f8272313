package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	product_id TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity REAL NOT NULL,
	price REAL NOT NULL,
	value_usd REAL NOT NULL,
	fee_usd REAL NOT NULL,
	net_pnl REAL NOT NULL,
	pnl_pct REAL NOT NULL,
	hold_hours REAL NOT NULL,
	time DATETIME NOT NULL,
	reason TEXT NOT NULL,
	notes TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS capital (
	time DATETIME NOT NULL,
	current_capital REAL NOT NULL,
	daily_pnl REAL NOT NULL,
	daily_trades INTEGER NOT NULL,
	total_drawdown REAL NOT NULL,
	open_positions INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
CREATE INDEX IF NOT EXISTS idx_capital_time ON capital(time);
`
