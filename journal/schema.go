// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	snapshot_id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL UNIQUE,
	fetched_at DATETIME NOT NULL,
	timezone TEXT NOT NULL,
	tz_offset INTEGER NOT NULL,
	balance REAL NOT NULL,
	currency TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS closed_trades (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(snapshot_id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	action TEXT NOT NULL,
	sizing_type TEXT NOT NULL,
	sizing_value TEXT NOT NULL,
	open_price REAL NOT NULL,
	close_price REAL NOT NULL,
	tp REAL NOT NULL,
	sl REAL NOT NULL,
	comment TEXT NOT NULL,
	pips REAL NOT NULL,
	profit REAL NOT NULL,
	interest REAL NOT NULL,
	commission REAL NOT NULL,
	PRIMARY KEY (snapshot_id, seq)
);

CREATE TABLE IF NOT EXISTS open_positions (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(snapshot_id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	open_time DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	action TEXT NOT NULL,
	sizing_type TEXT NOT NULL,
	sizing_value TEXT NOT NULL,
	open_price REAL NOT NULL,
	tp REAL NOT NULL,
	sl REAL NOT NULL,
	comment TEXT NOT NULL,
	profit REAL NOT NULL,
	pips REAL NOT NULL,
	swap REAL NOT NULL,
	magic INTEGER NOT NULL,
	PRIMARY KEY (snapshot_id, seq)
);

CREATE TABLE IF NOT EXISTS daily (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(snapshot_id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	date TEXT NOT NULL,
	balance REAL NOT NULL,
	pips REAL NOT NULL,
	lots REAL NOT NULL,
	floating_pl REAL NOT NULL,
	profit REAL NOT NULL,
	growth_equity REAL NOT NULL,
	floating_pips REAL NOT NULL,
	PRIMARY KEY (snapshot_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_closed_trades_close ON closed_trades(snapshot_id, close_time);
`
