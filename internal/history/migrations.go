package history

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
    id TEXT PRIMARY KEY,
    task TEXT NOT NULL,
    minutes_amount INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'in_progress',
    start_date TEXT NOT NULL,
    interrupted_date TEXT,
    finished_date TEXT
);

CREATE INDEX IF NOT EXISTS idx_cycles_status ON cycles(status);
CREATE INDEX IF NOT EXISTS idx_cycles_start_date ON cycles(start_date);
`
