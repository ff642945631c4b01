package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS partial_runs (
    video_id   TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    raw_text   TEXT NOT NULL,
    chunk_size INTEGER NOT NULL DEFAULT 0,
    completed  INTEGER NOT NULL,
    total      INTEGER NOT NULL,
    document   TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`
