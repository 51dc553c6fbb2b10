package store

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the decisions database schema.
const Schema = `
-- Verification decisions table
CREATE TABLE IF NOT EXISTS decisions (
    process_number TEXT PRIMARY KEY,

    disposition TEXT NOT NULL,
    rationale TEXT NOT NULL,
    citations TEXT,
    confidence REAL,

    elapsed_ms INTEGER NOT NULL,
    provenance TEXT NOT NULL,
    decided_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_decisions_decided_at ON decisions(decided_at);
CREATE INDEX IF NOT EXISTS idx_decisions_disposition ON decisions(disposition);
CREATE INDEX IF NOT EXISTS idx_decisions_provenance ON decisions(provenance);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
