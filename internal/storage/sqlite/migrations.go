package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Records keep the amount as the text that was entered so that a decimal
// comma or a negative sign survives a round trip.
const schema = `
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    period TEXT NOT NULL,
    date TEXT NOT NULL,
    item TEXT NOT NULL,
    creditor TEXT NOT NULL,
    debtors TEXT NOT NULL,
    amount TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    name TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    group_name TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (group_name, name),
    FOREIGN KEY (group_name) REFERENCES groups(name) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_records_period ON records(period);
CREATE INDEX IF NOT EXISTS idx_group_members_group_name ON group_members(group_name);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
