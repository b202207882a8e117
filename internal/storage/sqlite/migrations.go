package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database tables.
// These run on startup to ensure tables exist.
//
// Email is intentionally not UNIQUE on user: the identity resolver's
// find-or-create has no conflict handling, matching the upstream schema.
// item_counter is a single-row table backing the system-wide monotonic
// item-id sequence; it is incremented atomically inside the event-append
// transaction.
const schema = `
CREATE TABLE IF NOT EXISTS user (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    display_name TEXT NOT NULL,
    email TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS list (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    display_name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS list_user (
    list_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    PRIMARY KEY (list_id, user_id),
    FOREIGN KEY (list_id) REFERENCES list(id),
    FOREIGN KEY (user_id) REFERENCES user(id)
);

CREATE TABLE IF NOT EXISTS list_event (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    list_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    item_id INTEGER NOT NULL,
    display_name TEXT,
    checked INTEGER,
    occured_at INTEGER NOT NULL,
    FOREIGN KEY (list_id) REFERENCES list(id),
    FOREIGN KEY (user_id) REFERENCES user(id)
);

CREATE TABLE IF NOT EXISTS item_counter (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    value INTEGER NOT NULL
);

INSERT OR IGNORE INTO item_counter (id, value) VALUES (1, 0);

CREATE INDEX IF NOT EXISTS idx_list_event_list_id ON list_event(list_id);
CREATE INDEX IF NOT EXISTS idx_list_event_occured_at ON list_event(occured_at);
CREATE INDEX IF NOT EXISTS idx_list_user_user_id ON list_user(user_id);
CREATE INDEX IF NOT EXISTS idx_user_email ON user(email);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
