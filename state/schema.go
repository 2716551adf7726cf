package state

var (
	// table stores key-value pairs. Keys are the store keys built in
	// state.go, values the encoded records.
	kvTable = `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY NOT NULL,
		value BLOB NOT NULL,
		CONSTRAINT chk_key CHECK (key != '')
	);`

	queryGet = `SELECT value FROM kv WHERE key = ?`
	queryPut = `INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`
)
