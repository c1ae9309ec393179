package sqlite

// Schema DDL. seq preserves insertion order; item_id carries the key.
const (
	createItems = `CREATE TABLE items (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    quantity INTEGER NOT NULL CHECK (quantity >= 0)
);`

	createItemProperties = `CREATE TABLE item_properties (
    item_id TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    value_type TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (item_id, key),
    FOREIGN KEY (item_id) REFERENCES items(item_id)
);`
)

// Index DDL for name lookups.
const (
	idxItemsName = `CREATE INDEX idx_items_name ON items(name);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createItems,
	createItemProperties,
	idxItemsName,
}
