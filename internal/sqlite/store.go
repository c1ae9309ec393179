// Package sqlite implements the Inventory contract on an in-memory SQLite
// database. The database lives only as long as the Store: it is opened at
// ":memory:" on a single connection and nothing is written to disk.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/keeper/pkg/types"
)

// memoryDSN selects a private in-memory database. Every pooled connection
// would get its own database, so the pool is pinned to one connection.
const memoryDSN = ":memory:"

// Compile-time interface check: Store must implement Inventory.
var _ types.Inventory[any] = (*Store[any])(nil)

// Store implements types.Inventory on SQLite. Property values are stored as
// JSON, one row per key, with a type tag for scalars held in an interface.
type Store[P any] struct {
	mu       sync.RWMutex
	db       *sql.DB
	capacity int
}

// Open creates an empty Store. A capacity of zero or less means unbounded.
func Open[P any](capacity int) (*Store[P], error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	if capacity < 0 {
		capacity = 0
	}
	return &Store[P]{db: db, capacity: capacity}, nil
}

// Close releases the database. Idempotent; after Close every other
// operation returns ErrInventoryClosed.
func (s *Store[P]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Add inserts a new item and its properties in one transaction.
func (s *Store[P]) Add(item types.Item[P]) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("add item %q: %w", item.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return types.ErrInventoryClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := itemExists(tx, item.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("add item %q: %w", item.ID, types.ErrItemAlreadyExists)
	}

	if s.capacity > 0 {
		var n int
		if err := tx.QueryRow("SELECT COUNT(*) FROM items").Scan(&n); err != nil {
			return fmt.Errorf("counting items: %w", err)
		}
		if n >= s.capacity {
			return fmt.Errorf("add item %q: %w (capacity %d)", item.ID, types.ErrInventoryFull, s.capacity)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO items (item_id, name, quantity) VALUES (?, ?, ?)",
		item.ID, item.Name, item.Quantity,
	); err != nil {
		return fmt.Errorf("inserting item %q: %w", item.ID, err)
	}
	if err := insertProperties(tx, item.ID, item.Properties); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item %q: %w", item.ID, err)
	}
	return nil
}

// Update replaces name, quantity, and properties of the row keyed by id.
// item.ID is ignored.
func (s *Store[P]) Update(id string, item types.Item[P]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return types.ErrInventoryClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := itemExists(tx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("update item %q: %w", id, types.ErrItemNotFound)
	}
	if err := types.ValidateQuantity(item.Quantity); err != nil {
		return fmt.Errorf("update item %q: %w", id, err)
	}

	if _, err := tx.Exec(
		"UPDATE items SET name = ?, quantity = ? WHERE item_id = ?",
		item.Name, item.Quantity, id,
	); err != nil {
		return fmt.Errorf("updating item %q: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM item_properties WHERE item_id = ?", id); err != nil {
		return fmt.Errorf("clearing properties of %q: %w", id, err)
	}
	if err := insertProperties(tx, id, item.Properties); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item %q: %w", id, err)
	}
	return nil
}

// Delete removes the item and its properties.
func (s *Store[P]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return types.ErrInventoryClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM item_properties WHERE item_id = ?", id); err != nil {
		return fmt.Errorf("deleting properties of %q: %w", id, err)
	}
	res, err := tx.Exec("DELETE FROM items WHERE item_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting item %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete item %q: %w", id, types.ErrItemNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing deletion of %q: %w", id, err)
	}
	return nil
}

// Get returns the item with the given ID, or ErrItemNotFound.
func (s *Store[P]) Get(id string) (types.Item[P], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return types.Item[P]{}, types.ErrInventoryClosed
	}

	var it types.Item[P]
	err := s.db.QueryRow(
		"SELECT item_id, name, quantity FROM items WHERE item_id = ?", id,
	).Scan(&it.ID, &it.Name, &it.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Item[P]{}, fmt.Errorf("get item %q: %w", id, types.ErrItemNotFound)
	}
	if err != nil {
		return types.Item[P]{}, fmt.Errorf("getting item %q: %w", id, err)
	}

	if it.Properties, err = s.loadProperties(id); err != nil {
		return types.Item[P]{}, err
	}
	return it, nil
}

// List returns every item ordered by insertion.
func (s *Store[P]) List() ([]types.Item[P], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, types.ErrInventoryClosed
	}
	return s.queryItems("SELECT item_id, name, quantity FROM items ORDER BY seq")
}

// FindByName returns the items whose name matches exactly. SQLite's
// default BINARY collation keeps the comparison case-sensitive.
func (s *Store[P]) FindByName(name string) ([]types.Item[P], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, types.ErrInventoryClosed
	}
	return s.queryItems("SELECT item_id, name, quantity FROM items WHERE name = ? ORDER BY seq", name)
}

// TotalQuantity sums quantities in SQL.
func (s *Store[P]) TotalQuantity() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return 0, types.ErrInventoryClosed
	}

	var total int64
	if err := s.db.QueryRow("SELECT COALESCE(SUM(quantity), 0) FROM items").Scan(&total); err != nil {
		return 0, fmt.Errorf("summing quantities: %w", err)
	}
	return uint64(total), nil
}

// Len returns the row count of the items table.
func (s *Store[P]) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return 0, types.ErrInventoryClosed
	}

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

// queryItems runs an item query, closes the cursor, then hydrates
// properties. The pool has one connection, so the cursor must be closed
// before the next query.
func (s *Store[P]) queryItems(query string, args ...any) ([]types.Item[P], error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}

	items := []types.Item[P]{}
	for rows.Next() {
		var it types.Item[P]
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	for i := range items {
		if items[i].Properties, err = s.loadProperties(items[i].ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// loadProperties decodes the property rows of one item. Returns nil when
// the item has none.
func (s *Store[P]) loadProperties(id string) (map[string]P, error) {
	rows, err := s.db.Query("SELECT key, value, value_type FROM item_properties WHERE item_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying properties of %q: %w", id, err)
	}
	defer rows.Close()

	var props map[string]P
	for rows.Next() {
		var key, raw, tag string
		if err := rows.Scan(&key, &raw, &tag); err != nil {
			return nil, fmt.Errorf("scanning property of %q: %w", id, err)
		}
		v, err := decodeValue[P](raw, tag)
		if err != nil {
			return nil, fmt.Errorf("decoding property %q of %q: %w", key, id, err)
		}
		if props == nil {
			props = make(map[string]P)
		}
		props[key] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties of %q: %w", id, err)
	}
	return props, nil
}

// itemExists reports whether a row with the given item_id exists.
func itemExists(tx *sql.Tx, id string) (bool, error) {
	var one int
	err := tx.QueryRow("SELECT 1 FROM items WHERE item_id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking item existence: %w", err)
	}
	return true, nil
}

// insertProperties writes one JSON-encoded row per property.
func insertProperties[P any](tx *sql.Tx, id string, props map[string]P) error {
	for key, v := range props {
		raw, tag, err := encodeValue(v)
		if err != nil {
			return fmt.Errorf("encoding property %q of %q: %w", key, id, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO item_properties (item_id, key, value, value_type) VALUES (?, ?, ?, ?)",
			id, key, raw, tag,
		); err != nil {
			return fmt.Errorf("inserting property %q of %q: %w", key, id, err)
		}
	}
	return nil
}
