// Package types defines the Item entity, the Inventory contract, the
// backend Config, and the standard error values for the keeper inventory
// registry.
package types
