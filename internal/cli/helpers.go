// Shared helpers for keeper CLI commands.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/keeper/pkg/inventory"
	"github.com/mesh-intelligence/keeper/pkg/types"
)

// errUnterminatedQuote is returned by splitFields for an unbalanced quote.
var errUnterminatedQuote = errors.New("unterminated quote")

// openInventory opens an empty inventory whose property values are
// whatever the manifest or shell supplies.
func openInventory(cfg types.Config) (types.Inventory[any], error) {
	return inventory.Open[any](cfg)
}

// newItemID generates a UUID v7 for items created without an ID.
func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// splitFields splits a shell line on whitespace. Double or single quotes
// group words; the quotes themselves are dropped.
func splitFields(line string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		quote   rune
		inField bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inField = true
		case r == ' ' || r == '\t':
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
		default:
			cur.WriteRune(r)
			inField = true
		}
	}
	if quote != 0 {
		return nil, errUnterminatedQuote
	}
	if inField {
		fields = append(fields, cur.String())
	}
	return fields, nil
}

// parseQuantity parses a decimal quantity. Range checks are left to the
// inventory, which reports ErrInvalidQuantity.
func parseQuantity(s string) (int64, error) {
	q, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", types.ErrInvalidQuantity, s)
	}
	return q, nil
}

// parseProperties turns key=value arguments into a property map. Values
// are kept as strings. Returns nil for no arguments.
func parseProperties(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	props := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("property %q must be key=value", arg)
		}
		props[key] = value
	}
	return props, nil
}
