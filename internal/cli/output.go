// Output formatting shared by report and shell.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/mesh-intelligence/keeper/pkg/types"
)

// maxNameWidth truncates long names in table output.
const maxNameWidth = 40

// itemsReport is the JSON shape of a listing.
type itemsReport struct {
	Items         []types.Item[any] `json:"items"`
	ItemsLoaded   int               `json:"items_loaded"`
	TotalQuantity uint64            `json:"total_quantity"`
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printItemTable prints items in a human-readable table.
func printItemTable(w io.Writer, items []types.Item[any]) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tNAME\tQUANTITY\tPROPERTIES")
	fmt.Fprintln(tw, "--\t----\t--------\t----------")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", it.ID, truncateName(it.Name), it.Quantity, formatProperties(it.Properties))
	}
	tw.Flush()

	// Trim trailing whitespace that tabwriter leaves on the last column.
	for line := range strings.SplitSeq(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// truncateName shortens names longer than maxNameWidth runes, ending them
// with "...".
func truncateName(name string) string {
	if utf8.RuneCountInString(name) <= maxNameWidth {
		return name
	}
	return string([]rune(name)[:maxNameWidth-3]) + "..."
}

// formatProperties renders properties as key=value pairs sorted by key.
func formatProperties(props map[string]any) string {
	if len(props) == 0 {
		return ""
	}
	parts := make([]string, 0, len(props))
	for _, k := range slices.Sorted(maps.Keys(props)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, props[k]))
	}
	return strings.Join(parts, ",")
}
