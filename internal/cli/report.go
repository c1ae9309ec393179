package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/keeper/internal/manifest"
	"github.com/mesh-intelligence/keeper/pkg/types"
)

type reportFlags struct {
	manifest string
	name     string
}

func newReportCmd(a *app) *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Load a manifest and print its items and total quantity",
		Long: `Report seeds an in-memory inventory from a manifest file (.yaml, .yml,
.toml, or .json), then prints the items and the total quantity.

Use --name to restrict the listing to items with exactly that name. The
loaded count and the total quantity always cover the whole manifest.

Example:
  keeper report --manifest stock.yaml
  keeper report --manifest stock.toml --name Widget
  keeper report --manifest stock.json --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.manifest, "manifest", "", "manifest file to load (required)")
	cmd.Flags().StringVar(&f.name, "name", "", "only list items with this exact name")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func (a *app) runReport(cmd *cobra.Command, f reportFlags) error {
	m, err := manifest.Load(f.manifest)
	if err != nil {
		return err
	}

	inv, err := a.openInventory()
	if err != nil {
		return err
	}
	defer inv.Close()

	n, err := manifest.Seed(inv, m.Items, newItemID)
	if err != nil {
		return fmt.Errorf("seed inventory: %w", err)
	}
	a.logger.Info("manifest loaded", "path", f.manifest, "items", n)

	var items []types.Item[any]
	if cmd.Flags().Changed("name") {
		items, err = inv.FindByName(f.name)
	} else {
		items, err = inv.List()
	}
	if err != nil {
		return sysErr(fmt.Errorf("list items: %w", err))
	}

	total, err := inv.TotalQuantity()
	if err != nil {
		return sysErr(fmt.Errorf("total quantity: %w", err))
	}

	w := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(w, itemsReport{Items: items, ItemsLoaded: n, TotalQuantity: total})
	}
	printItemTable(w, items)
	fmt.Fprintf(w, "Items listed: %d\n", len(items))
	fmt.Fprintf(w, "Items loaded: %d\n", n)
	fmt.Fprintf(w, "Total quantity: %d\n", total)
	return nil
}
