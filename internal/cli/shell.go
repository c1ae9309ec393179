package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/keeper/internal/manifest"
	"github.com/mesh-intelligence/keeper/pkg/types"
)

const shellHelp = `Commands:
  add <id|-> <name> <quantity> [key=value ...]     add an item ("-" generates an ID)
  update <id> <name> <quantity> [key=value ...]    replace an item's name, quantity, properties
  delete <id>                                      remove an item
  get <id>                                         show one item
  list                                             show all items in insertion order
  find <name>                                      show items with exactly this name
  total                                            print the total quantity
  help                                             show this help
  quit                                             end the session
Quote names that contain spaces: add - "Hex bolt" 40 size=M8`

// errQuit ends a shell session.
var errQuit = errors.New("quit")

type shellFlags struct {
	manifest string
	prompt   string
}

func newShellCmd(a *app) *cobra.Command {
	var f shellFlags
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive inventory session",
		Long: `Shell reads commands from standard input and applies them to one
in-memory inventory until "quit" or end of input. Type "help" for the
command list. A failed command prints an error and the session continues.

Example:
  keeper shell
  keeper shell --manifest stock.yaml
  keeper shell --backend sqlite --capacity 100 < commands.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.manifest, "manifest", "", "manifest file to seed the session with")
	cmd.Flags().StringVar(&f.prompt, "prompt", "keeper> ", "prompt printed before each command")
	return cmd
}

func (a *app) runShell(cmd *cobra.Command, f shellFlags) error {
	inv, err := a.openInventory()
	if err != nil {
		return err
	}
	defer inv.Close()

	if f.manifest != "" {
		m, err := manifest.Load(f.manifest)
		if err != nil {
			return err
		}
		n, err := manifest.Seed(inv, m.Items, newItemID)
		if err != nil {
			return fmt.Errorf("seed inventory: %w", err)
		}
		a.logger.Info("manifest loaded", "path", f.manifest, "items", n)
	}

	s := &session{
		inv:      inv,
		out:      cmd.OutOrStdout(),
		logger:   a.logger,
		jsonMode: a.flags.jsonMode,
		newID:    newItemID,
	}
	return s.run(cmd.InOrStdin(), f.prompt)
}

// session executes shell commands against one inventory.
type session struct {
	inv      types.Inventory[any]
	out      io.Writer
	logger   *slog.Logger
	jsonMode bool
	newID    func() string
}

// run reads lines from in until quit or EOF. Blank lines and lines starting
// with '#' are skipped.
func (s *session) run(in io.Reader, prompt string) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, prompt)
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		err := s.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			s.logger.Warn("command failed", "line", line, "err", err)
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	if prompt != "" {
		fmt.Fprintln(s.out)
	}
	return sc.Err()
}

// exec runs one command line.
func (s *session) exec(line string) error {
	fields, err := splitFields(line)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]
	s.logger.Debug("shell command", "command", name, "args", len(args))

	switch name {
	case "add":
		return s.add(args)
	case "update":
		return s.update(args)
	case "delete", "rm":
		if len(args) != 1 {
			return errors.New("usage: delete <id>")
		}
		if err := s.inv.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "deleted %s\n", args[0])
		return nil
	case "get":
		if len(args) != 1 {
			return errors.New("usage: get <id>")
		}
		it, err := s.inv.Get(args[0])
		if err != nil {
			return err
		}
		return s.printItems([]types.Item[any]{it})
	case "list", "ls":
		items, err := s.inv.List()
		if err != nil {
			return err
		}
		return s.printItems(items)
	case "find":
		if len(args) != 1 {
			return errors.New("usage: find <name>")
		}
		items, err := s.inv.FindByName(args[0])
		if err != nil {
			return err
		}
		return s.printItems(items)
	case "total":
		total, err := s.inv.TotalQuantity()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "total quantity: %d\n", total)
		return nil
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
		return nil
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try \"help\")", name)
	}
}

func (s *session) add(args []string) error {
	if len(args) < 3 {
		return errors.New("usage: add <id|-> <name> <quantity> [key=value ...]")
	}
	it, err := itemFromArgs(args)
	if err != nil {
		return err
	}
	if it.ID == "-" {
		it.ID = s.newID()
	}
	if err := s.inv.Add(it); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "added %s\n", it.ID)
	return nil
}

func (s *session) update(args []string) error {
	if len(args) < 3 {
		return errors.New("usage: update <id> <name> <quantity> [key=value ...]")
	}
	it, err := itemFromArgs(args)
	if err != nil {
		return err
	}
	if err := s.inv.Update(it.ID, it); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "updated %s\n", it.ID)
	return nil
}

// itemFromArgs builds an item from <id> <name> <quantity> [key=value ...].
func itemFromArgs(args []string) (types.Item[any], error) {
	qty, err := parseQuantity(args[2])
	if err != nil {
		return types.Item[any]{}, err
	}
	props, err := parseProperties(args[3:])
	if err != nil {
		return types.Item[any]{}, err
	}
	return types.Item[any]{ID: args[0], Name: args[1], Quantity: qty, Properties: props}, nil
}

func (s *session) printItems(items []types.Item[any]) error {
	if s.jsonMode {
		return writeJSON(s.out, items)
	}
	printItemTable(s.out, items)
	return nil
}
