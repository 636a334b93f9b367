package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/causa-hse/causa/internal/causal"
)

type UsageError struct {
	Message string
}

func (e UsageError) Error() string { return e.Message }

func Usage() string {
	return `causa: incident causal tree and RUT toolkit

Usage:
  causa init [--incident <id>]
  causa validate
  causa levels
  causa show <id|numero>
  causa add <type> <fact> [--cause-of <id|numero>]...
  causa link <id|numero> <cause-id|numero>
  causa unlink <id|numero> <cause-id|numero>
  causa remove <id|numero>
  causa renumber
  causa tui
  causa export [--format <format>] [--out <path>] [--doc <path>]
  causa fetch <incident-id> [--out-doc <path>]
  causa rut check|format|dv <value>
  causa config [list | set <key> <value> [--global] | unset <key> [--global]]

Tree commands accept --tree <path> (default ./causa.tree.json; .yaml/.yml files are YAML).

Node types:
  final_event | unusual_fact | permanent_fact | root_cause

Export formats:
  markdown | html | csv | text | json | yaml
`
}

// now is swapped in tests for stable timestamps.
var now = func() time.Time { return time.Now().UTC() }

func Run(args []string) error {
	if len(args) == 0 {
		return UsageError{Message: "missing command"}
	}

	rest := args[1:]
	switch args[0] {
	case "help", "-h", "--help":
		fmt.Fprintln(os.Stdout, Usage())
		return nil
	case "init":
		return runInit(rest)
	case "validate":
		return runValidate(rest)
	case "levels":
		return runLevels(rest)
	case "show":
		return runShow(rest)
	case "add":
		return runAdd(rest)
	case "link":
		return runLink(rest)
	case "unlink":
		return runUnlink(rest)
	case "remove":
		return runRemove(rest)
	case "renumber":
		return runRenumber(rest)
	case "tui":
		return runTUI(rest)
	case "export":
		return runExport(rest)
	case "fetch":
		return runFetch(rest)
	case "rut":
		return runRUT(rest)
	case "config":
		return runConfig(rest)
	default:
		return UsageError{Message: fmt.Sprintf("unknown command: %q", args[0])}
	}
}

// newFlagSet returns a silent flag set; parse errors surface as UsageError.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func treeFlag(fs *flag.FlagSet) *string {
	return fs.String("tree", "", "causal tree file")
}

// parseArgs lets flags appear before, between or after positional
// arguments and returns the positionals in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, UsageError{Message: err.Error()}
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func resolveTreePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return causal.TreePath()
}

func loadTree(path string) (causal.Tree, error) {
	t, err := causal.Load(path)
	if err != nil {
		if errors.Is(err, causal.ErrTreeNotFound) {
			return causal.Tree{}, fmt.Errorf("tree file not found: %s (run `causa init`)", path)
		}
		return causal.Tree{}, err
	}
	return t, nil
}

func saveTree(path string, t causal.Tree) error {
	if err := causal.SaveAtomic(path, t); err != nil {
		return fmt.Errorf("write tree file: %w", err)
	}
	return nil
}

// resolveNode maps a user reference (id or numero) to a node id.
func resolveNode(t causal.Tree, ref string) (string, error) {
	n, ok := causal.ResolveRef(t, ref)
	if !ok {
		return "", fmt.Errorf("unknown node %q", ref)
	}
	return n.ID, nil
}
