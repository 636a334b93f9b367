package cli

import (
	"github.com/causa-hse/causa/internal/labels"
	"github.com/causa-hse/causa/internal/tui"
)

// startTUI is swapped in tests; the real program needs a terminal.
var startTUI = tui.Start

func runTUI(args []string) error {
	fs := newFlagSet("tui")
	treeArg := treeFlag(fs)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 0 {
		return UsageError{Message: "tui takes no arguments"}
	}

	t, err := loadTree(resolveTreePath(*treeArg))
	if err != nil {
		return err
	}
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	return startTUI(t, labels.ParseLocale(rt.cfg.Export.Locale))
}
