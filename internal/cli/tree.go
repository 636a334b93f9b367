package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/labels"
)

func runInit(args []string) error {
	fs := newFlagSet("init")
	treeArg := treeFlag(fs)
	incident := fs.String("incident", "", "incident id")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 0 {
		return UsageError{Message: "init takes only flags (no positional args)"}
	}

	path := resolveTreePath(*treeArg)
	_, err = os.Stat(path)
	if err == nil {
		fmt.Fprintf(os.Stdout, "tree already exists: %s\n", path)
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat tree file: %w", err)
	}

	if err := saveTree(path, causal.NewEmptyTree(*incident)); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "created tree: %s\n", path)
	return nil
}

func runValidate(args []string) error {
	fs := newFlagSet("validate")
	treeArg := treeFlag(fs)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 0 {
		return UsageError{Message: "validate takes no arguments"}
	}

	path := resolveTreePath(*treeArg)
	t, err := loadTree(path)
	if err != nil {
		return err
	}

	errs := causal.Validate(t)
	if len(errs) == 0 {
		fmt.Fprintln(os.Stdout, "OK")
		return nil
	}

	fmt.Fprintf(os.Stdout, "invalid tree: %s\n", path)
	for _, e := range errs {
		fmt.Fprintf(os.Stdout, "- %s: %s\n", e.Path, e.Message)
	}
	return errors.New("validation failed")
}

func runLevels(args []string) error {
	fs := newFlagSet("levels")
	treeArg := treeFlag(fs)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 0 {
		return UsageError{Message: "levels takes no arguments"}
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
	locale := labels.ParseLocale(rt.cfg.Export.Locale)

	levels := causal.TreeLevels(t)
	if len(levels) == 0 {
		fmt.Fprintln(os.Stdout, "no final event; nothing to level")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		strings.ToUpper(labels.Heading("level", locale)),
		labels.Heading("numero", locale),
		strings.ToUpper(labels.Heading("type", locale)),
		strings.ToUpper(labels.Heading("fact", locale)),
		strings.ToUpper(labels.Heading("causes", locale)),
	)
	for _, depth := range levels.Depths() {
		for _, n := range levels[depth] {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
				depth, n.Numero, labels.NodeType(n.NodeType, locale), n.Fact, causeNumeros(t, n))
		}
	}
	_ = w.Flush()

	if unreachable := causal.Unreachable(causal.NodeList(t)); len(unreachable) > 0 {
		rt.log.Warn("nodes not connected to the final event", zap.Strings("ids", unreachable))
		fmt.Fprintf(os.Stdout, "\n%s: %s\n", labels.Heading("unreachable", locale), numerosFor(t, unreachable))
	}
	return nil
}

func runShow(args []string) error {
	fs := newFlagSet("show")
	treeArg := treeFlag(fs)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return UsageError{Message: "show requires exactly 1 argument: <id|numero>"}
	}

	t, err := loadTree(resolveTreePath(*treeArg))
	if err != nil {
		return err
	}
	n, ok := causal.ResolveRef(t, pos[0])
	if !ok {
		return fmt.Errorf("unknown node %q", pos[0])
	}

	fmt.Fprintf(os.Stdout, "ID: %s\n", n.ID)
	fmt.Fprintf(os.Stdout, "Numero: %d\n", n.Numero)
	fmt.Fprintf(os.Stdout, "Type: %s\n", n.NodeType)
	if depth, ok := causal.TreeLevels(t).DepthOf(n.ID); ok {
		fmt.Fprintf(os.Stdout, "Level: %d\n", depth)
	} else {
		fmt.Fprintln(os.Stdout, "Level: -")
	}
	if !n.CreatedAt.IsZero() {
		fmt.Fprintf(os.Stdout, "CreatedAt: %s\n", n.CreatedAt.UTC().Format(time.RFC3339))
	}
	if !n.UpdatedAt.IsZero() {
		fmt.Fprintf(os.Stdout, "UpdatedAt: %s\n", n.UpdatedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(os.Stdout)

	fmt.Fprintln(os.Stdout, "Fact:")
	fmt.Fprintf(os.Stdout, "%s\n\n", n.Fact)

	fmt.Fprintln(os.Stdout, "Causes:")
	printNodeRefs(t, n.ParentNodes)
	fmt.Fprintln(os.Stdout)

	fmt.Fprintln(os.Stdout, "Effects:")
	printNodeRefs(t, causal.Effects(t, n.ID))
	return nil
}

func printNodeRefs(t causal.Tree, ids []string) {
	if len(ids) == 0 {
		fmt.Fprintln(os.Stdout, "- (none)")
		return
	}
	for _, id := range ids {
		ref, ok := t.Nodes[id]
		if !ok {
			fmt.Fprintf(os.Stdout, "- %s [unknown]\n", id)
			continue
		}
		fmt.Fprintf(os.Stdout, "- %d [%s] %s\n", ref.Numero, ref.NodeType, ref.Fact)
	}
}

func runAdd(args []string) error {
	fs := newFlagSet("add")
	treeArg := treeFlag(fs)
	var causeOf stringList
	fs.Var(&causeOf, "cause-of", "node this fact causes (repeatable)")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return UsageError{Message: "add requires exactly 2 arguments: <type> <fact>"}
	}
	nodeType, ok := causal.ParseNodeType(pos[0])
	if !ok {
		return UsageError{Message: fmt.Sprintf("invalid node type %q", pos[0])}
	}

	path := resolveTreePath(*treeArg)
	t, err := loadTree(path)
	if err != nil {
		return err
	}

	in := causal.NodeInput{NodeType: nodeType, Fact: strings.TrimSpace(pos[1])}
	for _, ref := range causeOf {
		id, err := resolveNode(t, ref)
		if err != nil {
			return err
		}
		in.CauseOf = append(in.CauseOf, id)
	}

	n, err := causal.AddNode(&t, in, now())
	if err != nil {
		return err
	}
	if err := saveTree(path, t); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "added %d %s (%s)\n", n.Numero, n.ID, n.NodeType)
	return nil
}

func runLink(args []string) error {
	return runCauseEdit("link", args, causal.LinkCause, "linked %s as a cause of %s\n")
}

func runUnlink(args []string) error {
	return runCauseEdit("unlink", args, causal.UnlinkCause, "unlinked %s from %s\n")
}

func runCauseEdit(name string, args []string, apply func(*causal.Tree, string, string, time.Time) error, done string) error {
	fs := newFlagSet(name)
	treeArg := treeFlag(fs)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return UsageError{Message: fmt.Sprintf("%s requires exactly 2 arguments: <id> <cause-id>", name)}
	}

	path := resolveTreePath(*treeArg)
	t, err := loadTree(path)
	if err != nil {
		return err
	}
	id, err := resolveNode(t, pos[0])
	if err != nil {
		return err
	}
	causeID, err := resolveNode(t, pos[1])
	if err != nil {
		return err
	}

	if err := apply(&t, id, causeID, now()); err != nil {
		return err
	}
	if err := saveTree(path, t); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, done, causeID, id)
	return nil
}

func runRemove(args []string) error {
	fs := newFlagSet("remove")
	treeArg := treeFlag(fs)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return UsageError{Message: "remove requires exactly 1 argument: <id|numero>"}
	}

	path := resolveTreePath(*treeArg)
	t, err := loadTree(path)
	if err != nil {
		return err
	}
	id, err := resolveNode(t, pos[0])
	if err != nil {
		return err
	}
	if err := causal.RemoveNode(&t, id, now()); err != nil {
		return err
	}
	if err := saveTree(path, t); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "removed %s\n", id)
	return nil
}

func runRenumber(args []string) error {
	fs := newFlagSet("renumber")
	treeArg := treeFlag(fs)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 0 {
		return UsageError{Message: "renumber takes no arguments"}
	}

	path := resolveTreePath(*treeArg)
	t, err := loadTree(path)
	if err != nil {
		return err
	}
	causal.Renumber(&t, now())
	if err := saveTree(path, t); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "renumbered %d nodes\n", len(t.Nodes))
	return nil
}

func causeNumeros(t causal.Tree, n causal.Node) string {
	return numerosFor(t, n.ParentNodes)
}

// numerosFor lists nodes by numero; ids missing from the tree are shown as-is.
func numerosFor(t causal.Tree, ids []string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if ref, ok := t.Nodes[id]; ok {
			parts = append(parts, strconv.Itoa(ref.Numero))
			continue
		}
		parts = append(parts, id)
	}
	return strings.Join(parts, ", ")
}
