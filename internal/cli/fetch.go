package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/client"
	"github.com/causa-hse/causa/internal/investigation"
	"github.com/causa-hse/causa/internal/labels"
)

func runFetch(args []string) error {
	fs := newFlagSet("fetch")
	treeArg := treeFlag(fs)
	outDoc := fs.String("out-doc", "", "investigation document to write")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return UsageError{Message: "fetch requires exactly 1 argument: <incident-id>"}
	}
	incidentID := pos[0]

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	if rt.cfg.API.BaseURL == "" {
		return errors.New("api.baseUrl is not configured (run `causa config set api.baseUrl <url>`)")
	}

	c, err := client.New(client.Config{
		BaseURL:       rt.cfg.API.BaseURL,
		TokenProvider: client.EnvTokenProvider(rt.cfg.API.TokenEnv),
		HTTPClient:    &http.Client{Timeout: time.Duration(rt.cfg.API.TimeoutSeconds) * time.Second},
		Logger:        rt.log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	doc, err := c.Investigation(ctx, incidentID)
	if err != nil {
		if errors.Is(err, client.ErrNoToken) {
			return fmt.Errorf("%w (set %s)", err, rt.cfg.API.TokenEnv)
		}
		return fmt.Errorf("fetch incident %s: %w", incidentID, err)
	}

	for _, e := range investigation.Validate(doc, labels.ParseLocale(rt.cfg.Export.Locale).Tag()) {
		rt.log.Warn("fetched document issue", zap.String("path", e.Path), zap.String("message", e.Message))
	}

	treePath := resolveTreePath(*treeArg)
	tree := causal.NewEmptyTree(incidentID)
	if doc.CausalTree != nil {
		tree = *doc.CausalTree
	}
	if err := saveTree(treePath, tree); err != nil {
		return err
	}

	docPath := *outDoc
	if docPath == "" {
		docPath = defaultDocumentPath()
	}
	if err := investigation.SaveAtomic(docPath, doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	fmt.Fprintf(os.Stdout, "fetched %s: %d nodes, %d actions\n", incidentID, len(tree.Nodes), len(doc.Actions))
	fmt.Fprintf(os.Stdout, "tree: %s\n", treePath)
	fmt.Fprintf(os.Stdout, "document: %s\n", docPath)
	return nil
}
