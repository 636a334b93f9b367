package client

import (
	"context"

	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/investigation"
)

// incidentPayload is the incident resource; report sections are embedded.
type incidentPayload struct {
	investigation.Incident
	FlashReport *investigation.FlashReport `json:"flashReport,omitempty"`
	FinalReport *investigation.FinalReport `json:"finalReport,omitempty"`
}

type causalTreePayload struct {
	Nodes []causal.Node `json:"nodes"`
}

type actionsPayload struct {
	Actions []investigation.Action `json:"actions"`
}

// Incident fetches the incident record with its flash and final reports.
func (c *Client) Incident(ctx context.Context, id string) (investigation.Document, error) {
	var p incidentPayload
	if err := c.getJSON(ctx, c.endpoint("incidents", id), &p); err != nil {
		return investigation.Document{}, err
	}
	d := investigation.NewDocument(p.Incident)
	d.FlashReport = p.FlashReport
	d.FinalReport = p.FinalReport
	return d, nil
}

// CausalTree fetches the incident's causal nodes as a tree.
func (c *Client) CausalTree(ctx context.Context, id string) (causal.Tree, error) {
	var p causalTreePayload
	if err := c.getJSON(ctx, c.endpoint("incidents", id, "causal-tree"), &p); err != nil {
		return causal.Tree{}, err
	}
	return causal.FromList(id, p.Nodes), nil
}

func (c *Client) Actions(ctx context.Context, id string) ([]investigation.Action, error) {
	var p actionsPayload
	if err := c.getJSON(ctx, c.endpoint("incidents", id, "actions"), &p); err != nil {
		return nil, err
	}
	return p.Actions, nil
}

// Investigation fetches the incident, its causal tree and its action plan
// concurrently and assembles them into one document.
func (c *Client) Investigation(ctx context.Context, id string) (investigation.Document, error) {
	var (
		doc     investigation.Document
		tree    causal.Tree
		actions []investigation.Action
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doc, err = c.Incident(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		tree, err = c.CausalTree(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		actions, err = c.Actions(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return investigation.Document{}, err
	}

	doc.CausalTree = &tree
	doc.Actions = actions
	c.log.Info("fetched investigation",
		zap.String("incident", id),
		zap.Int("nodes", len(tree.Nodes)),
		zap.Int("actions", len(actions)))
	return doc, nil
}
