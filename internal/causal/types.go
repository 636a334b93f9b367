package causal

import "time"

const (
	DefaultTreeFilename = "causa.tree.json"
	SchemaVersion       = 1
)

// Tree is a root-cause analysis graph. Edges run from a node to the nodes
// listed in its ParentNodes, i.e. from an effect to its direct causes.
type Tree struct {
	SchemaVersion int             `json:"schemaVersion" yaml:"schemaVersion"`
	IncidentID    string          `json:"incidentId,omitempty" yaml:"incidentId,omitempty"`
	Nodes         map[string]Node `json:"nodes" yaml:"nodes"`
}

type NodeType string

const (
	NodeFinalEvent    NodeType = "final_event"
	NodeUnusualFact   NodeType = "unusual_fact"
	NodePermanentFact NodeType = "permanent_fact"
	NodeRootCause     NodeType = "root_cause"
)

type Node struct {
	ID          string    `json:"id" yaml:"id"`
	Numero      int       `json:"numero" yaml:"numero"`
	NodeType    NodeType  `json:"nodeType" yaml:"nodeType"`
	Fact        string    `json:"fact" yaml:"fact"`
	ParentNodes []string  `json:"parentNodes" yaml:"parentNodes"`
	CreatedAt   time.Time `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero" yaml:"updatedAt,omitempty"`
}

func NewEmptyTree(incidentID string) Tree {
	return Tree{
		SchemaVersion: SchemaVersion,
		IncidentID:    incidentID,
		Nodes:         map[string]Node{},
	}
}

// ParseNodeType reports whether s names a known node type.
func ParseNodeType(s string) (NodeType, bool) {
	switch t := NodeType(s); t {
	case NodeFinalEvent, NodeUnusualFact, NodePermanentFact, NodeRootCause:
		return t, true
	default:
		return "", false
	}
}

// NodeList returns the tree's nodes ordered by numero, then id.
func NodeList(t Tree) []Node {
	out := make([]Node, 0, len(t.Nodes))
	for _, n := range t.Nodes {
		out = append(out, n)
	}
	sortByNumero(out)
	return out
}

// FromList builds a tree from a node list. Later duplicates of an id win.
func FromList(incidentID string, nodes []Node) Tree {
	t := NewEmptyTree(incidentID)
	for _, n := range nodes {
		if n.ParentNodes == nil {
			n.ParentNodes = []string{}
		}
		t.Nodes[n.ID] = n
	}
	return t
}

// FinalEvent returns the first final_event node in numero order.
func FinalEvent(t Tree) (Node, bool) {
	for _, n := range NodeList(t) {
		if n.NodeType == NodeFinalEvent {
			return n, true
		}
	}
	return Node{}, false
}
