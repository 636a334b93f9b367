package causal

func Clone(t Tree) Tree {
	out := Tree{
		SchemaVersion: t.SchemaVersion,
		IncidentID:    t.IncidentID,
		Nodes:         map[string]Node{},
	}
	if t.Nodes == nil {
		out.Nodes = nil
		return out
	}

	for id, n := range t.Nodes {
		out.Nodes[id] = cloneNode(n)
	}
	return out
}

func cloneNode(n Node) Node {
	out := n
	if n.ParentNodes != nil {
		out.ParentNodes = append([]string{}, n.ParentNodes...)
	}
	return out
}
