package causal

import "time"

func node(id string, numero int, typ NodeType, parents ...string) Node {
	if parents == nil {
		parents = []string{}
	}
	return Node{
		ID:          id,
		Numero:      numero,
		NodeType:    typ,
		Fact:        "fact " + id,
		ParentNodes: parents,
	}
}

func treeOf(nodes ...Node) Tree {
	return FromList("INC-1", nodes)
}

func levelIDs(l Levels) map[int][]string {
	out := map[int][]string{}
	for d, nodes := range l {
		for _, n := range nodes {
			out[d] = append(out[d], n.ID)
		}
	}
	return out
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
