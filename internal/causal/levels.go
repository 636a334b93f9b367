package causal

import "sort"

// Levels groups nodes by their distance from the final event.
type Levels map[int][]Node

// ComputeLevels assigns each node a depth by breadth-first search from the
// final event along parentNodes, then buckets nodes by depth with each bucket
// sorted by numero.
//
// A node keeps the depth of the first path that reaches it. Nodes the search
// never reaches are placed at depth 0 next to the final event. Without a
// final event the result is empty. Cycles terminate because a node is only
// assigned a depth once.
func ComputeLevels(nodes []Node) Levels {
	depth := assignDepths(nodes)
	if depth == nil {
		return Levels{}
	}

	levels := Levels{}
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		d := depth[n.ID] // unreached nodes read as 0
		levels[d] = append(levels[d], n)
	}
	for d := range levels {
		sortByNumero(levels[d])
	}
	return levels
}

// TreeLevels is ComputeLevels over the tree's nodes in numero order.
func TreeLevels(t Tree) Levels {
	return ComputeLevels(NodeList(t))
}

// Unreachable returns the ids of nodes that ComputeLevels places at depth 0
// only because the search never reached them. It is nil when there is no
// final event.
func Unreachable(nodes []Node) []string {
	depth := assignDepths(nodes)
	if depth == nil {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, n := range nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		if _, ok := depth[n.ID]; !ok {
			out = append(out, n.ID)
		}
	}
	return out
}

// Depths returns the populated depths in ascending order.
func (l Levels) Depths() []int {
	out := make([]int, 0, len(l))
	for d := range l {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// MaxDepth returns the deepest populated level, or -1 when empty.
func (l Levels) MaxDepth() int {
	deepest := -1
	for d := range l {
		if d > deepest {
			deepest = d
		}
	}
	return deepest
}

// DepthOf returns the level holding id.
func (l Levels) DepthOf(id string) (int, bool) {
	for d, nodes := range l {
		for _, n := range nodes {
			if n.ID == id {
				return d, true
			}
		}
	}
	return 0, false
}

func assignDepths(nodes []Node) map[string]int {
	index := make(map[string]Node, len(nodes))
	var final *Node
	for i := range nodes {
		if _, ok := index[nodes[i].ID]; !ok {
			index[nodes[i].ID] = nodes[i]
		}
		if final == nil && nodes[i].NodeType == NodeFinalEvent {
			final = &nodes[i]
		}
	}
	if final == nil {
		return nil
	}

	depth := map[string]int{final.ID: 0}
	queue := []string{final.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		n, ok := index[id]
		if !ok {
			continue
		}
		for _, parentID := range n.ParentNodes {
			if _, ok := index[parentID]; !ok {
				continue
			}
			if _, ok := depth[parentID]; ok {
				continue
			}
			depth[parentID] = depth[id] + 1
			queue = append(queue, parentID)
		}
	}
	return depth
}

func sortByNumero(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Numero != nodes[j].Numero {
			return nodes[i].Numero < nodes[j].Numero
		}
		return nodes[i].ID < nodes[j].ID
	})
}
