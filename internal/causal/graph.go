package causal

import "sort"

// Effects returns the ids of nodes that list id as a direct cause, in numero order.
func Effects(t Tree, id string) []string {
	out := make([]Node, 0)
	for _, n := range t.Nodes {
		for _, parentID := range n.ParentNodes {
			if parentID == id {
				out = append(out, n)
				break
			}
		}
	}
	sortByNumero(out)
	ids := make([]string, len(out))
	for i, n := range out {
		ids[i] = n.ID
	}
	return ids
}

// Causes returns the direct causes of id that exist in the tree, in numero order.
func Causes(t Tree, id string) []Node {
	n, ok := t.Nodes[id]
	if !ok {
		return nil
	}
	out := make([]Node, 0, len(n.ParentNodes))
	for _, parentID := range n.ParentNodes {
		if p, ok := t.Nodes[parentID]; ok {
			out = append(out, p)
		}
	}
	sortByNumero(out)
	return out
}

// CauseCycle returns a cycle in the parentNodes graph if one exists, else nil.
//
// The returned slice includes the starting node again at the end to show closure,
// e.g. ["A", "B", "C", "A"].
func CauseCycle(t Tree) []string {
	state := map[string]visitState{} // visitNew default
	onStack := map[string]int{}      // id -> index in stack
	var stack []string
	var cycle []string

	var dfs func(id string)
	dfs = func(id string) {
		if len(cycle) > 0 {
			return
		}

		state[id] = visitVisiting
		onStack[id] = len(stack)
		stack = append(stack, id)

		n, ok := t.Nodes[id]
		if ok {
			for _, parentID := range n.ParentNodes {
				if len(cycle) > 0 {
					return
				}
				// Unknown parents are handled by validation; ignore them for cycle detection.
				if _, ok := t.Nodes[parentID]; !ok {
					continue
				}

				switch state[parentID] {
				case visitNew:
					dfs(parentID)
				case visitVisiting:
					idx := onStack[parentID]
					cycle = append([]string{}, stack[idx:]...)
					cycle = append(cycle, parentID)
					return
				case visitDone:
					// nothing
				}
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, id)
		state[id] = visitDone
	}

	ids := make([]string, 0, len(t.Nodes))
	for id := range t.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if state[id] == visitNew {
			dfs(id)
			if len(cycle) > 0 {
				return cycle
			}
		}
	}

	return nil
}

// causePath returns the shortest chain from -> ... -> to following
// parentNodes, or nil when from does not reach to.
func causePath(t Tree, from string, to string) []string {
	prev := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == to {
			var path []string
			for cur := to; cur != ""; cur = prev[cur] {
				path = append([]string{cur}, path...)
			}
			return path
		}
		n, ok := t.Nodes[id]
		if !ok {
			continue
		}
		for _, parentID := range n.ParentNodes {
			if _, seen := prev[parentID]; seen {
				continue
			}
			prev[parentID] = id
			queue = append(queue, parentID)
		}
	}
	return nil
}

func joinCycle(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	out := ids[0]
	for i := 1; i < len(ids); i++ {
		out += " -> " + ids[i]
	}
	return out
}

func contains(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}

type visitState uint8

const (
	visitNew visitState = iota
	visitVisiting
	visitDone
)
