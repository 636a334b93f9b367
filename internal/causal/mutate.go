package causal

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownNode      = errors.New("unknown node id")
	ErrDuplicateFinal   = errors.New("tree already has a final event")
	ErrFinalEventCause  = errors.New("final event cannot be a cause")
	ErrSelfCause        = errors.New("node cannot be its own cause")
	ErrAlreadyLinked    = errors.New("cause already linked")
	ErrNotLinked        = errors.New("cause not linked")
	ErrInvalidNodeInput = errors.New("invalid node input")
)

type CycleError struct {
	Cycle []string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("cause cycle detected: %s", joinCycle(e.Cycle))
}

// NodeInput describes a node to add. CauseOf lists existing nodes the new
// node is a direct cause of.
type NodeInput struct {
	NodeType NodeType
	Fact     string
	CauseOf  []string
}

// newID is swapped in tests for deterministic ids.
var newID = uuid.NewString

// NextNumero returns one past the highest numero in the tree.
func NextNumero(t Tree) int {
	next := 1
	for _, n := range t.Nodes {
		if n.Numero >= next {
			next = n.Numero + 1
		}
	}
	return next
}

func AddNode(t *Tree, in NodeInput, now time.Time) (Node, error) {
	if t.Nodes == nil {
		t.Nodes = map[string]Node{}
	}
	if _, ok := ParseNodeType(string(in.NodeType)); !ok {
		return Node{}, fmt.Errorf("%w: invalid nodeType %q", ErrInvalidNodeInput, in.NodeType)
	}
	if in.Fact == "" {
		return Node{}, fmt.Errorf("%w: fact is required", ErrInvalidNodeInput)
	}
	if in.NodeType == NodeFinalEvent {
		if final, ok := FinalEvent(*t); ok {
			return Node{}, fmt.Errorf("%w: %q", ErrDuplicateFinal, final.ID)
		}
		if len(in.CauseOf) > 0 {
			return Node{}, ErrFinalEventCause
		}
	}
	for _, effectID := range in.CauseOf {
		if _, ok := t.Nodes[effectID]; !ok {
			return Node{}, fmt.Errorf("%w: %q", ErrUnknownNode, effectID)
		}
	}

	n := Node{
		ID:          newID(),
		Numero:      NextNumero(*t),
		NodeType:    in.NodeType,
		Fact:        in.Fact,
		ParentNodes: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.Nodes[n.ID] = n

	seen := map[string]bool{}
	for _, effectID := range in.CauseOf {
		if seen[effectID] {
			continue
		}
		seen[effectID] = true
		effect := t.Nodes[effectID]
		effect.ParentNodes = append(effect.ParentNodes, n.ID)
		effect.UpdatedAt = now
		t.Nodes[effectID] = effect
	}
	return n, nil
}

// LinkCause records causeID as a direct cause of id.
func LinkCause(t *Tree, id string, causeID string, now time.Time) error {
	n, ok := t.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	cause, ok := t.Nodes[causeID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, causeID)
	}
	if id == causeID {
		return ErrSelfCause
	}
	if cause.NodeType == NodeFinalEvent {
		return ErrFinalEventCause
	}
	if contains(n.ParentNodes, causeID) {
		return fmt.Errorf("%w: %q -> %q", ErrAlreadyLinked, id, causeID)
	}
	// Linking closes a cycle when id is already among causeID's causes.
	if path := causePath(*t, causeID, id); path != nil {
		return CycleError{Cycle: append([]string{id}, path...)}
	}

	n.ParentNodes = append(append([]string{}, n.ParentNodes...), causeID)
	n.UpdatedAt = now
	t.Nodes[id] = n
	return nil
}

func UnlinkCause(t *Tree, id string, causeID string, now time.Time) error {
	n, ok := t.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if !contains(n.ParentNodes, causeID) {
		return fmt.Errorf("%w: %q -> %q", ErrNotLinked, id, causeID)
	}
	n.ParentNodes = removeID(n.ParentNodes, causeID)
	n.UpdatedAt = now
	t.Nodes[id] = n
	return nil
}

// RemoveNode deletes id and drops it from every other node's causes.
func RemoveNode(t *Tree, id string, now time.Time) error {
	if _, ok := t.Nodes[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	delete(t.Nodes, id)
	for otherID, n := range t.Nodes {
		if !contains(n.ParentNodes, id) {
			continue
		}
		n.ParentNodes = removeID(n.ParentNodes, id)
		n.UpdatedAt = now
		t.Nodes[otherID] = n
	}
	return nil
}

// Renumber assigns numero 1..n following the current numero order.
func Renumber(t *Tree, now time.Time) {
	nodes := NodeList(*t)
	for i, n := range nodes {
		if n.Numero == i+1 {
			continue
		}
		n.Numero = i + 1
		n.UpdatedAt = now
		t.Nodes[n.ID] = n
	}
}

// ResolveRef finds a node by id or by its numero written in decimal.
func ResolveRef(t Tree, ref string) (Node, bool) {
	if n, ok := t.Nodes[ref]; ok {
		return n, true
	}
	numero, err := strconv.Atoi(ref)
	if err != nil {
		return Node{}, false
	}
	for _, id := range sortedKeys(t.Nodes) {
		if t.Nodes[id].Numero == numero {
			return t.Nodes[id], true
		}
	}
	return Node{}, false
}

func removeID(ids []string, target string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
