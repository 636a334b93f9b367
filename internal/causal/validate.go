package causal

import (
	"fmt"
	"sort"
)

type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func Validate(t Tree) []ValidationError {
	var errs []ValidationError

	if t.SchemaVersion == 0 {
		errs = append(errs, ValidationError{Path: "$.schemaVersion", Message: "required"})
	} else if t.SchemaVersion != SchemaVersion {
		errs = append(errs, ValidationError{
			Path:    "$.schemaVersion",
			Message: fmt.Sprintf("unsupported schemaVersion %d (expected %d)", t.SchemaVersion, SchemaVersion),
		})
	}

	if t.Nodes == nil {
		errs = append(errs, ValidationError{Path: "$.nodes", Message: "required (must be an object/map)"})
		return errs
	}

	keys := sortedKeys(t.Nodes)

	var finals []string
	numeros := map[int]string{}
	for _, key := range keys {
		n := t.Nodes[key]
		path := fmt.Sprintf("$.nodes[%q]", key)

		if key == "" {
			errs = append(errs, ValidationError{Path: "$.nodes", Message: "node key must be non-empty"})
		}
		if n.ID == "" {
			errs = append(errs, ValidationError{Path: path + ".id", Message: "required"})
		}
		if n.ID != "" && n.ID != key {
			errs = append(errs, ValidationError{Path: path + ".id", Message: fmt.Sprintf("must match map key %q", key)})
		}

		if n.Numero <= 0 {
			errs = append(errs, ValidationError{Path: path + ".numero", Message: "must be a positive integer"})
		} else if other, ok := numeros[n.Numero]; ok {
			errs = append(errs, ValidationError{
				Path:    path + ".numero",
				Message: fmt.Sprintf("numero %d already used by %q", n.Numero, other),
			})
		} else {
			numeros[n.Numero] = key
		}

		if _, ok := ParseNodeType(string(n.NodeType)); !ok {
			errs = append(errs, ValidationError{Path: path + ".nodeType", Message: fmt.Sprintf("invalid nodeType %q", n.NodeType)})
		}
		if n.NodeType == NodeFinalEvent {
			finals = append(finals, key)
		}

		if n.Fact == "" {
			errs = append(errs, ValidationError{Path: path + ".fact", Message: "required"})
		}
		if n.ParentNodes == nil {
			errs = append(errs, ValidationError{Path: path + ".parentNodes", Message: "required (use [] if none)"})
		}

		if !n.CreatedAt.IsZero() && !n.UpdatedAt.IsZero() && n.UpdatedAt.Before(n.CreatedAt) {
			errs = append(errs, ValidationError{Path: path + ".updatedAt", Message: "must be >= createdAt"})
		}
	}

	switch len(finals) {
	case 1:
	case 0:
		errs = append(errs, ValidationError{Path: "$.nodes", Message: "exactly one final_event node is required (found none)"})
	default:
		errs = append(errs, ValidationError{
			Path:    "$.nodes",
			Message: fmt.Sprintf("exactly one final_event node is required (found %d: %s)", len(finals), joinList(finals)),
		})
	}

	// Parent references exist, are unique, and never point at the final event.
	for _, key := range keys {
		n := t.Nodes[key]
		path := fmt.Sprintf("$.nodes[%q]", key)

		seen := map[string]bool{}
		for i, parentID := range n.ParentNodes {
			ppath := fmt.Sprintf("%s.parentNodes[%d]", path, i)
			if parentID == "" {
				errs = append(errs, ValidationError{Path: ppath, Message: "parent id must be non-empty"})
				continue
			}
			if seen[parentID] {
				errs = append(errs, ValidationError{Path: ppath, Message: fmt.Sprintf("duplicate parent id %q", parentID)})
				continue
			}
			seen[parentID] = true

			if parentID == key {
				errs = append(errs, ValidationError{Path: ppath, Message: "node cannot be its own cause"})
				continue
			}
			parent, ok := t.Nodes[parentID]
			if !ok {
				errs = append(errs, ValidationError{Path: ppath, Message: fmt.Sprintf("unknown parent id %q", parentID)})
				continue
			}
			if parent.NodeType == NodeFinalEvent {
				errs = append(errs, ValidationError{Path: ppath, Message: fmt.Sprintf("final event %q cannot be a cause", parentID)})
			}
		}
	}

	if cycle := CauseCycle(t); len(cycle) > 0 {
		errs = append(errs, ValidationError{
			Path:    "$.nodes",
			Message: fmt.Sprintf("cause cycle detected: %s", joinCycle(cycle)),
		})
	}

	return errs
}

func sortedKeys(nodes map[string]Node) []string {
	keys := make([]string, 0, len(nodes))
	for k := range nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinList(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += id
	}
	return out
}
