package causal

import (
	"errors"
	"fmt"
	"os"

	"github.com/causa-hse/causa/internal/fsutil"
)

var ErrTreeNotFound = errors.New("causal tree file not found")

// Load reads a tree from path. Files ending in .yaml or .yml are parsed as
// YAML, everything else as JSON. Unknown fields are rejected.
func Load(path string) (Tree, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Tree{}, ErrTreeNotFound
		}
		return Tree{}, fmt.Errorf("read tree file %s: %w", path, err)
	}

	var t Tree
	if err := fsutil.DecodeStrict(b, fsutil.IsYAML(path), &t); err != nil {
		return Tree{}, fmt.Errorf("parse tree file %s: %w", path, err)
	}
	return t, nil
}

func SaveAtomic(path string, t Tree) error {
	b, err := fsutil.Encode(t, fsutil.IsYAML(path))
	if err != nil {
		return fmt.Errorf("marshal tree: %w", err)
	}
	return fsutil.WriteFileAtomic(path, b, 0o644)
}
