package causal

import (
	"os"
	"path/filepath"
)

// TreePath returns the tree file path for the current working directory.
func TreePath() string {
	wd, err := os.Getwd()
	if err != nil {
		// If this fails, other file ops will fail too; keep path deterministic.
		return DefaultTreeFilename
	}
	return filepath.Join(wd, DefaultTreeFilename)
}
