package investigation

import (
	"errors"
	"fmt"
	"os"

	"github.com/causa-hse/causa/internal/fsutil"
)

var ErrDocumentNotFound = errors.New("investigation document not found")

func Load(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, ErrDocumentNotFound
		}
		return Document{}, fmt.Errorf("read document %s: %w", path, err)
	}

	var d Document
	if err := fsutil.DecodeStrict(b, fsutil.IsYAML(path), &d); err != nil {
		return Document{}, fmt.Errorf("parse document %s: %w", path, err)
	}
	return d, nil
}

func SaveAtomic(path string, d Document) error {
	b, err := fsutil.Encode(d, fsutil.IsYAML(path))
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return fsutil.WriteFileAtomic(path, b, 0o644)
}
