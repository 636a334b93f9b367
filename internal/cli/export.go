package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/export"
	"github.com/causa-hse/causa/internal/fsutil"
	"github.com/causa-hse/causa/internal/investigation"
	"github.com/causa-hse/causa/internal/labels"
)

func runExport(args []string) error {
	fs := newFlagSet("export")
	treeArg := treeFlag(fs)
	formatArg := fs.String("format", "", "markdown|html|csv|text|json|yaml")
	outArg := fs.String("out", "", "output file (default stdout)")
	docArg := fs.String("doc", "", "investigation document")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 0 {
		return UsageError{Message: "export takes only flags (no positional args)"}
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	formatName := *formatArg
	if formatName == "" {
		formatName = rt.cfg.Export.Format
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return UsageError{Message: err.Error()}
	}
	locale := labels.ParseLocale(rt.cfg.Export.Locale)

	doc, fromFile, err := loadExportDocument(*docArg, resolveTreePath(*treeArg))
	if err != nil {
		return err
	}
	if doc.CausalTree != nil {
		if errs := causal.Validate(*doc.CausalTree); len(errs) != 0 {
			return errors.New("causal tree is invalid (run `causa validate`)")
		}
	}
	if fromFile {
		for _, e := range investigation.Validate(doc, locale.Tag()) {
			rt.log.Warn("document issue", zap.String("path", e.Path), zap.String("message", e.Message))
		}
	}

	var buf bytes.Buffer
	if err := export.Render(&buf, doc, export.Options{Format: format, Locale: locale, Now: now()}); err != nil {
		return err
	}

	if *outArg == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := fsutil.WriteFileAtomic(*outArg, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	rt.log.Info("export written", zap.String("path", *outArg), zap.String("format", string(format)))
	fmt.Fprintf(os.Stdout, "wrote %s\n", *outArg)
	return nil
}

// loadExportDocument reads the investigation document when one is named or
// present in the working directory. The tree file fills in a missing tree,
// and a bare tree file exports as a document holding only the tree; fromFile
// is false in that case.
func loadExportDocument(docPath string, treePath string) (doc investigation.Document, fromFile bool, err error) {
	explicit := docPath != ""
	if !explicit {
		docPath = defaultDocumentPath()
	}

	doc, err = investigation.Load(docPath)
	switch {
	case err == nil:
		fromFile = true
	case errors.Is(err, investigation.ErrDocumentNotFound) && !explicit:
	case errors.Is(err, investigation.ErrDocumentNotFound):
		return investigation.Document{}, false, fmt.Errorf("document not found: %s", docPath)
	default:
		return investigation.Document{}, false, err
	}

	if doc.CausalTree == nil {
		t, err := causal.Load(treePath)
		if errors.Is(err, causal.ErrTreeNotFound) && fromFile {
			return doc, true, nil
		}
		if err != nil {
			if errors.Is(err, causal.ErrTreeNotFound) {
				return investigation.Document{}, false, fmt.Errorf("tree file not found: %s (run `causa init`)", treePath)
			}
			return investigation.Document{}, false, err
		}
		if !fromFile {
			doc = investigation.NewDocument(investigation.Incident{ID: t.IncidentID})
		}
		doc.CausalTree = &t
	}
	return doc, fromFile, nil
}

func defaultDocumentPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return investigation.DefaultDocumentFilename
	}
	return filepath.Join(wd, investigation.DefaultDocumentFilename)
}
