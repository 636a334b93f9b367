// Package export renders an investigation document, including its causal tree
// grouped by level, into report formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/causa-hse/causa/internal/fsutil"
	"github.com/causa-hse/causa/internal/investigation"
	"github.com/causa-hse/causa/internal/labels"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts format names and their common file extensions.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "csv":
		return FormatCSV, nil
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the usual file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}

type Options struct {
	Format Format
	Locale labels.Locale
	// Now decides which open actions are shown as overdue. Zero means time.Now.
	Now time.Time
}

func Render(w io.Writer, d investigation.Document, opts Options) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	switch opts.Format {
	case FormatJSON, FormatYAML:
		b, err := fsutil.Encode(d, opts.Format == FormatYAML)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		_, err = w.Write(b)
		return err
	case FormatMarkdown:
		return renderMarkdown(w, buildReport(d, opts))
	case FormatHTML:
		return renderHTML(w, buildReport(d, opts))
	case FormatCSV:
		return renderCSV(w, buildReport(d, opts))
	case FormatText:
		return renderText(w, buildReport(d, opts))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}
