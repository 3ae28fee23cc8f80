package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/zheng/documember/internal/coverage"
	"github.com/zheng/documember/internal/summary"
)

// Exporter writes audit results in machine or human readable form.
type Exporter struct {
	root  *summary.Node
	stats *coverage.Stats
}

// NewExporter creates an exporter for one audit result
func NewExporter(root *summary.Node, stats *coverage.Stats) *Exporter {
	return &Exporter{root: root, stats: stats}
}

// Options configures the export behavior
type Options struct {
	IncludeTree         bool
	IncludeUndocumented bool
	MaxUndocumented     int
}

// DefaultOptions returns default export options
func DefaultOptions() Options {
	return Options{
		IncludeTree:         true,
		IncludeUndocumented: true,
		MaxUndocumented:     50,
	}
}

type jsonDocument struct {
	Target      string          `json:"target"`
	GeneratedAt time.Time       `json:"generated_at"`
	Stats       *coverage.Stats `json:"stats"`
	Tree        *summary.Node   `json:"tree,omitempty"`
}

// WriteJSON writes the summary tree and coverage stats as one JSON document
func (e *Exporter) WriteJSON(w io.Writer, opts Options) error {
	doc := jsonDocument{
		Target:      e.stats.Target,
		GeneratedAt: time.Now().UTC(),
		Stats:       e.stats,
	}
	if opts.IncludeTree {
		doc.Tree = e.root
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteMarkdown writes a coverage report in Markdown
func (e *Exporter) WriteMarkdown(w io.Writer, opts Options) error {
	fmt.Fprintf(w, "# Documentation coverage: %s\n\n", e.stats.Target)
	fmt.Fprintf(w, "> Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "> Members: %d | Documented: %d | Coverage: %.1f%%\n\n",
		e.stats.Total.Total, e.stats.Total.Documented, e.stats.Total.Percent())

	e.writeKindTable(w)
	e.writeNamespaceTable(w)

	if opts.IncludeUndocumented {
		e.writeUndocumented(w, opts.MaxUndocumented)
	}
	return nil
}

// writeKindTable writes the per-kind coverage breakdown
func (e *Exporter) writeKindTable(w io.Writer) {
	fmt.Fprintf(w, "## By kind\n\n")
	fmt.Fprintf(w, "| Kind | Total | Documented | Coverage |\n")
	fmt.Fprintf(w, "|------|-------|------------|----------|\n")

	for _, kind := range []summary.MemberKind{
		summary.KindModule, summary.KindClass, summary.KindFunc, summary.KindAttribute,
	} {
		counts, ok := e.stats.ByKind[kind]
		if !ok || counts.Total == 0 {
			continue
		}
		fmt.Fprintf(w, "| %s | %d | %d | %.1f%% |\n",
			kind, counts.Total, counts.Documented, counts.Percent())
	}
	fmt.Fprintf(w, "\n")
}

// writeNamespaceTable writes per-namespace coverage, worst first
func (e *Exporter) writeNamespaceTable(w io.Writer) {
	if len(e.stats.Namespaces) == 0 {
		return
	}

	fmt.Fprintf(w, "## By namespace\n\n")
	fmt.Fprintf(w, "| Namespace | Total | Documented | Coverage |\n")
	fmt.Fprintf(w, "|-----------|-------|------------|----------|\n")

	for _, ns := range e.stats.Namespaces {
		fmt.Fprintf(w, "| `%s` | %d | %d | %.1f%% |\n",
			ns.QualName, ns.Total, ns.Documented, ns.Percent())
	}
	fmt.Fprintf(w, "\n")
}

// writeUndocumented lists undocumented members in tree order
func (e *Exporter) writeUndocumented(w io.Writer, limit int) {
	missing := coverage.Undocumented(e.root)
	if len(missing) == 0 {
		fmt.Fprintf(w, "---\n\n_Every member is documented._\n")
		return
	}

	fmt.Fprintf(w, "---\n\n## Undocumented members (%d)\n\n", len(missing))

	shown := missing
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, name := range shown {
		fmt.Fprintf(w, "- `%s`\n", name)
	}
	if len(shown) < len(missing) {
		fmt.Fprintf(w, "- ... and %d more\n", len(missing)-len(shown))
	}
	fmt.Fprintf(w, "\n")
}
