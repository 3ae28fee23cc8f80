// Package render turns a summary tree into the indented text report.
// It performs no re-sorting: child order is fixed by the walker.
package render

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/zheng/documember/internal/summary"
)

const indent = "  "

// Config controls rendering detail.
type Config struct {
	// Docstrings selects how much of each member's docstring is shown
	// beneath its line. It should match the detail the tree was built
	// with; a lower setting simply shows less.
	Docstrings summary.DocDetail
	// HideExportBadge suppresses the (__all__) badge.
	HideExportBadge bool
}

// Lines yields the report lines in depth-first pre-order, lazily.
// Output is a pure function of the tree and config: rendering the same
// tree twice produces identical sequences.
func Lines(root *summary.Node, cfg Config) iter.Seq[string] {
	if cfg.Docstrings == "" {
		cfg.Docstrings = summary.DetailNone
	}
	return func(yield func(string) bool) {
		emit(root, cfg, 0, summary.KindModule, true, yield)
	}
}

// Render writes the full report to w, one line per node plus docstring
// detail lines.
func Render(w io.Writer, root *summary.Node, cfg Config) error {
	var err error
	for line := range Lines(root, cfg) {
		if _, err = fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Text renders the report into a single string.
func Text(root *summary.Node, cfg Config) string {
	var sb strings.Builder
	for line := range Lines(root, cfg) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func emit(n *summary.Node, cfg Config, depth int, parent summary.MemberKind, isRoot bool, yield func(string) bool) bool {
	if !yield(strings.Repeat(indent, depth) + displayName(n, parent, isRoot) + annotations(n, cfg)) {
		return false
	}

	if cfg.Docstrings != summary.DetailNone && n.Doc.Summary != "" {
		pad := strings.Repeat(indent, depth+1)
		if !yield(pad + n.Doc.Summary) {
			return false
		}
		if cfg.Docstrings == summary.DetailFull && n.Doc.Body != "" {
			for _, line := range strings.Split(n.Doc.Body, "\n") {
				if line != "" {
					line = pad + line
				}
				if !yield(line) {
					return false
				}
			}
		}
	}

	for _, c := range n.Children {
		if !emit(c, cfg, depth+1, n.Kind, false, yield) {
			return false
		}
	}
	return true
}

// displayName renders the member name: qualified for the root, source
// module qualified for imported members, with a () suffix for methods
// and a leading . separating class data attributes from methods.
func displayName(n *summary.Node, parent summary.MemberKind, isRoot bool) string {
	if isRoot {
		return n.QualName
	}
	if n.Provenance.Origin == summary.OriginImported && n.Provenance.Source != "" {
		if n.Kind == summary.KindModule {
			return n.Provenance.Source
		}
		return n.Provenance.Source + "." + n.Name
	}
	name := n.Name
	if parent == summary.KindClass {
		switch n.Kind {
		case summary.KindFunc:
			name += "()"
		case summary.KindAttribute:
			name = "." + name
		}
	}
	return name
}

func annotations(n *summary.Node, cfg Config) string {
	var sb strings.Builder
	if !n.Doc.Documented {
		sb.WriteString(" (undocumented)")
	}
	switch n.Provenance.Origin {
	case summary.OriginInherited:
		sb.WriteString(" (inherited)")
	case summary.OriginImported:
		sb.WriteString(" (imported)")
	}
	if n.DefinesAll && !cfg.HideExportBadge {
		sb.WriteString(" (__all__)")
	}
	if n.InspectErr != "" {
		sb.WriteString(" (inspection failed)")
	}
	return sb.String()
}
