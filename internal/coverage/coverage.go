// Package coverage aggregates documentation metrics over a summary
// tree.
package coverage

import (
	"sort"

	"github.com/zheng/documember/internal/summary"
)

// Counts tallies members and how many of them are documented.
type Counts struct {
	Total      int `json:"total"`
	Documented int `json:"documented"`
}

// Percent returns the documented share in percent; an empty count is
// fully covered.
func (c Counts) Percent() float64 {
	if c.Total == 0 {
		return 100
	}
	return float64(c.Documented) / float64(c.Total) * 100
}

func (c *Counts) add(documented bool) {
	c.Total++
	if documented {
		c.Documented++
	}
}

// NamespaceStats is the coverage of one module or class, counting its
// direct children only.
type NamespaceStats struct {
	QualName string `json:"qualname"`
	Counts
}

// Stats is the coverage report for one summary tree. Counts include
// every node in the tree, the root module included; members excluded by
// walk filters were never part of the tree and are not counted.
type Stats struct {
	Target     string                        `json:"target"`
	Total      Counts                        `json:"counts"`
	ByKind     map[summary.MemberKind]Counts `json:"by_kind"`
	Namespaces []NamespaceStats              `json:"namespaces"`
}

// Compute walks the tree and tallies documentation coverage. Target is
// the audit target as the user named it; when empty the root qualname
// stands in. Namespaces are ordered worst-covered first, ties by
// qualname.
func Compute(target string, root *summary.Node) *Stats {
	if target == "" {
		target = root.QualName
	}
	s := &Stats{
		Target: target,
		ByKind: map[summary.MemberKind]Counts{},
	}
	var walk func(n *summary.Node)
	walk = func(n *summary.Node) {
		s.Total.add(n.Doc.Documented)
		k := s.ByKind[n.Kind]
		k.add(n.Doc.Documented)
		s.ByKind[n.Kind] = k

		if n.Kind == summary.KindModule || n.Kind == summary.KindClass {
			ns := NamespaceStats{QualName: n.QualName}
			for _, c := range n.Children {
				ns.add(c.Doc.Documented)
			}
			if ns.Total > 0 {
				s.Namespaces = append(s.Namespaces, ns)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)

	sort.SliceStable(s.Namespaces, func(i, j int) bool {
		pi, pj := s.Namespaces[i].Percent(), s.Namespaces[j].Percent()
		if pi != pj {
			return pi < pj
		}
		return s.Namespaces[i].QualName < s.Namespaces[j].QualName
	})
	return s
}

// Undocumented collects the qualnames of every undocumented member in
// tree order.
func Undocumented(root *summary.Node) []string {
	var out []string
	var walk func(n *summary.Node)
	walk = func(n *summary.Node) {
		if !n.Doc.Documented {
			out = append(out, n.QualName)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}
