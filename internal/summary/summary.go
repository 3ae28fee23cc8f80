// Package summary builds documentation-coverage summary trees from a
// namespace description. Build is the entry point: it classifies every
// member of the root module, resolves provenance against ancestor
// lists, applies the configured filters, and returns an immutable tree
// ready for rendering.
package summary

// MemberKind classifies a summarized member.
type MemberKind string

const (
	KindModule    MemberKind = "module"
	KindClass     MemberKind = "class"
	KindFunc      MemberKind = "function"
	KindAttribute MemberKind = "attribute"
)

// kindRank orders children within a namespace when no export list
// dictates the order: modules, then classes, then functions, then
// attributes.
func kindRank(k MemberKind) int {
	switch k {
	case KindModule:
		return 0
	case KindClass:
		return 1
	case KindFunc:
		return 2
	default:
		return 3
	}
}

// Origin identifies where a member's implementation comes from,
// relative to the namespace being summarized.
type Origin string

const (
	OriginDefined   Origin = "defined"
	OriginInherited Origin = "inherited"
	OriginImported  Origin = "imported"
)

// Provenance pairs an origin with its source: the ancestor qualname for
// inherited members, the defining module qualname for imported ones.
type Provenance struct {
	Origin Origin `json:"origin"`
	Source string `json:"source,omitempty"`
}

// DocStatus captures a member's documentation. Summary and Body are
// only retained up to the detail level the walk was configured with.
type DocStatus struct {
	Documented bool   `json:"documented"`
	Summary    string `json:"summary,omitempty"`
	Body       string `json:"body,omitempty"`
}

// Node is one entry in a summary tree.
type Node struct {
	Name       string     `json:"name"`
	QualName   string     `json:"qualname"`
	Kind       MemberKind `json:"kind"`
	Doc        DocStatus  `json:"doc"`
	Provenance Provenance `json:"provenance"`
	// Children is populated only for module and class nodes.
	Children []*Node `json:"children,omitempty"`
	Dunder   bool    `json:"dunder,omitempty"`
	Private  bool    `json:"private,omitempty"`
	// DefinesAll marks namespaces that declare an explicit export
	// list, even when the walk was configured to ignore it.
	DefinesAll bool `json:"defines_all,omitempty"`
	// InspectErr is set when the member could not be introspected; the
	// node is then an undocumented attribute placeholder.
	InspectErr string `json:"inspect_error,omitempty"`
}

// IsDunder reports whether name is reserved for object-model hooks:
// prefixed and suffixed with double underscores.
func IsDunder(name string) bool {
	return len(name) > 4 && name[:2] == "__" && name[len(name)-2:] == "__"
}

// IsPrivate reports whether name is private by the single-underscore
// convention. Dunder names are not private.
func IsPrivate(name string) bool {
	return len(name) > 0 && name[0] == '_' && !IsDunder(name)
}
