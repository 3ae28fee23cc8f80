package summary

import (
	"sort"
	"strings"

	"github.com/zheng/documember/internal/object"
)

// Build walks root and produces its summary tree. The root handle must
// already be resolved; resolution failures belong to the loader. Build
// never fails: members that could not be introspected are recorded as
// failed-to-inspect attribute placeholders by the loader and carried
// through as such.
func Build(root *object.Module, cfg Config) *Node {
	cfg.normalize()
	w := &walker{
		cfg:      cfg,
		rootPath: root.Path,
		seen:     map[string]bool{root.Path: true},
	}
	node := &Node{
		Name:       root.Name,
		QualName:   root.Path,
		Kind:       KindModule,
		Doc:        w.docStatus(root.Doc),
		Provenance: Provenance{Origin: OriginDefined},
		DefinesAll: root.DeclaresExports(),
		Dunder:     IsDunder(root.Name),
		Private:    IsPrivate(root.Name),
	}
	w.expandModule(node, root, 0)
	return node
}

type walker struct {
	cfg      Config
	rootPath string
	// seen tracks visited namespace qualnames for the duration of one
	// build, so submodule cycles terminate.
	seen map[string]bool
}

// candidate keeps the underlying member next to its classified node, so
// recursion can happen after filtering and ordering are settled.
type candidate struct {
	mem  object.Member
	node *Node
}

func (w *walker) expandModule(node *Node, m *object.Module, depth int) {
	cands := make([]*candidate, 0, len(m.Members))
	for _, mem := range m.Members {
		cands = append(cands, &candidate{mem: mem, node: w.classifyModuleMember(m, node.QualName, mem)})
	}

	included := w.filter(cands)
	ordered := w.orderChildren(m.Exports, included)

	for _, c := range ordered {
		switch v := c.mem.Value.(type) {
		case *object.Module:
			switch {
			case c.node.Provenance.Origin == OriginImported && !w.cfg.IncludeImported:
				w.cfg.Logger.Debug("imported module, not expanding", "module", v.Path)
			case w.cfg.MaxDepth > 0 && depth+1 >= w.cfg.MaxDepth:
				w.cfg.Logger.Debug("max depth reached, not expanding", "module", v.Path)
			case w.seen[v.Path]:
				w.cfg.Logger.Debug("already visited, not expanding", "module", v.Path)
			default:
				w.cfg.Logger.Info("discovered submodule", "module", v.Path)
				w.seen[v.Path] = true
				w.expandModule(c.node, v, depth+1)
			}
		case *object.Class:
			if c.node.Provenance.Origin != OriginImported {
				w.expandClass(c.node, v)
			}
		}
		node.Children = append(node.Children, c.node)
	}
}

func (w *walker) expandClass(node *Node, cls *object.Class) {
	if w.seen[cls.QualName()] {
		return
	}
	w.seen[cls.QualName()] = true
	w.cfg.Logger.Info("discovered class", "class", cls.QualName())

	cands := make([]*candidate, 0, len(cls.Members))
	for _, mem := range cls.Members {
		cands = append(cands, &candidate{mem: mem, node: w.classifyClassMember(cls, node.QualName, mem)})
	}

	included := w.filter(cands)
	ordered := w.orderChildren(cls.Exports, included)

	for _, c := range ordered {
		if nested, ok := c.mem.Value.(*object.Class); ok && c.node.Provenance.Origin != OriginImported {
			w.expandClass(c.node, nested)
		}
		node.Children = append(node.Children, c.node)
	}
}

func (w *walker) classifyModuleMember(owner *object.Module, ownerQual string, mem object.Member) *Node {
	n := w.baseNode(ownerQual, mem)
	if mem.Err != "" {
		return n
	}
	switch v := mem.Value.(type) {
	case *object.Module:
		n.Kind = KindModule
		n.Doc = w.docStatus(v.Doc)
		n.DefinesAll = v.DeclaresExports()
		if w.isLocalModule(v.Path) {
			n.Provenance = Provenance{Origin: OriginDefined}
		} else {
			n.Provenance = Provenance{Origin: OriginImported, Source: v.Path}
		}
	case *object.Class:
		n.Kind = KindClass
		n.Doc = w.docStatus(v.Doc)
		n.DefinesAll = v.Exports != nil
		n.Provenance = definingModuleProvenance(v.Module, owner.Path)
	case *object.Func:
		n.Kind = KindFunc
		n.Doc = w.docStatus(v.Doc)
		n.Provenance = definingModuleProvenance(v.Module, owner.Path)
	case *object.Attr:
		n.Kind = KindAttribute
		n.Doc = w.docStatus(v.Doc)
	}
	return n
}

func (w *walker) classifyClassMember(cls *object.Class, ownerQual string, mem object.Member) *Node {
	n := w.baseNode(ownerQual, mem)
	if mem.Err != "" {
		return n
	}
	switch v := mem.Value.(type) {
	case *object.Func:
		n.Kind = KindFunc
	case *object.Class:
		n.Kind = KindClass
		n.DefinesAll = v.Exports != nil
	case *object.Module:
		n.Kind = KindModule
	default:
		n.Kind = KindAttribute
	}

	doc := object.Doc(mem.Value)
	prov := Provenance{Origin: OriginDefined}
	if n.Kind == KindFunc || n.Kind == KindClass {
		doc, prov = w.resolveInheritance(cls, mem, doc)
	}
	if prov.Origin == OriginDefined {
		if f, ok := mem.Value.(*object.Func); ok {
			prov = definingModuleProvenance(f.Module, cls.Module)
		}
	}
	n.Doc = w.docStatus(doc)
	n.Provenance = prov
	return n
}

// baseNode fills the fields shared by every classification, defaulting
// to an undocumented attribute. Inspection failures stop here: the
// member stays listed, marked, and the walk continues.
func (w *walker) baseNode(ownerQual string, mem object.Member) *Node {
	return &Node{
		Name:       mem.Name,
		QualName:   ownerQual + "." + mem.Name,
		Kind:       KindAttribute,
		Provenance: Provenance{Origin: OriginDefined},
		Dunder:     IsDunder(mem.Name),
		Private:    IsPrivate(mem.Name) || mem.Unexported,
		InspectErr: mem.Err,
	}
}

// resolveInheritance walks the ancestor list for the first ancestor
// defining the member's name. The member is inherited when it is the
// same object as the ancestor's, or when its docstring text is
// identical; a missing docstring is resolved from that ancestor. The
// identical-text rule is an approximate heuristic: unrelated members
// with coincidentally identical docstrings are reported as inherited.
func (w *walker) resolveInheritance(cls *object.Class, mem object.Member, doc string) (string, Provenance) {
	for _, anc := range cls.Ancestors {
		am, ok := anc.Member(mem.Name)
		if !ok {
			continue
		}
		ancDoc := object.Doc(am.Value)
		switch {
		case am.Value != nil && am.Value == mem.Value:
			return doc, Provenance{Origin: OriginInherited, Source: anc.QualName()}
		case doc != "" && doc == ancDoc:
			return doc, Provenance{Origin: OriginInherited, Source: anc.QualName()}
		case doc == "" && ancDoc != "":
			return ancDoc, Provenance{Origin: OriginInherited, Source: anc.QualName()}
		}
		// The nearest ancestor defines the name with a different
		// implementation and docstring: an override.
		return doc, Provenance{Origin: OriginDefined}
	}
	return doc, Provenance{Origin: OriginDefined}
}

// filter excludes private, dunder, and imported members per the
// configuration. It runs after classification so provenance and doc
// resolution always saw the unfiltered namespace.
func (w *walker) filter(cands []*candidate) []*candidate {
	out := cands[:0:0]
	for _, c := range cands {
		n := c.node
		switch {
		case n.Private && !w.cfg.IncludePrivate:
			w.cfg.Logger.Debug("ignoring private member", "member", n.QualName)
		case n.Dunder && !w.cfg.IncludeDunder:
			w.cfg.Logger.Debug("ignoring dunder member", "member", n.QualName)
		case n.Provenance.Origin == OriginImported && !w.cfg.IncludeImported:
			w.cfg.Logger.Debug("ignoring imported member", "member", n.QualName)
		default:
			out = append(out, c)
		}
	}
	return out
}

// orderChildren fixes the child order. With a declared export list the
// list dictates order and unlisted members are omitted; under
// IgnoreExports listed members come first in list order followed by the
// remainder grouped by kind; without a list everything is grouped by
// kind and sorted by name.
func (w *walker) orderChildren(exports []string, cands []*candidate) []*candidate {
	if exports == nil {
		sortGrouped(cands)
		return cands
	}

	byName := make(map[string]*candidate, len(cands))
	for _, c := range cands {
		byName[c.node.Name] = c
	}

	taken := make(map[string]bool, len(exports))
	listed := make([]*candidate, 0, len(exports))
	for _, name := range exports {
		if taken[name] {
			continue
		}
		if c, ok := byName[name]; ok {
			taken[name] = true
			listed = append(listed, c)
		}
	}

	if !w.cfg.IgnoreExports {
		return listed
	}

	var rest []*candidate
	for _, c := range cands {
		if !taken[c.node.Name] {
			rest = append(rest, c)
		}
	}
	sortGrouped(rest)
	return append(listed, rest...)
}

func sortGrouped(cands []*candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		ri, rj := kindRank(cands[i].node.Kind), kindRank(cands[j].node.Kind)
		if ri != rj {
			return ri < rj
		}
		return cands[i].node.Name < cands[j].node.Name
	})
}

func (w *walker) isLocalModule(path string) bool {
	return path == w.rootPath || strings.HasPrefix(path, w.rootPath+".")
}

// definingModuleProvenance marks a member imported when its defining
// module is known and lies outside the owning namespace's subtree.
func definingModuleProvenance(definedIn, owner string) Provenance {
	if definedIn == "" || definedIn == owner || strings.HasPrefix(definedIn, owner+".") {
		return Provenance{Origin: OriginDefined}
	}
	return Provenance{Origin: OriginImported, Source: definedIn}
}

func (w *walker) docStatus(doc string) DocStatus {
	ds := DocStatus{Documented: strings.TrimSpace(doc) != ""}
	if !ds.Documented || w.cfg.Docstrings == DetailNone {
		return ds
	}
	lines := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	ds.Summary = lines[0]
	if w.cfg.Docstrings == DetailFull && len(lines) > 1 {
		ds.Body = strings.TrimRight(strings.Join(lines[1:], "\n"), " \t\n")
	}
	return ds
}
