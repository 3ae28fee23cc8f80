package inspect

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/zheng/documember/internal/object"
)

// descNode is one entry in a serialized namespace description. The root
// of a description file is a module node; kind defaults to "module"
// there and is required everywhere else.
//
// A node may declare "ref" instead of a body: the member is then bound
// to the object already declared under that qualified name. Refs are
// how descriptions express module cycles and shared member identity
// (the same function reachable from a class and its ancestor).
type descNode struct {
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Doc        string     `json:"doc"`
	Module     string     `json:"module,omitempty"`
	Type       string     `json:"type,omitempty"`
	Ref        string     `json:"ref,omitempty"`
	Error      string     `json:"error,omitempty"`
	Unexported bool       `json:"unexported,omitempty"`
	All        *[]string  `json:"all,omitempty"`
	Bases      []string   `json:"bases,omitempty"`
	Members    []descNode `json:"members,omitempty"`
}

// LoadDescription reads and parses a namespace description file.
func LoadDescription(path string, logger *log.Logger) (*object.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read description: %w", err)
	}
	root, err := ParseDescription(data, logger)
	if err != nil {
		return nil, fmt.Errorf("parse description %s: %w", path, err)
	}
	return root, nil
}

// ParseDescription builds a module handle from serialized description
// data. Qualified names derive from nesting; refs and bases are
// resolved against them after the whole tree is declared.
func ParseDescription(data []byte, logger *log.Logger) (*object.Module, error) {
	var rootNode descNode
	if err := json.Unmarshal(data, &rootNode); err != nil {
		return nil, err
	}
	if rootNode.Name == "" {
		return nil, fmt.Errorf("root module has no name")
	}
	if rootNode.Kind != "" && rootNode.Kind != "module" {
		return nil, fmt.Errorf("root must be a module, got %q", rootNode.Kind)
	}

	l := &descLoader{
		logger:  logger,
		modules: map[string]*object.Module{},
		classes: map[string]*object.Class{},
		funcs:   map[string]*object.Func{},
		bases:   map[*object.Class][]string{},
	}
	root, err := l.buildModule(rootNode, rootNode.Name)
	if err != nil {
		return nil, err
	}
	if err := l.resolveRefs(); err != nil {
		return nil, err
	}
	l.resolveBases()
	return root, nil
}

type descLoader struct {
	logger  *log.Logger
	modules map[string]*object.Module
	classes map[string]*object.Class
	funcs   map[string]*object.Func
	// bases holds unresolved direct-base qualnames per class.
	bases map[*object.Class][]string
	// refs holds member slots waiting for a declared object.
	refs []refSlot
}

// refSlot records a member awaiting resolution, addressed by its
// owner's qualname and position so patching happens through the final
// member slice.
type refSlot struct {
	owner string
	index int
	ref   string
}

func (l *descLoader) buildModule(d descNode, path string) (*object.Module, error) {
	if _, ok := l.modules[path]; ok {
		return nil, fmt.Errorf("duplicate module %q", path)
	}
	m := &object.Module{Name: d.Name, Path: path, Doc: d.Doc}
	if d.All != nil {
		exports := *d.All
		if exports == nil {
			exports = []string{}
		}
		m.Exports = exports
	}
	l.modules[path] = m

	members, err := l.buildMembers(d.Members, path, path)
	if err != nil {
		return nil, err
	}
	m.Members = members
	return m, nil
}

func (l *descLoader) buildClass(d descNode, owningModule, qual string) (*object.Class, error) {
	if _, ok := l.classes[qual]; ok {
		return nil, fmt.Errorf("duplicate class %q", qual)
	}
	mod := d.Module
	if mod == "" {
		mod = owningModule
	}
	c := &object.Class{Name: d.Name, Module: mod, Doc: d.Doc}
	if d.All != nil {
		exports := *d.All
		if exports == nil {
			exports = []string{}
		}
		c.Exports = exports
	}
	l.classes[c.QualName()] = c
	if qual != c.QualName() {
		// Re-exported classes stay reachable under both names.
		l.classes[qual] = c
	}
	l.bases[c] = d.Bases

	members, err := l.buildMembers(d.Members, mod, qual)
	if err != nil {
		return nil, err
	}
	c.Members = members
	return c, nil
}

func (l *descLoader) buildMembers(nodes []descNode, owningModule, ownerQual string) ([]object.Member, error) {
	members := make([]object.Member, 0, len(nodes))
	for _, d := range nodes {
		if d.Name == "" {
			return nil, fmt.Errorf("member of %q has no name", ownerQual)
		}
		mem := object.Member{Name: d.Name, Unexported: d.Unexported, Err: d.Error}
		qual := ownerQual + "." + d.Name

		switch {
		case d.Error != "":
			// Failed-to-inspect: listed with no value.
		case d.Ref != "":
			members = append(members, mem)
			l.refs = append(l.refs, refSlot{owner: ownerQual, index: len(members) - 1, ref: d.Ref})
			continue
		default:
			switch d.Kind {
			case "module":
				sub, err := l.buildModule(d, qual)
				if err != nil {
					return nil, err
				}
				mem.Value = sub
			case "class":
				cls, err := l.buildClass(d, owningModule, qual)
				if err != nil {
					return nil, err
				}
				mem.Value = cls
			case "function":
				mod := d.Module
				if mod == "" {
					mod = owningModule
				}
				fn := &object.Func{Name: d.Name, Module: mod, Doc: d.Doc}
				l.funcs[mod+"."+d.Name] = fn
				mem.Value = fn
			case "attribute":
				mem.Value = &object.Attr{Name: d.Name, Doc: d.Doc, Type: d.Type}
			default:
				return nil, fmt.Errorf("member %q: unknown kind %q", qual, d.Kind)
			}
		}
		members = append(members, mem)
	}
	return members, nil
}

func (l *descLoader) resolveRefs() error {
	for _, slot := range l.refs {
		var value object.Object
		switch {
		case l.modules[slot.ref] != nil:
			value = l.modules[slot.ref]
		case l.classes[slot.ref] != nil:
			value = l.classes[slot.ref]
		case l.funcs[slot.ref] != nil:
			value = l.funcs[slot.ref]
		default:
			return fmt.Errorf("unresolved ref %q", slot.ref)
		}
		switch {
		case l.modules[slot.owner] != nil:
			l.modules[slot.owner].Members[slot.index].Value = value
		case l.classes[slot.owner] != nil:
			l.classes[slot.owner].Members[slot.index].Value = value
		default:
			return fmt.Errorf("ref %q: unknown owner %q", slot.ref, slot.owner)
		}
	}
	return nil
}

// resolveBases turns base qualnames into ancestor lists. Bases that are
// never declared become stub ancestors: name and defining module from
// the qualname, no members.
func (l *descLoader) resolveBases() {
	direct := make(map[*object.Class][]*object.Class, len(l.bases))
	for c, quals := range l.bases {
		for _, q := range quals {
			b := l.classes[q]
			if b == nil {
				name, mod := q, ""
				if i := strings.LastIndex(q, "."); i >= 0 {
					mod, name = q[:i], q[i+1:]
				}
				l.logger.Debug("stubbing undeclared base", "base", q)
				b = &object.Class{Name: name, Module: mod}
				l.classes[q] = b
			}
			direct[c] = append(direct[c], b)
		}
	}
	for c := range l.bases {
		c.Ancestors = linearize(c, direct)
	}
}
