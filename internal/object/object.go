// Package object defines the namespace-description model consumed by the
// summary walker. Loaders (internal/inspect) resolve a target into this
// model; the walker never touches the filesystem or the type checker.
package object

// Object is a member value inside a namespace. Concrete types are
// *Module, *Class, *Func, and *Attr. Pointer identity is significant:
// the same *Func appearing on a class and on one of its ancestors marks
// the member as inherited.
type Object interface {
	objectNode()
}

// Member is a named slot in a module or class namespace.
type Member struct {
	Name string
	// Value is the bound object. It is nil when Err is set.
	Value Object
	// Unexported marks identifiers the source language hides by
	// convention without an underscore prefix (Go's lowercase names).
	Unexported bool
	// Err records a per-member introspection failure. The member is
	// still listed, marked as failed-to-inspect.
	Err string
}

// Module is a namespace of members with an optional export list.
type Module struct {
	Name string
	// Path is the dotted qualified name of the module.
	Path string
	Doc  string
	// Exports mirrors an explicit export-list declaration (__all__).
	// nil means no list was declared; an empty non-nil slice means the
	// module declared an empty public surface.
	Exports []string
	Members []Member
}

// DeclaresExports reports whether the module restricts its public
// surface with an explicit export list.
func (m *Module) DeclaresExports() bool {
	return m.Exports != nil
}

// Class is a class-like namespace: a container of methods and data
// attributes with a linearized ancestor list.
type Class struct {
	Name string
	// Module is the dotted path of the defining module.
	Module string
	Doc    string
	// Exports mirrors an explicit export-list declaration on the class
	// body, with the same nil semantics as Module.Exports.
	Exports []string
	// Ancestors is the method-resolution order excluding the class
	// itself, nearest ancestor first. Loaders supply it; the walker
	// only reads it.
	Ancestors []*Class
	Members   []Member
}

// QualName returns the dotted defining location of the class.
func (c *Class) QualName() string {
	if c.Module == "" {
		return c.Name
	}
	return c.Module + "." + c.Name
}

// Member returns the named member and whether it exists.
func (c *Class) Member(name string) (Member, bool) {
	for _, m := range c.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Func is a function, method, or method descriptor.
type Func struct {
	Name string
	// Module is the dotted path of the defining module.
	Module string
	Doc    string
}

// Attr is a plain data attribute: a constant, variable, field, or any
// value that is not a module, class, or callable. Attrs are never
// recursed into.
type Attr struct {
	Name string
	Doc  string
	// Type is a display-only type name, when known.
	Type string
}

func (*Module) objectNode() {}
func (*Class) objectNode()  {}
func (*Func) objectNode()   {}
func (*Attr) objectNode()   {}

// Doc returns the documentation string of an object, or "" for objects
// without one (including nil).
func Doc(o Object) string {
	switch v := o.(type) {
	case *Module:
		return v.Doc
	case *Class:
		return v.Doc
	case *Func:
		return v.Doc
	case *Attr:
		return v.Doc
	default:
		return ""
	}
}
