package inspect

import (
	"fmt"
	"go/ast"
	"go/doc"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"github.com/zheng/documember/internal/object"
)

// LoadGoPackages loads the Go packages under dir and describes them as
// a module tree: packages become modules (nested by import path), named
// types become classes with embedded types as their ancestor list, doc
// comments become docstrings, and unexported identifiers are marked
// private. Packages that fail documentation extraction are still listed
// and marked failed-to-inspect.
func LoadGoPackages(dir string, logger *log.Logger) (*object.Module, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	rootImport, err := rootImportPath(absDir)
	if err != nil {
		return nil, err
	}

	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedDeps |
			packages.NeedImports,
		Dir: absDir,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	var withSource []*packages.Package
	for _, pkg := range pkgs {
		if len(pkg.Syntax) > 0 {
			withSource = append(withSource, pkg)
		}
		for _, perr := range pkg.Errors {
			logger.Warn("package error", "package", pkg.PkgPath, "err", perr.Msg)
		}
	}
	if len(withSource) == 0 {
		return nil, fmt.Errorf("no Go packages found under %s", dir)
	}

	l := &goLoader{
		logger:   logger,
		rootImp:  rootImport,
		mods:     map[string]*object.Module{},
		classes:  map[string]*object.Class{},
		bases:    map[*object.Class][]string{},
		promoted: map[*object.Class]map[string]bool{},
		errs:     map[string]string{},
	}
	rootPath := dotted(rootImport)
	root := l.ensureModule(rootPath)

	sort.Slice(withSource, func(i, j int) bool { return withSource[i].PkgPath < withSource[j].PkgPath })
	for _, pkg := range withSource {
		modPath := l.modulePathFor(pkg.PkgPath)
		if modPath == "" {
			logger.Debug("skipping package outside target", "package", pkg.PkgPath)
			continue
		}
		logger.Info("discovered package", "package", pkg.PkgPath)
		l.populate(l.ensureModule(modPath), pkg)
	}

	l.attachSubmodules()
	l.resolveEmbedded()
	return root, nil
}

type goLoader struct {
	logger  *log.Logger
	rootImp string
	mods    map[string]*object.Module
	classes map[string]*object.Class
	// bases holds dotted qualnames of embedded types per class.
	bases map[*object.Class][]string
	// promoted tracks method names promoted from embedded types.
	promoted map[*object.Class]map[string]bool
	// errs records per-package extraction failures by module path.
	errs map[string]string
}

// rootImportPath derives the import path of dir from the enclosing
// go.mod. Without one, the directory base name serves as the root name.
func rootImportPath(dir string) (string, error) {
	for d := dir; ; {
		data, err := os.ReadFile(filepath.Join(d, "go.mod"))
		if err == nil {
			modPath := modfile.ModulePath(data)
			if modPath == "" {
				return "", fmt.Errorf("no module path in %s", filepath.Join(d, "go.mod"))
			}
			rel, err := filepath.Rel(d, dir)
			if err != nil || rel == "." {
				return modPath, nil
			}
			return modPath + "/" + filepath.ToSlash(rel), nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return filepath.Base(dir), nil
		}
		d = parent
	}
}

// modulePathFor maps an import path to its dotted module path under the
// root, or "" when the package lies outside the target subtree.
func (l *goLoader) modulePathFor(importPath string) string {
	if importPath == l.rootImp {
		return dotted(l.rootImp)
	}
	if rest, ok := strings.CutPrefix(importPath, l.rootImp+"/"); ok {
		return dotted(l.rootImp) + "." + dotted(rest)
	}
	return ""
}

func (l *goLoader) ensureModule(path string) *object.Module {
	if m, ok := l.mods[path]; ok {
		return m
	}
	name := path
	if i := strings.LastIndex(path, "."); i >= 0 {
		name = path[i+1:]
	}
	m := &object.Module{Name: name, Path: path}
	l.mods[path] = m
	if rootDotted := dotted(l.rootImp); path != rootDotted {
		if i := strings.LastIndex(path, "."); i > 0 {
			l.ensureModule(path[:i])
		}
	}
	return m
}

// attachSubmodules wires every module into its parent's member list,
// deterministically by path.
func (l *goLoader) attachSubmodules() {
	paths := make([]string, 0, len(l.mods))
	for p := range l.mods {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		i := strings.LastIndex(p, ".")
		if i <= 0 {
			continue
		}
		parent, ok := l.mods[p[:i]]
		if !ok {
			continue
		}
		parent.Members = append(parent.Members, object.Member{
			Name:  p[i+1:],
			Value: l.mods[p],
			Err:   l.errs[p],
		})
	}
}

func (l *goLoader) populate(mod *object.Module, pkg *packages.Package) {
	dp, err := doc.NewFromFiles(pkg.Fset, pkg.Syntax, pkg.PkgPath, doc.AllDecls|doc.AllMethods)
	if err != nil {
		l.logger.Warn("documentation extraction failed", "package", pkg.PkgPath, "err", err)
		l.errs[mod.Path] = err.Error()
		return
	}
	mod.Doc = strings.TrimSpace(dp.Doc)

	for _, t := range dp.Types {
		l.addType(mod, pkg, t)
	}
	for _, f := range dp.Funcs {
		l.addFunc(mod, f)
	}
	for _, v := range dp.Consts {
		l.addValues(mod, pkg, v)
	}
	for _, v := range dp.Vars {
		l.addValues(mod, pkg, v)
	}
}

func (l *goLoader) addType(mod *object.Module, pkg *packages.Package, t *doc.Type) {
	cls := &object.Class{Name: t.Name, Module: mod.Path, Doc: strings.TrimSpace(t.Doc)}

	spec := typeSpec(t)
	if spec != nil && spec.Assign.IsValid() {
		// A type alias re-exports its target; record the source module
		// so the walker can tag it imported.
		if src := l.aliasSource(pkg, spec.Type); src != "" {
			cls.Module = src
		}
	}

	for _, m := range t.Methods {
		fn := &object.Func{Name: m.Name, Module: mod.Path, Doc: strings.TrimSpace(m.Doc)}
		cls.Members = append(cls.Members, object.Member{
			Name:       m.Name,
			Value:      fn,
			Unexported: !ast.IsExported(m.Name),
		})
		if m.Level > 0 {
			if l.promoted[cls] == nil {
				l.promoted[cls] = map[string]bool{}
			}
			l.promoted[cls][m.Name] = true
		}
	}
	if spec != nil {
		switch st := spec.Type.(type) {
		case *ast.StructType:
			l.addStructFields(cls, pkg, st)
		case *ast.InterfaceType:
			l.addInterfaceMembers(cls, mod.Path, pkg, st)
		}
	}

	l.classes[mod.Path+"."+t.Name] = cls
	mod.Members = append(mod.Members, object.Member{
		Name:       t.Name,
		Value:      cls,
		Unexported: !ast.IsExported(t.Name),
	})

	// Constructors and grouped values live at package level even when
	// go/doc files them under the type.
	for _, f := range t.Funcs {
		l.addFunc(mod, f)
	}
	for _, v := range t.Consts {
		l.addValues(mod, pkg, v)
	}
	for _, v := range t.Vars {
		l.addValues(mod, pkg, v)
	}
}

func (l *goLoader) addStructFields(cls *object.Class, pkg *packages.Package, st *ast.StructType) {
	for _, fld := range st.Fields.List {
		if len(fld.Names) == 0 {
			if ref := l.embeddedRef(pkg, fld.Type); ref != "" {
				l.bases[cls] = append(l.bases[cls], ref)
			}
			continue
		}
		fdoc := fieldDoc(fld)
		for _, name := range fld.Names {
			cls.Members = append(cls.Members, object.Member{
				Name:       name.Name,
				Value:      &object.Attr{Name: name.Name, Doc: fdoc, Type: exprString(fld.Type)},
				Unexported: !ast.IsExported(name.Name),
			})
		}
	}
}

func (l *goLoader) addInterfaceMembers(cls *object.Class, modPath string, pkg *packages.Package, it *ast.InterfaceType) {
	for _, fld := range it.Methods.List {
		if len(fld.Names) == 0 {
			if ref := l.embeddedRef(pkg, fld.Type); ref != "" {
				l.bases[cls] = append(l.bases[cls], ref)
			}
			continue
		}
		fdoc := fieldDoc(fld)
		for _, name := range fld.Names {
			cls.Members = append(cls.Members, object.Member{
				Name:       name.Name,
				Value:      &object.Func{Name: name.Name, Module: modPath, Doc: fdoc},
				Unexported: !ast.IsExported(name.Name),
			})
		}
	}
}

func (l *goLoader) addFunc(mod *object.Module, f *doc.Func) {
	mod.Members = append(mod.Members, object.Member{
		Name:       f.Name,
		Value:      &object.Func{Name: f.Name, Module: mod.Path, Doc: strings.TrimSpace(f.Doc)},
		Unexported: !ast.IsExported(f.Name),
	})
}

func (l *goLoader) addValues(mod *object.Module, pkg *packages.Package, v *doc.Value) {
	groupDoc := strings.TrimSpace(v.Doc)
	for _, name := range v.Names {
		if name == "_" {
			continue
		}
		mod.Members = append(mod.Members, object.Member{
			Name:       name,
			Value:      &object.Attr{Name: name, Doc: groupDoc, Type: scopeTypeString(pkg, name)},
			Unexported: !ast.IsExported(name),
		})
	}
}

// resolveEmbedded turns embedded-type references into ancestor lists.
// References outside the load set become stub ancestors: provenance for
// members promoted from them degrades to defined-here.
func (l *goLoader) resolveEmbedded() {
	direct := make(map[*object.Class][]*object.Class, len(l.bases))
	for cls, refs := range l.bases {
		for _, ref := range refs {
			b := l.classes[ref]
			if b == nil {
				name, mod := ref, ""
				if i := strings.LastIndex(ref, "."); i >= 0 {
					mod, name = ref[:i], ref[i+1:]
				}
				b = &object.Class{Name: name, Module: mod}
				l.classes[ref] = b
			}
			direct[cls] = append(direct[cls], b)
		}
	}
	for cls := range l.bases {
		cls.Ancestors = linearize(cls, direct)
	}

	// Promoted methods carry the origin's doc text; restoring object
	// identity lets the walker tag them inherited even when both docs
	// are empty.
	for cls, names := range l.promoted {
		for i, mem := range cls.Members {
			if !names[mem.Name] {
				continue
			}
			for _, anc := range cls.Ancestors {
				am, found := anc.Member(mem.Name)
				if !found {
					continue
				}
				if af, ok := am.Value.(*object.Func); ok {
					cls.Members[i].Value = af
				}
				break
			}
		}
	}
}

// embeddedRef resolves an embedded field type to a dotted qualname.
func (l *goLoader) embeddedRef(pkg *packages.Package, expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return l.embeddedRef(pkg, t.X)
	case *ast.IndexExpr:
		return l.embeddedRef(pkg, t.X)
	case *ast.IndexListExpr:
		return l.embeddedRef(pkg, t.X)
	case *ast.Ident:
		return l.modulePathForOrExternal(pkg.PkgPath) + "." + t.Name
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			if src := importPathForAlias(pkg, x.Name); src != "" {
				return l.modulePathForOrExternal(src) + "." + t.Sel.Name
			}
		}
	}
	return ""
}

// aliasSource returns the dotted module of the aliased type when the
// alias target lives in another package.
func (l *goLoader) aliasSource(pkg *packages.Package, expr ast.Expr) string {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return ""
	}
	x, ok := sel.X.(*ast.Ident)
	if !ok {
		return ""
	}
	if src := importPathForAlias(pkg, x.Name); src != "" {
		return l.modulePathForOrExternal(src)
	}
	return ""
}

// modulePathForOrExternal prefers the in-tree dotted path and falls
// back to the dotted import path for packages outside the target.
func (l *goLoader) modulePathForOrExternal(importPath string) string {
	if p := l.modulePathFor(importPath); p != "" {
		return p
	}
	return dotted(importPath)
}

// importPathForAlias finds the import path bound to a package alias in
// the given package's files.
func importPathForAlias(pkg *packages.Package, alias string) string {
	for path, imp := range pkg.Imports {
		if imp.Name == alias {
			return path
		}
		if imp.Name == "" && filepath.Base(path) == alias {
			return path
		}
	}
	return ""
}

func typeSpec(t *doc.Type) *ast.TypeSpec {
	if t.Decl == nil {
		return nil
	}
	for _, spec := range t.Decl.Specs {
		if ts, ok := spec.(*ast.TypeSpec); ok && ts.Name.Name == t.Name {
			return ts
		}
	}
	return nil
}

func fieldDoc(fld *ast.Field) string {
	if fld.Doc != nil {
		return strings.TrimSpace(fld.Doc.Text())
	}
	if fld.Comment != nil {
		return strings.TrimSpace(fld.Comment.Text())
	}
	return ""
}

func scopeTypeString(pkg *packages.Package, name string) string {
	if pkg.Types == nil {
		return ""
	}
	obj := pkg.Types.Scope().Lookup(name)
	if obj == nil || obj.Type() == nil {
		return ""
	}
	return types.TypeString(obj.Type(), types.RelativeTo(pkg.Types))
}

func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.IndexExpr:
		return exprString(t.X) + "[" + exprString(t.Index) + "]"
	default:
		return ""
	}
}

func dotted(importPath string) string {
	return strings.ReplaceAll(importPath, "/", ".")
}
