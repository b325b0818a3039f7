package engine

import "github.com/grug-lang/grug/compiler/ast"

// CompiledFile is one type-checked .grug script: its owning mod, its
// globals in declaration order, and its on_fns/helper_fns looked up by
// name but iterable in the order they were declared.
type CompiledFile struct {
	Path       string
	Mod        string
	EntityType string
	Globals    []*ast.GlobalVariableDecl

	onFnNames []string
	onFns     map[string]*ast.OnFnDecl

	helperFns map[string]*ast.HelperFnDecl
}

func newCompiledFile(path, mod, entityType string, file *ast.File) *CompiledFile {
	cf := &CompiledFile{
		Path:       path,
		Mod:        mod,
		EntityType: entityType,
		onFns:      map[string]*ast.OnFnDecl{},
		helperFns:  map[string]*ast.HelperFnDecl{},
	}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GlobalVariableDecl:
			cf.Globals = append(cf.Globals, d)
		case *ast.OnFnDecl:
			cf.onFnNames = append(cf.onFnNames, d.Name)
			cf.onFns[d.Name] = d
		case *ast.HelperFnDecl:
			cf.helperFns[d.Name] = d
		}
	}
	return cf
}

// OnFn looks up a declared on_fn hook by name.
func (cf *CompiledFile) OnFn(name string) (*ast.OnFnDecl, bool) {
	fn, ok := cf.onFns[name]
	return fn, ok
}

// OnFnNames returns every on_fn hook this file declares, in declaration
// order.
func (cf *CompiledFile) OnFnNames() []string {
	out := make([]string, len(cf.onFnNames))
	copy(out, cf.onFnNames)
	return out
}

// HelperFns returns the file's helper_fns keyed by name, for handing to the
// interpreter.
func (cf *CompiledFile) HelperFns() map[string]*ast.HelperFnDecl {
	return cf.helperFns
}
