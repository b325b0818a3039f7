// Package typecheck implements grug's type propagator: a single pass over
// a parsed file that binds every expression's ast.Result, checks operator
// and call typing, and validates on_fn signatures against the mod API.
package typecheck

import (
	"fmt"
	"strings"

	"github.com/grug-lang/grug/compiler/ast"
	"github.com/grug-lang/grug/compiler/errors"
	"github.com/grug-lang/grug/compiler/modapi"
)

// symbol is a single bound name in a scope: a local, a global, or an
// argument.
type symbol struct {
	typ      ast.Type
	typeName string
}

// scope is a single lexical scope; scopes are pushed on block entry and
// popped on exit, so a name declared inside an if/while body cannot leak
// to its enclosing scope.
type scope struct {
	symbols map[string]symbol
	parent  *scope
}

func newScope(parent *scope) *scope {
	return &scope{symbols: map[string]symbol{}, parent: parent}
}

func (s *scope) define(name string, typ ast.Type, typeName string) {
	s.symbols[name] = symbol{typ: typ, typeName: typeName}
}

func (s *scope) lookup(name string) (symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return symbol{}, false
}

// Propagator runs the type propagator over a single compiled file.
type Propagator struct {
	file       string
	mod        string
	entityType string
	api        *modapi.ModApi
	globals    map[string]symbol
	helperFns  map[string]*ast.HelperFnDecl
	errs       []errors.CompilerError

	// inGlobalInit is set while type-checking a global variable's
	// initializer, where helper_fn calls are forbidden: no on_fn stack
	// frame exists yet to make the helper reachable.
	inGlobalInit bool

	// lastOnFnIdx is the ModApi on_functions index of the most recently
	// checked on_fn, used to enforce declaration-order-matches-ModApi-order.
	lastOnFnIdx int
}

// New creates a Propagator bound to the given mod API. api may be nil, in
// which case on_fn signature checks are skipped and every call that does not
// name a helper_fn of the file is reported as a call to an undeclared
// function (used when type-checking a file outside of a loaded mod, e.g. in
// tests).
func New(file string, api *modapi.ModApi) *Propagator {
	return &Propagator{
		file:      file,
		api:       api,
		globals:   map[string]symbol{},
		helperFns: map[string]*ast.HelperFnDecl{},
	}
}

// WithMod sets the owning mod name, used by entity-string validation to
// reject a literal that redundantly names its own mod. It returns p so
// callers can chain it onto New.
func (p *Propagator) WithMod(mod string) *Propagator {
	p.mod = mod
	return p
}

// WithEntityType restricts on_fn signature resolution to the single entity
// type a file's name selects, per the mod loader's file-name convention.
// Left unset, resolveOnFnSignature searches every declared entity type,
// which is only appropriate for standalone type-checking (e.g. tests) that
// have no file-name-derived entity type to pin to.
func (p *Propagator) WithEntityType(entityType string) *Propagator {
	p.entityType = entityType
	return p
}

// Check runs the propagator's fixed order of operations: bind the implicit
// `me` global, process every global variable, then every
// on_fn against the mod API, then every helper_fn. It returns every
// CompilerError found; an empty slice means the file type-checks cleanly.
func (p *Propagator) Check(file *ast.File) []errors.CompilerError {
	// Bind the implicit `me: id<file_entity_type>` global before anything
	// else is processed; `me` is immutable and cannot be shadowed.
	p.globals["me"] = symbol{typ: ast.TypeID, typeName: p.entityType}
	p.lastOnFnIdx = -1

	for _, decl := range file.Decls {
		if hf, ok := decl.(*ast.HelperFnDecl); ok {
			if _, dup := p.helperFns[hf.Name]; dup {
				p.errf(hf.Loc(), errors.ErrDuplicateHelperFn, "helper_fn %q is declared more than once", hf.Name)
				continue
			}
			p.helperFns[hf.Name] = hf
		}
	}

	for _, decl := range file.Decls {
		if gv, ok := decl.(*ast.GlobalVariableDecl); ok {
			p.checkGlobal(gv)
		}
	}

	for _, decl := range file.Decls {
		if onFn, ok := decl.(*ast.OnFnDecl); ok {
			p.checkOnFn(onFn)
		}
	}

	for _, decl := range file.Decls {
		if hf, ok := decl.(*ast.HelperFnDecl); ok {
			p.checkHelperFn(hf)
		}
	}

	return p.errs
}

func (p *Propagator) errf(loc ast.SourceLocation, code, format string, args ...interface{}) {
	p.errs = append(p.errs, errors.NewCompilerError(
		errors.GetPhaseForCode(code),
		code,
		fmt.Sprintf(format, args...),
		errors.SourceLocation{File: loc.File, Line: loc.Line},
		errors.Error,
	))
}

func (p *Propagator) checkGlobal(gv *ast.GlobalVariableDecl) {
	if gv.Name == "me" {
		p.errf(gv.Loc(), errors.ErrDuplicateGlobal, "%q is reserved and cannot be declared as a global variable", gv.Name)
		return
	}
	if _, dup := p.globals[gv.Name]; dup {
		p.errf(gv.Loc(), errors.ErrDuplicateGlobal, "global variable %q is declared more than once", gv.Name)
		return
	}
	sc := newScope(nil)
	p.inGlobalInit = true
	valType, valTypeName := p.exprType(gv.Value, sc)
	p.inGlobalInit = false
	if !typesCompatible(gv.Type, gv.TypeName, valType, valTypeName) {
		p.errf(gv.Loc(), errors.ErrTypeMismatch, "global %q declared as %s but initialized with %s", gv.Name, describeType(gv.Type, gv.TypeName), describeType(valType, valTypeName))
	}
	p.globals[gv.Name] = symbol{typ: gv.Type, typeName: gv.TypeName}
}

func (p *Propagator) checkOnFn(fn *ast.OnFnDecl) {
	sc := newScope(nil)
	for name, sym := range p.globals {
		sc.define(name, sym.typ, sym.typeName)
	}

	if p.api != nil {
		entityType, wantArgs, idx, ok := p.resolveOnFnSignature(fn)
		if !ok {
			p.errf(fn.Loc(), errors.ErrUnknownOnFn, "on_fn %q is not declared in the mod API for any entity type", fn.Name)
		} else {
			if len(wantArgs) != len(fn.Args) {
				p.errf(fn.Loc(), errors.ErrArgumentCountMismatch, "on_fn %q for entity type %q expects %d arguments, got %d", fn.Name, entityType, len(wantArgs), len(fn.Args))
			}
			if idx <= p.lastOnFnIdx {
				p.errf(fn.Loc(), errors.ErrUnknownOnFn, "on_fn %q is declared out of order; on_fns must appear in the same order as the mod API declares them", fn.Name)
			}
			p.lastOnFnIdx = idx
		}
	}

	for _, arg := range fn.Args {
		sc.define(arg.Name, argType(arg), arg.TypeName)
	}

	p.checkBlock(fn.Body, sc, false, ast.TypeUnknown)
}

// resolveOnFnSignature finds which entity type (if any) declares fn.Name as
// an on_fn, since on_fn implementations don't name their entity type
// directly; that association lives only in mod_api.json.
func (p *Propagator) resolveOnFnSignature(fn *ast.OnFnDecl) (string, []modapi.Argument, int, bool) {
	if p.entityType != "" {
		et, ok := p.api.FindEntityType(p.entityType)
		if !ok {
			return "", nil, -1, false
		}
		for i, hook := range et.OnFns {
			if hook.Name == fn.Name {
				return et.Name, hook.Args, i, true
			}
		}
		return "", nil, -1, false
	}
	for _, et := range p.api.EntityTypes {
		for i, hook := range et.OnFns {
			if hook.Name == fn.Name {
				return et.Name, hook.Args, i, true
			}
		}
	}
	return "", nil, -1, false
}

func (p *Propagator) checkHelperFn(fn *ast.HelperFnDecl) {
	sc := newScope(nil)
	for name, sym := range p.globals {
		sc.define(name, sym.typ, sym.typeName)
	}
	for _, arg := range fn.Args {
		sc.define(arg.Name, argType(arg), arg.TypeName)
	}

	p.checkBlock(fn.Body, sc, true, fn.ReturnType)

	if fn.HasReturn && !blockAlwaysReturns(fn.Body) {
		p.errf(fn.Loc(), errors.ErrMissingReturn, "helper_fn %q declares a return type but its last statement is not a return with a value", fn.Name)
	}
}

func argType(a ast.Argument) ast.Type {
	return a.Type
}

// checkBlock walks a statement list in its own nested scope.
func (p *Propagator) checkBlock(stmts []ast.Stmt, parent *scope, inHelperFn bool, returnType ast.Type) {
	sc := newScope(parent)
	for _, stmt := range stmts {
		p.checkStmt(stmt, sc, inHelperFn, returnType)
	}
}

func (p *Propagator) checkStmt(stmt ast.Stmt, sc *scope, inHelperFn bool, returnType ast.Type) {
	switch s := stmt.(type) {
	case *ast.VariableStmt:
		if s.Name == "me" {
			if s.IsDeclare {
				p.errf(s.Loc(), errors.ErrDuplicateGlobal, "%q is reserved and cannot be declared as a local variable", s.Name)
			} else {
				p.errf(s.Loc(), errors.ErrTypeMismatch, "%q is immutable and cannot be reassigned", s.Name)
			}
			return
		}
		valType, valTypeName := p.exprType(s.Value, sc)
		if s.IsDeclare {
			if _, existsAsGlobal := p.globals[s.Name]; existsAsGlobal {
				p.errf(s.Loc(), errors.ErrDuplicateGlobal, "local variable %q shadows a global of the same name", s.Name)
				return
			}
			if !typesCompatible(s.Type, s.TypeName, valType, valTypeName) {
				p.errf(s.Loc(), errors.ErrTypeMismatch, "variable %q declared as %s but assigned %s", s.Name, describeType(s.Type, s.TypeName), describeType(valType, valTypeName))
			}
			sc.define(s.Name, s.Type, s.TypeName)
			return
		}
		existing, ok := sc.lookup(s.Name)
		if !ok {
			p.errf(s.Loc(), errors.ErrUnknownIdentifier, "assignment to undeclared variable %q", s.Name)
			return
		}
		if existing.typ == ast.TypeID {
			if _, isGlobal := p.globals[s.Name]; isGlobal {
				p.errf(s.Loc(), errors.ErrTypeMismatch, "global %q of type id cannot be reassigned", s.Name)
				return
			}
		}
		if !typesCompatible(existing.typ, existing.typeName, valType, valTypeName) {
			p.errf(s.Loc(), errors.ErrTypeMismatch, "cannot assign %s to variable %q of type %s", describeType(valType, valTypeName), s.Name, describeType(existing.typ, existing.typeName))
		}
	case *ast.CallStmt:
		p.checkCall(s.Call, sc)
	case *ast.IfStmt:
		condType, _ := p.exprType(s.Condition, sc)
		if condType != ast.TypeBool {
			p.errf(s.Condition.Loc(), errors.ErrInvalidOperandType, "if condition must be bool, got %s", describeType(condType, ""))
		}
		p.checkBlock(s.Then, sc, inHelperFn, returnType)
		p.checkBlock(s.Else, sc, inHelperFn, returnType)
	case *ast.WhileStmt:
		condType, _ := p.exprType(s.Condition, sc)
		if condType != ast.TypeBool {
			p.errf(s.Condition.Loc(), errors.ErrInvalidOperandType, "while condition must be bool, got %s", describeType(condType, ""))
		}
		p.checkBlock(s.Body, sc, inHelperFn, returnType)
	case *ast.ReturnStmt:
		if s.Value == nil {
			return
		}
		valType, valTypeName := p.exprType(s.Value, sc)
		if !inHelperFn {
			return
		}
		if !typesCompatible(returnType, "", valType, valTypeName) {
			p.errf(s.Loc(), errors.ErrReturnTypeMismatch, "return value is %s, expected %s", describeType(valType, valTypeName), describeType(returnType, ""))
		}
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.EmptyLineStmt, *ast.CommentStmt:
		// nothing to check
	}
}

// checkCall validates a call's callee and argument types: helper_fns in
// this file are checked first, then game_functions from the mod API.
func (p *Propagator) checkCall(call *ast.CallExpr, sc *scope) (ast.Type, string) {
	for _, arg := range call.Args {
		p.exprType(arg, sc)
	}

	if hf, ok := p.helperFns[call.Name]; ok {
		if p.inGlobalInit {
			p.errf(call.Loc(), errors.ErrUnknownFunction, "helper_fn %q cannot be called from a global variable initializer", call.Name)
			return ast.TypeUnknown, ""
		}
		if len(hf.Args) != len(call.Args) {
			p.errf(call.Loc(), errors.ErrArgumentCountMismatch, "helper_fn %q expects %d arguments, got %d", call.Name, len(hf.Args), len(call.Args))
		} else {
			for i, a := range hf.Args {
				gotType, gotTypeName := p.exprType(call.Args[i], sc)
				if !typesCompatible(a.Type, a.TypeName, gotType, gotTypeName) {
					p.errf(call.Args[i].Loc(), errors.ErrArgumentTypeMismatch, "argument %d of %q: expected %s, got %s", i+1, call.Name, describeType(a.Type, a.TypeName), describeType(gotType, gotTypeName))
				}
			}
		}
		*call.ResultPtr() = resultFromType(hf.ReturnType, "")
		return hf.ReturnType, ""
	}

	if p.api != nil {
		if fn, ok := p.api.FindGameFn(call.Name); ok {
			if len(fn.Args) != len(call.Args) {
				p.errf(call.Loc(), errors.ErrArgumentCountMismatch, "game_function %q expects %d arguments, got %d", call.Name, len(fn.Args), len(call.Args))
			} else {
				for i, want := range fn.Args {
					call.Args[i] = p.coerceArg(call.Args[i], want)
				}
			}
			retType := modapiTypeOf(fn.ReturnType)
			*call.ResultPtr() = ast.Result{Type: retType}
			return retType, ""
		}
	}

	p.errf(call.Loc(), errors.ErrUnknownFunction, "call to undeclared function %q", call.Name)
	return ast.TypeUnknown, ""
}

// coerceArg implements the propagator's one coercion rule: a StringExpr
// passed where a resource or entity is expected is rewritten into a
// ResourceExpr/EntityExpr after validating its literal form, since resource
// and entity are refinements of string that only arise at argument
// positions demanding them.
func (p *Propagator) coerceArg(arg ast.Expr, want modapi.Argument) ast.Expr {
	switch want.Type {
	case "resource":
		lit, ok := arg.(*ast.LiteralExpr)
		if !ok || lit.Kind != ast.TypeString {
			p.errf(arg.Loc(), errors.ErrArgumentTypeMismatch, "argument %q expects a resource string literal", want.Name)
			return arg
		}
		if err := validateResourceString(lit.Str, want.ResourceExtension); err != nil {
			p.errf(arg.Loc(), errors.ErrUnknownResourceExtension, "%v", err)
			return arg
		}
		rewritten := &ast.ResourceExpr{BaseExpr: lit.BaseExpr, Extension: want.ResourceExtension, Path: lit.Str}
		*rewritten.ResultPtr() = ast.Result{Type: ast.TypeResource, TypeName: want.ResourceExtension}
		return rewritten

	case "entity":
		lit, ok := arg.(*ast.LiteralExpr)
		if !ok || lit.Kind != ast.TypeString {
			p.errf(arg.Loc(), errors.ErrArgumentTypeMismatch, "argument %q expects an entity string literal", want.Name)
			return arg
		}
		if err := validateEntityString(lit.Str, p.mod); err != nil {
			p.errf(arg.Loc(), errors.ErrUnknownEntityType, "%v", err)
			return arg
		}
		rewritten := &ast.EntityExpr{BaseExpr: lit.BaseExpr, EntityType: want.EntityType, Name: lit.Str}
		*rewritten.ResultPtr() = ast.Result{Type: ast.TypeEntity, TypeName: want.EntityType}
		return rewritten

	default:
		wantType, wantTypeName := modapiArgType(want)
		gotType, gotTypeName := arg.ResultPtr().Type, arg.ResultPtr().TypeName
		if !typesCompatible(wantType, wantTypeName, gotType, gotTypeName) {
			p.errf(arg.Loc(), errors.ErrArgumentTypeMismatch, "argument %q: expected %s, got %s", want.Name, describeType(wantType, wantTypeName), describeType(gotType, gotTypeName))
		}
		return arg
	}
}

// validateResourceString enforces the resource-literal grammar: non-empty,
// no leading/trailing '/', no '\', no "//", no "." or ".." path segment, no
// trailing '.', and — when required — a matching extension.
func validateResourceString(s, requiredExt string) error {
	if s == "" {
		return fmt.Errorf("resource string must not be empty")
	}
	if strings.HasPrefix(s, "/") || strings.HasSuffix(s, "/") {
		return fmt.Errorf("resource string %q must not start or end with '/'", s)
	}
	if strings.Contains(s, "\\") {
		return fmt.Errorf("resource string %q must not contain '\\'", s)
	}
	if strings.Contains(s, "//") {
		return fmt.Errorf("resource string %q must not contain '//'", s)
	}
	if strings.HasSuffix(s, ".") {
		return fmt.Errorf("resource string %q must not end with '.'", s)
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == "." || seg == ".." {
			return fmt.Errorf("resource string %q must not contain a %q path segment", s, seg)
		}
	}
	if requiredExt != "" && !strings.HasSuffix(s, requiredExt) {
		return fmt.Errorf("resource string %q must end with extension %q", s, requiredExt)
	}
	return nil
}

// validateEntityString enforces the entity-literal grammar: "[<mod>:]<name>"
// with both segments restricted to lowercase letters, digits, '_', '-', and
// a mod prefix that (when present) must not redundantly name ownMod.
func validateEntityString(s, ownMod string) error {
	name := s
	mod := ""
	if idx := strings.Index(s, ":"); idx >= 0 {
		mod = s[:idx]
		name = s[idx+1:]
	}
	if mod != "" && mod == ownMod {
		return fmt.Errorf("entity string %q must use the bare name, not its own mod prefix %q", s, mod)
	}
	if name == "" {
		return fmt.Errorf("entity string %q: name segment must not be empty", s)
	}
	if mod != "" {
		if err := validateLowerSegment(mod); err != nil {
			return fmt.Errorf("entity string %q: mod segment %v", s, err)
		}
	}
	if err := validateLowerSegment(name); err != nil {
		return fmt.Errorf("entity string %q: name segment %v", s, err)
	}
	return nil
}

func validateLowerSegment(s string) error {
	if s == "" {
		return fmt.Errorf("must not be empty")
	}
	for _, r := range s {
		isLower := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		if !isLower && !isDigit && r != '_' && r != '-' {
			return fmt.Errorf("must consist only of lowercase letters, digits, '_' or '-'")
		}
	}
	return nil
}

// modapiArgType maps a ModApi argument's JSON type string to the
// propagator's Type enum plus its id tag, if any: a bare entity-type name
// used directly as the JSON type string is shorthand for a tagged id.
func modapiArgType(want modapi.Argument) (ast.Type, string) {
	switch want.Type {
	case "bool":
		return ast.TypeBool, ""
	case "number":
		return ast.TypeNumber, ""
	case "string":
		return ast.TypeString, ""
	case "id":
		return ast.TypeID, want.EntityType
	case "":
		return ast.TypeUnknown, ""
	default:
		return ast.TypeID, want.Type
	}
}

func modapiTypeOf(name string) ast.Type {
	switch name {
	case "bool":
		return ast.TypeBool
	case "number":
		return ast.TypeNumber
	case "string":
		return ast.TypeString
	case "":
		return ast.TypeUnknown
	default:
		return ast.TypeID
	}
}

func resultFromType(t ast.Type, typeName string) ast.Result {
	return ast.Result{Type: t, TypeName: typeName}
}

// exprType computes and annotates the type of expr, recursing into
// sub-expressions.
func (p *Propagator) exprType(expr ast.Expr, sc *scope) (ast.Type, string) {
	if expr == nil {
		return ast.TypeUnknown, ""
	}
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		*e.ResultPtr() = ast.Result{Type: e.Kind}
		return e.Kind, ""
	case *ast.IdentifierExpr:
		sym, ok := sc.lookup(e.Name)
		if !ok {
			p.errf(e.Loc(), errors.ErrUnknownIdentifier, "reference to undeclared identifier %q", e.Name)
			return ast.TypeUnknown, ""
		}
		*e.ResultPtr() = ast.Result{Type: sym.typ, TypeName: sym.typeName}
		return sym.typ, sym.typeName
	case *ast.UnaryExpr:
		operandType, _ := p.exprType(e.Operand, sc)
		var result ast.Type
		switch e.Op {
		case ast.UnaryNegate:
			if operandType != ast.TypeNumber {
				p.errf(e.Loc(), errors.ErrInvalidOperandType, "unary '-' requires a number operand, got %s", describeType(operandType, ""))
			}
			result = ast.TypeNumber
		case ast.UnaryNot:
			if operandType != ast.TypeBool {
				p.errf(e.Loc(), errors.ErrInvalidOperandType, "'not' requires a bool operand, got %s", describeType(operandType, ""))
			}
			result = ast.TypeBool
		}
		*e.ResultPtr() = ast.Result{Type: result}
		return result, ""
	case *ast.BinaryExpr:
		return p.checkBinary(e, sc)
	case *ast.ParenExpr:
		t, tn := p.exprType(e.Inner, sc)
		*e.ResultPtr() = ast.Result{Type: t, TypeName: tn}
		return t, tn
	case *ast.CallExpr:
		return p.checkCall(e, sc)
	case *ast.ResourceExpr:
		*e.ResultPtr() = ast.Result{Type: ast.TypeResource, TypeName: e.Extension}
		return ast.TypeResource, e.Extension
	case *ast.EntityExpr:
		*e.ResultPtr() = ast.Result{Type: ast.TypeEntity, TypeName: e.EntityType}
		return ast.TypeEntity, e.EntityType
	default:
		return ast.TypeUnknown, ""
	}
}

func (p *Propagator) checkBinary(e *ast.BinaryExpr, sc *scope) (ast.Type, string) {
	leftType, leftTypeName := p.exprType(e.Left, sc)
	rightType, rightTypeName := p.exprType(e.Right, sc)

	var result ast.Type
	switch e.Op {
	case ast.BinaryAdd, ast.BinarySub, ast.BinaryMul, ast.BinaryDiv:
		if leftType != ast.TypeNumber || rightType != ast.TypeNumber {
			p.errf(e.Loc(), errors.ErrInvalidOperandType, "operator %q requires number operands, got %s and %s", e.Op, describeType(leftType, ""), describeType(rightType, ""))
		}
		result = ast.TypeNumber
	case ast.BinaryLess, ast.BinaryLessEqual, ast.BinaryGreater, ast.BinaryGreaterEqual:
		if leftType != ast.TypeNumber || rightType != ast.TypeNumber {
			p.errf(e.Loc(), errors.ErrInvalidOperandType, "operator %q requires number operands, got %s and %s", e.Op, describeType(leftType, ""), describeType(rightType, ""))
		}
		result = ast.TypeBool
	case ast.BinaryEqual, ast.BinaryNotEqual:
		if !typesCompatible(leftType, leftTypeName, rightType, rightTypeName) {
			p.errf(e.Loc(), errors.ErrInvalidOperandType, "cannot compare %s with %s", describeType(leftType, leftTypeName), describeType(rightType, rightTypeName))
		}
		result = ast.TypeBool
	case ast.BinaryAnd, ast.BinaryOr:
		if leftType != ast.TypeBool || rightType != ast.TypeBool {
			p.errf(e.Loc(), errors.ErrInvalidOperandType, "operator %q requires bool operands, got %s and %s", e.Op, describeType(leftType, ""), describeType(rightType, ""))
		}
		result = ast.TypeBool
	}
	*e.ResultPtr() = ast.Result{Type: result}
	return result, ""
}

// typesCompatible implements grug's type equality rule: two types are
// compatible when equal, with id types additionally compatible whenever
// either side is the untagged wildcard id, or both tags match.
func typesCompatible(wantType ast.Type, wantTypeName string, gotType ast.Type, gotTypeName string) bool {
	if wantType == ast.TypeUnknown || gotType == ast.TypeUnknown {
		return true
	}
	if wantType != gotType {
		return false
	}
	if wantType != ast.TypeID {
		return wantTypeName == gotTypeName || wantTypeName == "" || gotTypeName == ""
	}
	if wantTypeName == "" || gotTypeName == "" {
		return true // untagged id is a wildcard
	}
	return wantTypeName == gotTypeName
}

func describeType(t ast.Type, typeName string) string {
	if typeName != "" {
		return fmt.Sprintf("%s(%s)", t, typeName)
	}
	return t.String()
}

// blockAlwaysReturns requires the last body statement, ignoring trailing
// comments and blank lines, to be a return statement carrying a value. This
// is a literal last-statement check, not a control-flow analysis: a helper
// fn whose body ends with "if c { return 1 } else { return 2 }" fails this
// check, since its last statement is the IfStmt, not a ReturnStmt.
func blockAlwaysReturns(stmts []ast.Stmt) bool {
	for i := len(stmts) - 1; i >= 0; i-- {
		switch s := stmts[i].(type) {
		case *ast.EmptyLineStmt, *ast.CommentStmt:
			continue
		case *ast.ReturnStmt:
			return s.Value != nil
		default:
			return false
		}
	}
	return false
}
