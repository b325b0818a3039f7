// Package serializer is a thin, explicitly out-of-scope collaborator: the
// compiler and interpreter never import it. It exists for tooling — a
// language server, a build cache, a diagnostics dashboard — that wants a
// JSON-stable summary of a compiled file without walking the AST itself.
//
// It also carries grug's full AST JSON encoding: EncodeFile/DecodeFile
// round-trip an entire parsed file (every statement and expression, tagged
// with uppercase token-like kind/operator strings) so that
// printer.Print(DecodeFile(EncodeFile(file))) reproduces source equivalent
// to the original, modulo the elided type-propagator Result fields.
package serializer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grug-lang/grug/compiler/ast"
)

// FileSummary is the serializable shape of a compiled file: enough to
// drive a "what does this mod expose" view without re-parsing it.
type FileSummary struct {
	Path       string          `json:"path"`
	Mod        string          `json:"mod"`
	EntityType string          `json:"entity_type"`
	Globals    []GlobalSummary `json:"globals"`
	OnFns      []FnSummary     `json:"on_fns"`
	HelperFns  []FnSummary     `json:"helper_fns"`
}

// GlobalSummary describes one top-level variable declaration.
type GlobalSummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Line int    `json:"line"`
}

// FnSummary describes one on_fn or helper_fn's signature.
type FnSummary struct {
	Name       string   `json:"name"`
	ArgNames   []string `json:"arg_names"`
	ReturnType string   `json:"return_type,omitempty"`
	Line       int      `json:"line"`
}

// Summarize builds a FileSummary from a parsed file, mod, and entity type.
func Summarize(path, mod, entityType string, file *ast.File) FileSummary {
	summary := FileSummary{Path: path, Mod: mod, EntityType: entityType}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GlobalVariableDecl:
			summary.Globals = append(summary.Globals, GlobalSummary{
				Name: d.Name,
				Type: d.Type.String(),
				Line: d.Loc().Line,
			})
		case *ast.OnFnDecl:
			summary.OnFns = append(summary.OnFns, fnSummary(d.Name, d.Args, "", d.Loc().Line))
		case *ast.HelperFnDecl:
			returnType := ""
			if d.HasReturn {
				returnType = d.ReturnType.String()
			}
			summary.HelperFns = append(summary.HelperFns, fnSummary(d.Name, d.Args, returnType, d.Loc().Line))
		}
	}

	return summary
}

func fnSummary(name string, args []ast.Argument, returnType string, line int) FnSummary {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name
	}
	return FnSummary{Name: name, ArgNames: names, ReturnType: returnType, Line: line}
}

// Marshal renders a FileSummary as indented, deterministic JSON: the same
// file always serializes to the same bytes, which is what makes this
// useful for a build cache's change detection.
func Marshal(summary FileSummary) ([]byte, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing file summary: %w", err)
	}
	return data, nil
}

// WriteToFile marshals summary and writes it to outputPath, creating any
// missing parent directories.
func WriteToFile(summary FileSummary, outputPath string) error {
	data, err := Marshal(summary)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", outputPath, err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("writing file summary to %s: %w", outputPath, err)
	}
	return nil
}

// ---- Full AST JSON round trip -----------------------------------------

// EncodeFile renders the entire AST of file as JSON: every declaration,
// statement, and expression, each tagged with an uppercase token-like
// "kind" (and "operator" for unary/binary nodes). DecodeFile parses this
// back into an equivalent *ast.File.
func EncodeFile(file *ast.File) ([]byte, error) {
	decls := make([]any, len(file.Decls))
	for i, d := range file.Decls {
		decls[i] = encodeDecl(d)
	}
	data, err := json.MarshalIndent(map[string]any{
		"path":  file.Path,
		"decls": decls,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding file ast: %w", err)
	}
	return data, nil
}

// DecodeFile parses the JSON produced by EncodeFile back into an *ast.File.
func DecodeFile(data []byte) (*ast.File, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding file ast: %w", err)
	}
	rawDecls, _ := raw["decls"].([]any)
	decls := make([]ast.Decl, len(rawDecls))
	for i, rd := range rawDecls {
		m, ok := rd.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decoding file ast: decls[%d] is not an object", i)
		}
		d, err := decodeDecl(m)
		if err != nil {
			return nil, fmt.Errorf("decoding file ast: decls[%d]: %w", i, err)
		}
		decls[i] = d
	}
	path, _ := raw["path"].(string)
	return &ast.File{Path: path, Decls: decls}, nil
}

func loc(m map[string]any) ast.SourceLocation {
	return ast.SourceLocation{Line: getInt(m, "line")}
}

func encodeArgs(args []ast.Argument) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = map[string]any{
			"name":      a.Name,
			"type":      typeKind(a.Type),
			"type_name": a.TypeName,
		}
	}
	return out
}

func decodeArgs(raw []any) ([]ast.Argument, error) {
	args := make([]ast.Argument, len(raw))
	for i, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("args[%d] is not an object", i)
		}
		t, err := parseTypeKind(getString(m, "type"))
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", i, err)
		}
		args[i] = ast.Argument{Name: getString(m, "name"), Type: t, TypeName: getString(m, "type_name")}
	}
	return args, nil
}

func encodeDecl(decl ast.Decl) map[string]any {
	switch d := decl.(type) {
	case *ast.GlobalVariableDecl:
		return map[string]any{
			"kind": "GLOBAL_VARIABLE", "line": d.Loc().Line,
			"name": d.Name, "type": typeKind(d.Type), "type_name": d.TypeName,
			"value": encodeExpr(d.Value),
		}
	case *ast.OnFnDecl:
		return map[string]any{
			"kind": "ON_FN", "line": d.Loc().Line,
			"name": d.Name, "args": encodeArgs(d.Args), "body": encodeStmts(d.Body),
		}
	case *ast.HelperFnDecl:
		m := map[string]any{
			"kind": "HELPER_FN", "line": d.Loc().Line,
			"name": d.Name, "args": encodeArgs(d.Args), "has_return": d.HasReturn,
			"body": encodeStmts(d.Body),
		}
		if d.HasReturn {
			m["return_type"] = typeKind(d.ReturnType)
		}
		return m
	case *ast.EmptyLineDecl:
		return map[string]any{"kind": "EMPTY_LINE", "line": d.Loc().Line}
	case *ast.CommentDecl:
		return map[string]any{"kind": "COMMENT", "line": d.Loc().Line, "text": d.Text}
	default:
		return map[string]any{"kind": "UNKNOWN", "line": decl.Loc().Line}
	}
}

func decodeDecl(m map[string]any) (ast.Decl, error) {
	base := ast.BaseDecl{Location: loc(m)}
	switch getString(m, "kind") {
	case "GLOBAL_VARIABLE":
		t, err := parseTypeKind(getString(m, "type"))
		if err != nil {
			return nil, err
		}
		value, err := decodeExprField(m, "value")
		if err != nil {
			return nil, err
		}
		return &ast.GlobalVariableDecl{BaseDecl: base, Name: getString(m, "name"), Type: t, TypeName: getString(m, "type_name"), Value: value}, nil

	case "ON_FN":
		args, err := decodeArgs(getSlice(m, "args"))
		if err != nil {
			return nil, err
		}
		body, err := decodeStmts(getSlice(m, "body"))
		if err != nil {
			return nil, err
		}
		return &ast.OnFnDecl{BaseDecl: base, Name: getString(m, "name"), Args: args, Body: body}, nil

	case "HELPER_FN":
		args, err := decodeArgs(getSlice(m, "args"))
		if err != nil {
			return nil, err
		}
		body, err := decodeStmts(getSlice(m, "body"))
		if err != nil {
			return nil, err
		}
		hasReturn := getBool(m, "has_return")
		var returnType ast.Type
		if hasReturn {
			returnType, err = parseTypeKind(getString(m, "return_type"))
			if err != nil {
				return nil, err
			}
		}
		return &ast.HelperFnDecl{BaseDecl: base, Name: getString(m, "name"), Args: args, ReturnType: returnType, HasReturn: hasReturn, Body: body}, nil

	case "EMPTY_LINE":
		return &ast.EmptyLineDecl{BaseDecl: base}, nil

	case "COMMENT":
		return &ast.CommentDecl{BaseDecl: base, Text: getString(m, "text")}, nil

	default:
		return nil, fmt.Errorf("unknown decl kind %q", getString(m, "kind"))
	}
}

func encodeStmts(stmts []ast.Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = encodeStmt(s)
	}
	return out
}

func decodeStmts(raw []any) ([]ast.Stmt, error) {
	stmts := make([]ast.Stmt, len(raw))
	for i, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("stmts[%d] is not an object", i)
		}
		s, err := decodeStmt(m)
		if err != nil {
			return nil, fmt.Errorf("stmts[%d]: %w", i, err)
		}
		stmts[i] = s
	}
	return stmts, nil
}

func encodeStmt(stmt ast.Stmt) map[string]any {
	switch s := stmt.(type) {
	case *ast.VariableStmt:
		return map[string]any{
			"kind": "VARIABLE", "line": s.Loc().Line,
			"name": s.Name, "is_declare": s.IsDeclare, "type": typeKind(s.Type), "type_name": s.TypeName,
			"value": encodeExpr(s.Value),
		}
	case *ast.CallStmt:
		return map[string]any{"kind": "CALL", "line": s.Loc().Line, "call": encodeExpr(s.Call)}
	case *ast.IfStmt:
		return map[string]any{
			"kind": "IF", "line": s.Loc().Line,
			"condition": encodeExpr(s.Condition), "then": encodeStmts(s.Then), "else": encodeStmts(s.Else),
		}
	case *ast.WhileStmt:
		return map[string]any{
			"kind": "WHILE", "line": s.Loc().Line,
			"condition": encodeExpr(s.Condition), "body": encodeStmts(s.Body),
		}
	case *ast.ReturnStmt:
		m := map[string]any{"kind": "RETURN", "line": s.Loc().Line}
		if s.Value != nil {
			m["value"] = encodeExpr(s.Value)
		}
		return m
	case *ast.BreakStmt:
		return map[string]any{"kind": "BREAK", "line": s.Loc().Line}
	case *ast.ContinueStmt:
		return map[string]any{"kind": "CONTINUE", "line": s.Loc().Line}
	case *ast.EmptyLineStmt:
		return map[string]any{"kind": "EMPTY_LINE", "line": s.Loc().Line}
	case *ast.CommentStmt:
		return map[string]any{"kind": "COMMENT", "line": s.Loc().Line, "text": s.Text}
	default:
		return map[string]any{"kind": "UNKNOWN", "line": stmt.Loc().Line}
	}
}

func decodeStmt(m map[string]any) (ast.Stmt, error) {
	base := ast.BaseStmt{Location: loc(m)}
	switch getString(m, "kind") {
	case "VARIABLE":
		t, err := parseTypeKind(getString(m, "type"))
		if err != nil {
			return nil, err
		}
		value, err := decodeExprField(m, "value")
		if err != nil {
			return nil, err
		}
		return &ast.VariableStmt{BaseStmt: base, Name: getString(m, "name"), IsDeclare: getBool(m, "is_declare"), Type: t, TypeName: getString(m, "type_name"), Value: value}, nil

	case "CALL":
		callExpr, err := decodeExprField(m, "call")
		if err != nil {
			return nil, err
		}
		call, ok := callExpr.(*ast.CallExpr)
		if !ok {
			return nil, fmt.Errorf("call statement's \"call\" field is not a CALL expression")
		}
		return &ast.CallStmt{BaseStmt: base, Call: call}, nil

	case "IF":
		cond, err := decodeExprField(m, "condition")
		if err != nil {
			return nil, err
		}
		then, err := decodeStmts(getSlice(m, "then"))
		if err != nil {
			return nil, err
		}
		els, err := decodeStmts(getSlice(m, "else"))
		if err != nil {
			return nil, err
		}
		return &ast.IfStmt{BaseStmt: base, Condition: cond, Then: then, Else: els}, nil

	case "WHILE":
		cond, err := decodeExprField(m, "condition")
		if err != nil {
			return nil, err
		}
		body, err := decodeStmts(getSlice(m, "body"))
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{BaseStmt: base, Condition: cond, Body: body}, nil

	case "RETURN":
		var value ast.Expr
		if _, present := m["value"]; present {
			var err error
			value, err = decodeExprField(m, "value")
			if err != nil {
				return nil, err
			}
		}
		return &ast.ReturnStmt{BaseStmt: base, Value: value}, nil

	case "BREAK":
		return &ast.BreakStmt{BaseStmt: base}, nil

	case "CONTINUE":
		return &ast.ContinueStmt{BaseStmt: base}, nil

	case "EMPTY_LINE":
		return &ast.EmptyLineStmt{BaseStmt: base}, nil

	case "COMMENT":
		return &ast.CommentStmt{BaseStmt: base, Text: getString(m, "text")}, nil

	default:
		return nil, fmt.Errorf("unknown stmt kind %q", getString(m, "kind"))
	}
}

func encodeExpr(expr ast.Expr) map[string]any {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		m := map[string]any{"kind": "LITERAL", "line": e.Loc().Line, "type": typeKind(e.Kind)}
		switch e.Kind {
		case ast.TypeBool:
			m["value"] = e.Bool
		case ast.TypeNumber:
			m["value"] = e.Num
		case ast.TypeString:
			m["value"] = e.Str
		}
		return m
	case *ast.IdentifierExpr:
		return map[string]any{"kind": "IDENTIFIER", "line": e.Loc().Line, "name": e.Name}
	case *ast.UnaryExpr:
		return map[string]any{
			"kind": "UNARY", "line": e.Loc().Line,
			"operator": unaryOpKind(e.Op), "operand": encodeExpr(e.Operand),
		}
	case *ast.BinaryExpr:
		return map[string]any{
			"kind": "BINARY", "line": e.Loc().Line,
			"operator": binaryOpKind(e.Op), "left": encodeExpr(e.Left), "right": encodeExpr(e.Right),
		}
	case *ast.ParenExpr:
		return map[string]any{"kind": "PAREN", "line": e.Loc().Line, "inner": encodeExpr(e.Inner)}
	case *ast.CallExpr:
		args := make([]any, len(e.Args))
		for i, a := range e.Args {
			args[i] = encodeExpr(a)
		}
		return map[string]any{"kind": "CALL", "line": e.Loc().Line, "name": e.Name, "args": args}
	case *ast.ResourceExpr:
		return map[string]any{"kind": "RESOURCE", "line": e.Loc().Line, "extension": e.Extension, "path": e.Path}
	case *ast.EntityExpr:
		return map[string]any{"kind": "ENTITY", "line": e.Loc().Line, "entity_type": e.EntityType, "name": e.Name}
	default:
		return map[string]any{"kind": "UNKNOWN", "line": expr.Loc().Line}
	}
}

func decodeExprField(m map[string]any, field string) (ast.Expr, error) {
	sub, ok := m[field].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %q is not an object", field)
	}
	return decodeExpr(sub)
}

func decodeExpr(m map[string]any) (ast.Expr, error) {
	base := ast.BaseExpr{Location: loc(m)}
	switch getString(m, "kind") {
	case "LITERAL":
		t, err := parseTypeKind(getString(m, "type"))
		if err != nil {
			return nil, err
		}
		e := &ast.LiteralExpr{BaseExpr: base, Kind: t}
		switch t {
		case ast.TypeBool:
			e.Bool = getBool(m, "value")
		case ast.TypeNumber:
			e.Num = getFloat(m, "value")
		case ast.TypeString:
			e.Str = getString(m, "value")
		}
		return e, nil

	case "IDENTIFIER":
		return &ast.IdentifierExpr{BaseExpr: base, Name: getString(m, "name")}, nil

	case "UNARY":
		op, err := parseUnaryOpKind(getString(m, "operator"))
		if err != nil {
			return nil, err
		}
		operand, err := decodeExprField(m, "operand")
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{BaseExpr: base, Op: op, Operand: operand}, nil

	case "BINARY":
		op, err := parseBinaryOpKind(getString(m, "operator"))
		if err != nil {
			return nil, err
		}
		left, err := decodeExprField(m, "left")
		if err != nil {
			return nil, err
		}
		right, err := decodeExprField(m, "right")
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{BaseExpr: base, Op: op, Left: left, Right: right}, nil

	case "PAREN":
		inner, err := decodeExprField(m, "inner")
		if err != nil {
			return nil, err
		}
		return &ast.ParenExpr{BaseExpr: base, Inner: inner}, nil

	case "CALL":
		rawArgs := getSlice(m, "args")
		args := make([]ast.Expr, len(rawArgs))
		for i, r := range rawArgs {
			am, ok := r.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("call args[%d] is not an object", i)
			}
			a, err := decodeExpr(am)
			if err != nil {
				return nil, fmt.Errorf("call args[%d]: %w", i, err)
			}
			args[i] = a
		}
		return &ast.CallExpr{BaseExpr: base, Name: getString(m, "name"), Args: args}, nil

	case "RESOURCE":
		return &ast.ResourceExpr{BaseExpr: base, Extension: getString(m, "extension"), Path: getString(m, "path")}, nil

	case "ENTITY":
		return &ast.EntityExpr{BaseExpr: base, EntityType: getString(m, "entity_type"), Name: getString(m, "name")}, nil

	default:
		return nil, fmt.Errorf("unknown expr kind %q", getString(m, "kind"))
	}
}

func typeKind(t ast.Type) string {
	switch t {
	case ast.TypeBool:
		return "BOOL"
	case ast.TypeNumber:
		return "NUMBER"
	case ast.TypeString:
		return "STRING"
	case ast.TypeResource:
		return "RESOURCE"
	case ast.TypeEntity:
		return "ENTITY"
	case ast.TypeID:
		return "ID"
	default:
		return "UNKNOWN"
	}
}

func parseTypeKind(s string) (ast.Type, error) {
	switch s {
	case "BOOL":
		return ast.TypeBool, nil
	case "NUMBER":
		return ast.TypeNumber, nil
	case "STRING":
		return ast.TypeString, nil
	case "RESOURCE":
		return ast.TypeResource, nil
	case "ENTITY":
		return ast.TypeEntity, nil
	case "ID":
		return ast.TypeID, nil
	case "UNKNOWN", "":
		return ast.TypeUnknown, nil
	default:
		return ast.TypeUnknown, fmt.Errorf("unknown type kind %q", s)
	}
}

func unaryOpKind(op ast.UnaryOp) string {
	if op == ast.UnaryNot {
		return "NOT"
	}
	return "NEGATE"
}

func parseUnaryOpKind(s string) (ast.UnaryOp, error) {
	switch s {
	case "NEGATE":
		return ast.UnaryNegate, nil
	case "NOT":
		return ast.UnaryNot, nil
	default:
		return 0, fmt.Errorf("unknown unary operator %q", s)
	}
}

func binaryOpKind(op ast.BinaryOp) string {
	switch op {
	case ast.BinaryAdd:
		return "ADD"
	case ast.BinarySub:
		return "SUB"
	case ast.BinaryMul:
		return "MUL"
	case ast.BinaryDiv:
		return "DIV"
	case ast.BinaryEqual:
		return "EQUAL"
	case ast.BinaryNotEqual:
		return "NOT_EQUAL"
	case ast.BinaryLess:
		return "LESS"
	case ast.BinaryLessEqual:
		return "LESS_EQUAL"
	case ast.BinaryGreater:
		return "GREATER"
	case ast.BinaryGreaterEqual:
		return "GREATER_EQUAL"
	case ast.BinaryAnd:
		return "AND"
	case ast.BinaryOr:
		return "OR"
	default:
		return "UNKNOWN"
	}
}

func parseBinaryOpKind(s string) (ast.BinaryOp, error) {
	switch s {
	case "ADD":
		return ast.BinaryAdd, nil
	case "SUB":
		return ast.BinarySub, nil
	case "MUL":
		return ast.BinaryMul, nil
	case "DIV":
		return ast.BinaryDiv, nil
	case "EQUAL":
		return ast.BinaryEqual, nil
	case "NOT_EQUAL":
		return ast.BinaryNotEqual, nil
	case "LESS":
		return ast.BinaryLess, nil
	case "LESS_EQUAL":
		return ast.BinaryLessEqual, nil
	case "GREATER":
		return ast.BinaryGreater, nil
	case "GREATER_EQUAL":
		return ast.BinaryGreaterEqual, nil
	case "AND":
		return ast.BinaryAnd, nil
	case "OR":
		return ast.BinaryOr, nil
	default:
		return 0, fmt.Errorf("unknown binary operator %q", s)
	}
}

func getString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func getInt(m map[string]any, key string) int {
	f, _ := m[key].(float64)
	return int(f)
}

func getFloat(m map[string]any, key string) float64 {
	f, _ := m[key].(float64)
	return f
}

func getBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func getSlice(m map[string]any, key string) []any {
	s, _ := m[key].([]any)
	return s
}
