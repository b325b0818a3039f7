package interp

import (
	"fmt"
	"strings"
	"time"

	"github.com/grug-lang/grug/compiler/ast"
)

// GameFn is a single host-provided function, callable from grug scripts.
// hasReturn mirrors the mod API's return_type presence.
type GameFn struct {
	HasReturn bool
	Call      func(args []Value) (Value, error)
}

// GameFnTable is the full set of game_functions a host exposes to a mod.
type GameFnTable map[string]GameFn

// Interpreter walks one compiled file's AST against a shared call stack and
// a host game function table. mod is the file's owning mod name, used to
// materialize resource and entity literals.
type Interpreter struct {
	file      string
	mod       string
	helperFns map[string]*ast.HelperFnDecl
	globals   map[string]Value

	gameFns GameFnTable

	callStack *CallStack
	timeLimit time.Duration
	onHandler ErrorHandler

	deadline time.Time
	onFnName string
}

// New creates an Interpreter for a single compiled file owned by mod.
func New(file, mod string, helperFns map[string]*ast.HelperFnDecl, gameFns GameFnTable, callStack *CallStack, timeLimit time.Duration, handler ErrorHandler) *Interpreter {
	return &Interpreter{
		file:      file,
		mod:       mod,
		helperFns: helperFns,
		globals:   map[string]Value{},
		gameFns:   gameFns,
		callStack: callStack,
		timeLimit: timeLimit,
		onHandler: handler,
	}
}

// InitGlobals binds the implicit `me` global to the entity's freshly minted
// id, then evaluates every global variable declaration in file scope, in
// source order, before any on_fn is invoked.
func (in *Interpreter) InitGlobals(decls []ast.Decl, meID uint64) error {
	in.globals["me"] = ID(meID)
	sc := newEnv(nil)
	for _, decl := range decls {
		gv, ok := decl.(*ast.GlobalVariableDecl)
		if !ok {
			continue
		}
		val, err := in.eval(gv.Value, sc)
		if err != nil {
			return err
		}
		in.globals[gv.Name] = val
	}
	return nil
}

// env is the interpreter's runtime scope chain, parallel to typecheck's
// compile-time scope chain.
type env struct {
	vars   map[string]Value
	parent *env
}

func newEnv(parent *env) *env {
	return &env{vars: map[string]Value{}, parent: parent}
}

func (e *env) get(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

func (e *env) set(name string, v Value) {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return
		}
	}
	e.vars[name] = v
}

func (e *env) define(name string, v Value) {
	e.vars[name] = v
}

// CallOnFn invokes the named on_fn with the given arguments. Exactly one
// RuntimeError is reported to the handler if execution fails; a
// successfully-running on_fn that fails a budget check deep inside a
// helper_fn call chain still reports only once, at the point of failure.
func (in *Interpreter) CallOnFn(fn *ast.OnFnDecl, args []Value) {
	in.onFnName = fn.Name
	in.deadline = time.Now().Add(in.timeLimit)

	if err := in.callStack.Push(fn.Name, in.file); err != nil {
		in.report(err.Error(), StackOverflow)
		return
	}
	defer in.callStack.Pop()

	sc := newEnv(nil)
	for i, arg := range fn.Args {
		if i < len(args) {
			sc.define(arg.Name, args[i])
		}
	}

	_, err := in.execBlock(fn.Body, sc)
	if err != nil {
		in.report(err.Error(), classifyErr(err))
	}
}

func (in *Interpreter) report(reason string, kind RuntimeErrorKind) {
	if in.onHandler == nil {
		return
	}
	in.onHandler(&RuntimeError{Reason: reason, Kind: kind, OnFnName: in.onFnName, FilePath: in.file})
}

type timeLimitError struct{ msg string }

func (e *timeLimitError) Error() string { return e.msg }

type gameFnError struct{ msg string }

func (e *gameFnError) Error() string { return e.msg }

func classifyErr(err error) RuntimeErrorKind {
	switch err.(type) {
	case *timeLimitError:
		return TimeLimitExceeded
	case *gameFnError:
		return GameFnError
	default:
		return StackOverflow
	}
}

func (in *Interpreter) checkDeadline() error {
	if in.timeLimit <= 0 {
		return nil
	}
	if time.Now().After(in.deadline) {
		return &timeLimitError{msg: fmt.Sprintf("on_fn %q exceeded its time limit of %s", in.onFnName, in.timeLimit)}
	}
	return nil
}

// execBlock executes a statement list in its own nested environment and
// returns the control-flow signal it produced.
func (in *Interpreter) execBlock(stmts []ast.Stmt, parent *env) (signal, error) {
	sc := newEnv(parent)
	for _, stmt := range stmts {
		sig, err := in.exec(stmt, sc)
		if err != nil {
			return signal{}, err
		}
		if sig.kind != signalNormal {
			return sig, nil
		}
	}
	return normalSignal, nil
}

func (in *Interpreter) exec(stmt ast.Stmt, sc *env) (signal, error) {
	switch s := stmt.(type) {
	case *ast.VariableStmt:
		val, err := in.eval(s.Value, sc)
		if err != nil {
			return signal{}, err
		}
		if s.IsDeclare {
			sc.define(s.Name, val)
		} else {
			sc.set(s.Name, val)
		}
		return normalSignal, nil

	case *ast.CallStmt:
		if _, err := in.evalCall(s.Call, sc); err != nil {
			return signal{}, err
		}
		return normalSignal, nil

	case *ast.IfStmt:
		cond, err := in.eval(s.Condition, sc)
		if err != nil {
			return signal{}, err
		}
		if cond.Bool() {
			return in.execBlock(s.Then, sc)
		}
		return in.execBlock(s.Else, sc)

	case *ast.WhileStmt:
		for {
			if err := in.checkDeadline(); err != nil {
				return signal{}, err
			}
			cond, err := in.eval(s.Condition, sc)
			if err != nil {
				return signal{}, err
			}
			if !cond.Bool() {
				return normalSignal, nil
			}
			sig, err := in.execBlock(s.Body, sc)
			if err != nil {
				return signal{}, err
			}
			switch sig.kind {
			case signalBroke:
				return normalSignal, nil
			case signalReturned:
				return sig, nil
			}
		}

	case *ast.ReturnStmt:
		if s.Value == nil {
			return returnedSignal(Value{}, false), nil
		}
		val, err := in.eval(s.Value, sc)
		if err != nil {
			return signal{}, err
		}
		return returnedSignal(val, true), nil

	case *ast.BreakStmt:
		return brokeSignal, nil

	case *ast.ContinueStmt:
		return continuedSignal, nil

	case *ast.EmptyLineStmt, *ast.CommentStmt:
		return normalSignal, nil

	default:
		return normalSignal, nil
	}
}

func (in *Interpreter) eval(expr ast.Expr, sc *env) (Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		switch e.Kind {
		case ast.TypeBool:
			return Bool(e.Bool), nil
		case ast.TypeNumber:
			return Number(e.Num), nil
		case ast.TypeString:
			return String(e.Str), nil
		}
		return Value{}, nil

	case *ast.IdentifierExpr:
		if v, ok := sc.get(e.Name); ok {
			return v, nil
		}
		if v, ok := in.globals[e.Name]; ok {
			return v, nil
		}
		return Value{}, fmt.Errorf("undefined variable %q", e.Name)

	case *ast.UnaryExpr:
		operand, err := in.eval(e.Operand, sc)
		if err != nil {
			return Value{}, err
		}
		switch e.Op {
		case ast.UnaryNegate:
			return Number(-operand.Number()), nil
		case ast.UnaryNot:
			return Bool(!operand.Bool()), nil
		}
		return Value{}, nil

	case *ast.BinaryExpr:
		return in.evalBinary(e, sc)

	case *ast.ParenExpr:
		return in.eval(e.Inner, sc)

	case *ast.CallExpr:
		return in.evalCall(e, sc)

	case *ast.ResourceExpr:
		// "<mod>/<string>", per the resource literal materialization rule.
		return String(in.mod + "/" + e.Path), nil

	case *ast.EntityExpr:
		// "<mod>:<name>" unless the string already carries a mod prefix.
		if strings.Contains(e.Name, ":") {
			return String(e.Name), nil
		}
		return String(in.mod + ":" + e.Name), nil

	default:
		return Value{}, fmt.Errorf("cannot evaluate expression of type %T", expr)
	}
}

func (in *Interpreter) evalBinary(e *ast.BinaryExpr, sc *env) (Value, error) {
	left, err := in.eval(e.Left, sc)
	if err != nil {
		return Value{}, err
	}

	// and/or short-circuit, consistent with a statically-typed bool
	// operand requirement: no truthiness coercion happens here.
	if e.Op == ast.BinaryAnd && !left.Bool() {
		return Bool(false), nil
	}
	if e.Op == ast.BinaryOr && left.Bool() {
		return Bool(true), nil
	}

	right, err := in.eval(e.Right, sc)
	if err != nil {
		return Value{}, err
	}

	switch e.Op {
	case ast.BinaryAdd:
		return Number(left.Number() + right.Number()), nil
	case ast.BinarySub:
		return Number(left.Number() - right.Number()), nil
	case ast.BinaryMul:
		return Number(left.Number() * right.Number()), nil
	case ast.BinaryDiv:
		// IEEE-754 semantics, no trap: division by zero yields +Inf/-Inf/NaN
		// rather than a runtime error (spec.md §9 open question).
		return Number(left.Number() / right.Number()), nil
	case ast.BinaryEqual:
		return Bool(left.Equal(right)), nil
	case ast.BinaryNotEqual:
		return Bool(!left.Equal(right)), nil
	case ast.BinaryLess:
		return Bool(left.Number() < right.Number()), nil
	case ast.BinaryLessEqual:
		return Bool(left.Number() <= right.Number()), nil
	case ast.BinaryGreater:
		return Bool(left.Number() > right.Number()), nil
	case ast.BinaryGreaterEqual:
		return Bool(left.Number() >= right.Number()), nil
	case ast.BinaryAnd:
		return Bool(right.Bool()), nil
	case ast.BinaryOr:
		return Bool(right.Bool()), nil
	default:
		return Value{}, fmt.Errorf("unknown binary operator %q", e.Op)
	}
}

// evalCall resolves call.Name against this file's helper_fns first, then
// the host's game_functions table, mirroring the type propagator's own
// resolution order.
func (in *Interpreter) evalCall(call *ast.CallExpr, sc *env) (Value, error) {
	if err := in.checkDeadline(); err != nil {
		return Value{}, err
	}

	args := make([]Value, len(call.Args))
	for i, a := range call.Args {
		v, err := in.eval(a, sc)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	if hf, ok := in.helperFns[call.Name]; ok {
		if err := in.callStack.Push(call.Name, in.file); err != nil {
			return Value{}, err
		}
		defer in.callStack.Pop()

		callEnv := newEnv(nil)
		for i, arg := range hf.Args {
			if i < len(args) {
				callEnv.define(arg.Name, args[i])
			}
		}
		sig, err := in.execBlock(hf.Body, callEnv)
		if err != nil {
			return Value{}, err
		}
		if sig.kind == signalReturned && sig.hasValue {
			return sig.value, nil
		}
		return Value{}, nil
	}

	if fn, ok := in.gameFns[call.Name]; ok {
		val, err := fn.Call(args)
		if err != nil {
			return Value{}, &gameFnError{msg: fmt.Sprintf("game_function %q failed: %v", call.Name, err)}
		}
		return val, nil
	}

	return Value{}, fmt.Errorf("call to undeclared function %q", call.Name)
}
