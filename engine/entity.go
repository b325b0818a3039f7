package engine

import "github.com/grug-lang/grug/interp"

// Entity is one living instance of a compiled file: its engine-issued id
// and the interpreter that owns its globals. Locals and start-time are
// per-invocation and never survive a single on_fn call.
type Entity struct {
	ID   uint64
	File *CompiledFile
	in   *interp.Interpreter
}

// Dispatch invokes the named on_fn hook with args, reporting at most one
// RuntimeError to the engine's configured handler.
func (e *Entity) Dispatch(onFnName string, args []interp.Value) error {
	fn, ok := e.File.OnFn(onFnName)
	if !ok {
		return nil // host dispatched a hook this entity type doesn't implement
	}
	e.in.CallOnFn(fn, args)
	return nil
}
