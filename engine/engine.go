// Package engine is grug's runtime driver: it loads a mod API and a mods
// directory, type-checks every script into a CompiledFile, and spawns
// Entities whose on_fn hooks it dispatches against a call-depth counter and
// a monotonic id counter, both held on the Engine value and shared by its
// entities.
package engine

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/grug-lang/grug/compiler/ast"
	"github.com/grug-lang/grug/compiler/errors"
	"github.com/grug-lang/grug/compiler/lexer"
	"github.com/grug-lang/grug/compiler/modapi"
	"github.com/grug-lang/grug/compiler/parser"
	"github.com/grug-lang/grug/compiler/typecheck"
	"github.com/grug-lang/grug/interp"
	"github.com/grug-lang/grug/loader"
)

// Config is the subset of engine-construction options the engine itself
// consumes; internal/cli/config.Config is loaded into this shape.
type Config struct {
	ModApiPath        string
	ModsDirPath       string
	OnFnTimeLimitMs   int
	Packages          []Package
	RuntimeErrorHandler interp.ErrorHandler
}

// DefaultErrorHandler writes a single line to stderr, per the runtime error
// callback's default implementation.
func DefaultErrorHandler(err *interp.RuntimeError) {
	fmt.Fprintln(os.Stderr, err.Error())
}

// Engine owns every resource its entities share: the mod API,
// the game-function table, the depth counter, and the id counter. All other
// state lives on individual Entities.
type Engine struct {
	api       *modapi.ModApi
	gameFns   interp.GameFnTable
	callStack *interp.CallStack
	timeLimit time.Duration
	handler   interp.ErrorHandler

	files   map[string]*CompiledFile
	idCount atomic.Uint64
}

// New loads mod_api.json, merges the configured game-function packages,
// and type-checks every script discovered under ModsDirPath. Any failure
// here — a malformed mod API, an unsorted key, a file name that doesn't
// carry a PascalCase entity type, or a script that fails to compile —
// aborts construction with a descriptive error; none of this is ever
// presented to a script.
func New(cfg Config) (*Engine, error) {
	api, err := modapi.Load(cfg.ModApiPath)
	if err != nil {
		return nil, fmt.Errorf("loading mod api: %w", err)
	}

	gameFns, err := buildGameFnTable(cfg.Packages)
	if err != nil {
		return nil, fmt.Errorf("registering game function packages: %w", err)
	}

	handler := cfg.RuntimeErrorHandler
	if handler == nil {
		handler = DefaultErrorHandler
	}

	timeLimitMs := cfg.OnFnTimeLimitMs
	if timeLimitMs <= 0 {
		timeLimitMs = 100
	}

	e := &Engine{
		api:       api,
		gameFns:   gameFns,
		callStack: interp.NewCallStack(100),
		timeLimit: time.Duration(timeLimitMs) * time.Millisecond,
		handler:   handler,
		files:     map[string]*CompiledFile{},
	}

	scripts, err := loader.Discover(cfg.ModsDirPath)
	if err != nil {
		return nil, fmt.Errorf("discovering mods: %w", err)
	}

	for _, s := range scripts {
		cf, err := e.CompileFile(s.Path, s.Mod, s.EntityType)
		if err != nil {
			return nil, err
		}
		e.files[s.Path] = cf
	}

	return e, nil
}

// CompileFile runs the tokenizer, parser, and type propagator over the
// script at path and returns a CompiledFile, or an error: the tokenizer's or
// the parser's first error, or every type-propagator error joined one per
// line. entityType selects which mod API entity the file's on_fns are
// checked against.
func (e *Engine) CompileFile(path, mod, entityType string) (*CompiledFile, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	tokens, err := lexer.Tokenize(string(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	p := parser.New(path, tokens)
	file, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	prop := typecheck.New(path, e.api).WithMod(mod).WithEntityType(entityType)
	if errs := prop.Check(file); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %s", path, joinCompilerErrors(errs))
	}

	return newCompiledFile(path, mod, entityType, file), nil
}

func joinCompilerErrors(errs []errors.CompilerError) string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Files returns every compiled file the engine loaded, keyed by path.
func (e *Engine) Files() map[string]*CompiledFile {
	return e.files
}

// Spawn allocates a fresh monotonic id for a new entity backed by cf,
// evaluates its global variables once, and returns the live Entity. The
// id counter and the call-depth counter are the only state shared with
// every other live entity; globals, locals, and start-time are this
// entity's alone.
func (e *Engine) Spawn(cf *CompiledFile) (*Entity, error) {
	id := e.idCount.Add(1)

	in := interp.New(cf.Path, cf.Mod, cf.HelperFns(), e.gameFns, e.callStack, e.timeLimit, e.handler)

	decls := make([]ast.Decl, len(cf.Globals))
	for i, g := range cf.Globals {
		decls[i] = g
	}
	if err := in.InitGlobals(decls, id); err != nil {
		return nil, fmt.Errorf("initializing globals for %s: %w", cf.Path, err)
	}

	return &Entity{ID: id, File: cf, in: in}, nil
}
