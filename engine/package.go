package engine

import (
	"fmt"

	"github.com/grug-lang/grug/interp"
)

// FnImpl is one host-side implementation of a game_function: the mod API
// name it should answer to (before any package prefix is applied), whether
// it returns a value, and the Go function that runs it.
type FnImpl struct {
	Name      string
	HasReturn bool
	Call      func(args []interp.Value) (interp.Value, error)
}

// Package is a bundle of game-function implementations registered under a
// shared, possibly empty, prefix.
type Package struct {
	Prefix string
	Fns    []FnImpl
}

// buildGameFnTable merges every package's implementations into a single
// table, erroring fatally on the first duplicate effective name: two
// packages (or a package and the default prefix) fighting over the same
// script-visible name is an engine-construction error, not a runtime one.
func buildGameFnTable(packages []Package) (interp.GameFnTable, error) {
	table := interp.GameFnTable{}
	for _, pkg := range packages {
		for _, fn := range pkg.Fns {
			name := pkg.Prefix + fn.Name
			if _, dup := table[name]; dup {
				return nil, fmt.Errorf("game_function %q is registered by more than one package", name)
			}
			table[name] = interp.GameFn{HasReturn: fn.HasReturn, Call: fn.Call}
		}
	}
	return table, nil
}
