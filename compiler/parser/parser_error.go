package parser

import (
	"fmt"

	"github.com/grug-lang/grug/compiler/ast"
)

// ParseError is a single syntax error raised while building the AST.
type ParseError struct {
	Message  string
	Location ast.SourceLocation
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Location.File, e.Location.Line, e.Message)
}

// ParseErrorList aggregates parse errors; grug's parser is fail-fast, so in
// practice this holds exactly one error, mirroring the tokenizer's
// first-error-is-fatal contract, but the type stays a list to match the
// shape of the other compiler phases' error aggregation.
type ParseErrorList []ParseError

func (el ParseErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	if len(el) == 1 {
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

func (el ParseErrorList) HasErrors() bool { return len(el) > 0 }
func (el ParseErrorList) Count() int      { return len(el) }
