// Package parser turns a grug token stream into an AST using a recursive
// descent grammar: a cursor over a flat token slice, one parse method per
// grammar rule.
package parser

import (
	"fmt"

	"github.com/grug-lang/grug/compiler/ast"
	"github.com/grug-lang/grug/compiler/lexer"
)

// maxNestingDepth bounds block/expression nesting to guard against stack
// overflow in the recursive-descent parser itself.
const maxNestingDepth = 100

// Parser consumes a lexer.Token stream and produces an *ast.File. Unlike a
// whitespace-insensitive grammar, the token stream here still carries SPACE
// and INDENTATION tokens: the grammar itself is responsible for consuming
// them at the exact points spec.md §4.2 requires, so a missing or extra
// space, or a mismatched indentation depth, surfaces as a ParseError rather
// than silently passing through.
type Parser struct {
	file  string
	tokens []lexer.Token
	pos   int
	depth int
	// indentLevel is the current block nesting depth, mirroring the
	// original implementation's running indentation counter: each nested
	// block's statements must be preceded by an INDENTATION token of
	// exactly indentLevel*4 spaces, and the block's closing brace must be
	// preceded by (indentLevel-1)*4 spaces (or none at depth 1).
	indentLevel int
	// whileDepth counts enclosing while loops, so break/continue outside
	// any while can be rejected at parse time.
	whileDepth int
	// seenOnFn/seenHelperFn enforce spec.md §3's declaration-order
	// invariant: globals precede every on_fn, and on_fns precede every
	// helper_fn.
	seenOnFn     bool
	seenHelperFn bool
	// referenced records the name of every function called so far (helper_
	// and game functions alike); a helper_fn definition is accepted only if
	// its name is already in it.
	referenced map[string]bool
}

// New creates a Parser over tokens already produced by the tokenizer. file
// is used only to annotate error locations. The full token stream, SPACE
// and INDENTATION tokens included, is kept: the grammar consumes them
// explicitly wherever spacing and indentation carry meaning.
func New(file string, tokens []lexer.Token) *Parser {
	return &Parser{file: file, tokens: tokens, referenced: map[string]bool{}}
}

// Parse runs the parser over the full token stream and returns the
// resulting file, or the first syntax error encountered. Top-level items
// are separated by blank-line discipline: exactly one blank line is
// required between two consecutive items, except between two consecutive
// global variables, where none is allowed.
func (p *Parser) Parse() (*ast.File, error) {
	file := &ast.File{Path: p.file}

	for p.check(lexer.TOKEN_NEWLINE) {
		p.advance()
	}

	for !p.atEnd() {
		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		if !p.atEnd() {
			if _, err := p.expect(lexer.TOKEN_NEWLINE, "newline"); err != nil {
				return nil, err
			}
		}

		isGlobal := false
		if decl != nil {
			file.Decls = append(file.Decls, decl)
			if _, ok := decl.(*ast.GlobalVariableDecl); ok {
				isGlobal = true
			}
		}

		if p.atEnd() {
			break
		}

		blankCount := 0
		for p.check(lexer.TOKEN_NEWLINE) {
			blankCount++
			p.advance()
		}
		if p.atEnd() {
			break
		}

		if isGlobal && p.looksLikeGlobalVariable() {
			if blankCount != 0 {
				return nil, p.errf("a blank line is not allowed between two consecutive global variables")
			}
		} else if blankCount != 1 {
			return nil, p.errf("exactly one blank line is required between top-level items, got %d", blankCount)
		}
	}
	return file, nil
}

// looksLikeGlobalVariable reports whether the upcoming top-level item is a
// global variable, without consuming anything: globals match WORD COLON,
// on_/helper_ functions match WORD LPAREN.
func (p *Parser) looksLikeGlobalVariable() bool {
	return p.check(lexer.TOKEN_WORD) && p.peekAt(1).Kind == lexer.TOKEN_COLON
}

// ReferencedHelpers returns the set of function names called in the parsed
// source so far. Game function names are included alongside helper_fn names.
func (p *Parser) ReferencedHelpers() map[string]bool {
	return p.referenced
}

func (p *Parser) loc() ast.SourceLocation {
	return ast.SourceLocation{File: p.file, Line: lexer.LineAt(p.tokens, p.pos)}
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens) || p.tokens[p.pos].Kind == lexer.TOKEN_EOF
}

func (p *Parser) peek() lexer.Token {
	if p.atEnd() {
		return lexer.Token{Kind: lexer.TOKEN_EOF}
	}
	return p.tokens[p.pos]
}

// peekAt looks offset tokens past the cursor without consuming anything,
// used to recognize "SPACE then OPERATOR"-shaped lookahead. Past the end of
// the stream it reports TOKEN_EOF, same as peek.
func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return lexer.Token{Kind: lexer.TOKEN_EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) peekKind() lexer.TokenType {
	return p.peek().Kind
}

func (p *Parser) advance() lexer.Token {
	t := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) check(kind lexer.TokenType) bool {
	return p.peekKind() == kind
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return ParseError{Message: fmt.Sprintf(format, args...), Location: p.loc()}
}

func (p *Parser) expect(kind lexer.TokenType, what string) (lexer.Token, error) {
	if !p.check(kind) {
		return lexer.Token{}, p.errf("expected %s, got %s %q", what, p.peekKind(), p.peek().Lexeme)
	}
	return p.advance(), nil
}

// consumeSpace requires exactly one SPACE token at the cursor: the
// structurally-significant single space spec.md §4.2 mandates around
// operators, colons and equals signs.
func (p *Parser) consumeSpace() error {
	if !p.check(lexer.TOKEN_SPACE) {
		return p.errf("expected a single space, got %s %q", p.peekKind(), p.peek().Lexeme)
	}
	p.advance()
	return nil
}

// consumeIndentation requires an INDENTATION token whose width matches the
// current block nesting depth exactly (indentLevel*4 spaces).
func (p *Parser) consumeIndentation() error {
	expected := p.indentLevel * 4
	if expected == 0 {
		return nil
	}
	if !p.check(lexer.TOKEN_INDENTATION) || len(p.peek().Lexeme) != expected {
		return p.errf("expected indentation of %d spaces, got %s %q", expected, p.peekKind(), p.peek().Lexeme)
	}
	p.advance()
	return nil
}

// atBlockEnd reports whether the cursor sits right before the closing brace
// of the innermost block, dedented by exactly one indentation level.
func (p *Parser) atBlockEnd() bool {
	dedent := (p.indentLevel - 1) * 4
	if dedent == 0 {
		return p.check(lexer.TOKEN_RBRACE)
	}
	return p.check(lexer.TOKEN_INDENTATION) && len(p.peek().Lexeme) == dedent && p.peekAt(1).Kind == lexer.TOKEN_RBRACE
}

// spaceThenKind reports whether the cursor is a SPACE immediately followed
// by a token of kind k — the shape every binary operator is recognized
// through, which is what makes "exactly one space on each side" the same
// mechanism as operator recognition itself.
func (p *Parser) spaceThenKind(k lexer.TokenType) bool {
	return p.check(lexer.TOKEN_SPACE) && p.peekAt(1).Kind == k
}

func (p *Parser) enterNesting() error {
	p.depth++
	if p.depth > maxNestingDepth {
		return p.errf("nesting depth exceeds maximum of %d", maxNestingDepth)
	}
	return nil
}

func (p *Parser) exitNesting() {
	p.depth--
}

// ---- Declarations -------------------------------------------------------

func (p *Parser) parseDecl() (ast.Decl, error) {
	switch p.peekKind() {
	case lexer.TOKEN_COMMENT:
		t := p.advance()
		loc := p.loc()
		return &ast.CommentDecl{BaseDecl: ast.BaseDecl{Location: loc}, Text: t.Lexeme}, nil
	case lexer.TOKEN_WORD:
		return p.parseWordDecl()
	default:
		return nil, p.errf("expected a declaration, got %s %q", p.peekKind(), p.peek().Lexeme)
	}
}

func (p *Parser) parseWordDecl() (ast.Decl, error) {
	name := p.advance().Lexeme
	loc := ast.SourceLocation{File: p.file, Line: lexer.LineAt(p.tokens, p.pos-1)}

	switch name {
	case "on":
		return nil, p.errf("unexpected bare 'on', expected 'on_<name>'")
	}

	if len(name) >= 3 && name[:3] == "on_" {
		if p.seenHelperFn {
			return nil, p.errf("on_ function %q must be declared before any helper_ function", name)
		}
		p.seenOnFn = true
		return p.parseOnFn(name, loc)
	}

	if p.check(lexer.TOKEN_COLON) {
		if p.seenOnFn {
			return nil, p.errf("global variable %q must be declared before any on_ function", name)
		}
		return p.parseGlobalVariable(name, loc)
	}

	if p.check(lexer.TOKEN_LPAREN) {
		if len(name) < 7 || name[:7] != "helper_" {
			return nil, p.errf("function %q must be named on_* or helper_*", name)
		}
		p.seenHelperFn = true
		return p.parseHelperFn(name, loc)
	}

	return nil, p.errf("unrecognized declaration starting with %q", name)
}

// parseGlobalVariable parses `name: type = expr`, requiring a single space
// after the colon (folded into parseTypeAnnotation), and one on each side
// of the '='.
func (p *Parser) parseGlobalVariable(name string, loc ast.SourceLocation) (ast.Decl, error) {
	p.advance() // ':'
	typ, typeName, err := p.parseTypeAnnotation()
	if err != nil {
		return nil, err
	}
	if typ == ast.TypeID && (typeName == "resource" || typeName == "entity") {
		return nil, p.errf("global variable %q cannot be declared with type %q", name, typeName)
	}
	if err := p.consumeSpace(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TOKEN_EQUAL, "'='"); err != nil {
		return nil, err
	}
	if err := p.consumeSpace(); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.GlobalVariableDecl{
		BaseDecl: ast.BaseDecl{Location: loc},
		Name:     name,
		Type:     typ,
		TypeName: typeName,
		Value:    value,
	}, nil
}

// parseTypeAnnotation parses the "SPACE TYPE" half of a `COLON SPACE TYPE`
// annotation; the caller is responsible for the colon itself.
func (p *Parser) parseTypeAnnotation() (ast.Type, string, error) {
	if err := p.consumeSpace(); err != nil {
		return ast.TypeUnknown, "", err
	}
	t, err := p.expect(lexer.TOKEN_WORD, "a type name")
	if err != nil {
		return ast.TypeUnknown, "", err
	}
	switch t.Lexeme {
	case "bool":
		return ast.TypeBool, "", nil
	case "number":
		return ast.TypeNumber, "", nil
	case "string":
		return ast.TypeString, "", nil
	case "id":
		return ast.TypeID, "", nil
	default:
		// resource or entity type tags are plain identifiers validated by
		// the type propagator against the loaded mod API, not the parser.
		return ast.TypeID, t.Lexeme, nil
	}
}

func (p *Parser) parseArgs() ([]ast.Argument, error) {
	if _, err := p.expect(lexer.TOKEN_LPAREN, "'('"); err != nil {
		return nil, err
	}
	var args []ast.Argument
	for !p.check(lexer.TOKEN_RPAREN) {
		nameTok, err := p.expect(lexer.TOKEN_WORD, "an argument name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TOKEN_COLON, "':'"); err != nil {
			return nil, err
		}
		typ, typeName, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		args = append(args, ast.Argument{Name: nameTok.Lexeme, Type: typ, TypeName: typeName})
		if p.check(lexer.TOKEN_COMMA) {
			p.advance()
			if err := p.consumeSpace(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(lexer.TOKEN_RPAREN, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseOnFn(name string, loc ast.SourceLocation) (ast.Decl, error) {
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.OnFnDecl{BaseDecl: ast.BaseDecl{Location: loc}, Name: name, Args: args, Body: body}, nil
}

func (p *Parser) parseHelperFn(name string, loc ast.SourceLocation) (ast.Decl, error) {
	if !p.referenced[name] {
		return nil, p.errf("helper_fn %q is defined but was never called earlier in the file; forward references are forbidden", name)
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	hasReturn := false
	var retType ast.Type
	if p.check(lexer.TOKEN_COLON) {
		p.advance()
		hasReturn = true
		retType, _, err = p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.HelperFnDecl{
		BaseDecl:   ast.BaseDecl{Location: loc},
		Name:       name,
		Args:       args,
		ReturnType: retType,
		HasReturn:  hasReturn,
		Body:       body,
	}, nil
}

// ---- Blocks and statements ----------------------------------------------

// parseBlock parses `SPACE OPEN_BRACE NEWLINE {indented-statement}*
// CLOSE_BRACE`. Every indented statement must be preceded by an
// INDENTATION of exactly indentLevel*4 spaces and followed by a NEWLINE;
// the closing brace is dedented by exactly one level. Blank lines are
// preserved as EmptyLineStmt but rejected if they run two or more in a
// row, and a body consisting entirely of blanks/comments is rejected.
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if err := p.enterNesting(); err != nil {
		return nil, err
	}
	defer p.exitNesting()

	if err := p.consumeSpace(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TOKEN_LBRACE, "'{'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TOKEN_NEWLINE, "newline"); err != nil {
		return nil, err
	}

	p.indentLevel++
	defer func() { p.indentLevel-- }()

	var stmts []ast.Stmt
	lastWasBlank := false
	for {
		if p.atBlockEnd() {
			break
		}
		if p.atEnd() {
			return nil, p.errf("unterminated block, expected '}'")
		}
		if p.check(lexer.TOKEN_NEWLINE) {
			if lastWasBlank {
				return nil, p.errf("consecutive blank lines are not allowed inside a block")
			}
			p.advance()
			stmts = append(stmts, &ast.EmptyLineStmt{})
			lastWasBlank = true
			continue
		}
		if err := p.consumeIndentation(); err != nil {
			return nil, err
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TOKEN_NEWLINE, "newline"); err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		lastWasBlank = false
	}

	dedent := (p.indentLevel - 1) * 4
	if dedent > 0 {
		p.advance() // dedent indentation, already validated by atBlockEnd
	}
	if _, err := p.expect(lexer.TOKEN_RBRACE, "'}'"); err != nil {
		return nil, err
	}

	if blockIsBlankOnly(stmts) {
		return nil, p.errf("block body must contain at least one statement")
	}
	return stmts, nil
}

func blockIsBlankOnly(stmts []ast.Stmt) bool {
	for _, s := range stmts {
		switch s.(type) {
		case *ast.EmptyLineStmt, *ast.CommentStmt:
			continue
		default:
			return false
		}
	}
	return true
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	loc := p.loc()
	switch p.peekKind() {
	case lexer.TOKEN_COMMENT:
		t := p.advance()
		return &ast.CommentStmt{BaseStmt: ast.BaseStmt{Location: loc}, Text: t.Lexeme}, nil
	case lexer.TOKEN_IF:
		return p.parseIf()
	case lexer.TOKEN_WHILE:
		return p.parseWhile()
	case lexer.TOKEN_BREAK:
		p.advance()
		if p.whileDepth == 0 {
			return nil, p.errf("break outside while")
		}
		return &ast.BreakStmt{BaseStmt: ast.BaseStmt{Location: loc}}, nil
	case lexer.TOKEN_CONTINUE:
		p.advance()
		if p.whileDepth == 0 {
			return nil, p.errf("continue outside while")
		}
		return &ast.ContinueStmt{BaseStmt: ast.BaseStmt{Location: loc}}, nil
	case lexer.TOKEN_RETURN:
		return p.parseReturn(loc)
	case lexer.TOKEN_WORD:
		return p.parseWordStmt(loc)
	default:
		return nil, p.errf("expected a statement, got %s %q", p.peekKind(), p.peek().Lexeme)
	}
}

func (p *Parser) parseReturn(loc ast.SourceLocation) (ast.Stmt, error) {
	p.advance()
	if p.check(lexer.TOKEN_NEWLINE) || p.atEnd() {
		return &ast.ReturnStmt{BaseStmt: ast.BaseStmt{Location: loc}}, nil
	}
	if err := p.consumeSpace(); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{BaseStmt: ast.BaseStmt{Location: loc}, Value: value}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	loc := p.loc()
	p.advance() // 'if'
	if err := p.consumeSpace(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{BaseStmt: ast.BaseStmt{Location: loc}, Condition: cond, Then: then}
	if p.check(lexer.TOKEN_SPACE) && p.peekAt(1).Kind == lexer.TOKEN_ELSE {
		p.advance() // space
		p.advance() // 'else'
		if p.check(lexer.TOKEN_SPACE) && p.peekAt(1).Kind == lexer.TOKEN_IF {
			p.advance() // space
			// "else if" chains via recursion: the else branch is a single
			// nested IfStatement. The recursive call consumes its own
			// leading 'if', so no extra space is consumed here.
			nested, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.Else = []ast.Stmt{nested}
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	loc := p.loc()
	p.advance()
	if err := p.consumeSpace(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.whileDepth++
	body, err := p.parseBlock()
	p.whileDepth--
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{BaseStmt: ast.BaseStmt{Location: loc}, Condition: cond, Body: body}, nil
}

// parseWordStmt disambiguates a local variable declaration/assignment from
// a call-as-statement, both of which start with an identifier.
func (p *Parser) parseWordStmt(loc ast.SourceLocation) (ast.Stmt, error) {
	name := p.advance().Lexeme

	switch {
	case p.check(lexer.TOKEN_COLON):
		p.advance()
		typ, typeName, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		if typ == ast.TypeID && (typeName == "resource" || typeName == "entity") {
			return nil, p.errf("local variable %q cannot be declared with type %q", name, typeName)
		}
		if err := p.consumeSpace(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TOKEN_EQUAL, "'='"); err != nil {
			return nil, err
		}
		if err := p.consumeSpace(); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.VariableStmt{
			BaseStmt:  ast.BaseStmt{Location: loc},
			Name:      name,
			IsDeclare: true,
			Type:      typ,
			TypeName:  typeName,
			Value:     value,
		}, nil
	case p.check(lexer.TOKEN_SPACE) && p.peekAt(1).Kind == lexer.TOKEN_EQUAL:
		p.advance() // space
		p.advance() // '='
		if err := p.consumeSpace(); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.VariableStmt{BaseStmt: ast.BaseStmt{Location: loc}, Name: name, Value: value}, nil
	case p.check(lexer.TOKEN_LPAREN):
		call, err := p.parseCallArgs(name, loc)
		if err != nil {
			return nil, err
		}
		p.referenced[name] = true
		return &ast.CallStmt{BaseStmt: ast.BaseStmt{Location: loc}, Call: call}, nil
	default:
		return nil, p.errf("expected ':', '=', or '(' after identifier %q", name)
	}
}

// ---- Expressions: precedence climbing -----------------------------------
//
// or  <  and  <  equality (== !=)  <  relational (< <= > >=)  <  additive
// (+ -)  <  multiplicative (* /)  <  unary (- not)  <  primary
//
// Every binary operator is only recognized when it is immediately preceded
// by a SPACE, and a SPACE is mandatorily consumed after it too: operator
// recognition and the "exactly one space on each side" rule are the same
// mechanism. An operator with no leading space (e.g. "a+b") is therefore
// simply never matched here, leaving the operator token unconsumed for
// whatever comes next to fail on.

func (p *Parser) parseExpr() (ast.Expr, error) {
	if err := p.enterNesting(); err != nil {
		return nil, err
	}
	defer p.exitNesting()
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.spaceThenKind(lexer.TOKEN_OR) {
		loc := p.loc()
		p.advance() // space
		p.advance() // 'or'
		if err := p.consumeSpace(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{BaseExpr: ast.BaseExpr{Location: loc}, Op: ast.BinaryOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.spaceThenKind(lexer.TOKEN_AND) {
		loc := p.loc()
		p.advance() // space
		p.advance() // 'and'
		if err := p.consumeSpace(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{BaseExpr: ast.BaseExpr{Location: loc}, Op: ast.BinaryAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.spaceThenKind(lexer.TOKEN_EQUAL_EQUAL):
			op = ast.BinaryEqual
		case p.spaceThenKind(lexer.TOKEN_BANG_EQUAL):
			op = ast.BinaryNotEqual
		default:
			return left, nil
		}
		loc := p.loc()
		p.advance() // space
		p.advance() // operator
		if err := p.consumeSpace(); err != nil {
			return nil, err
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{BaseExpr: ast.BaseExpr{Location: loc}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		if !p.check(lexer.TOKEN_SPACE) {
			return left, nil
		}
		var op ast.BinaryOp
		switch p.peekAt(1).Kind {
		case lexer.TOKEN_LESS:
			op = ast.BinaryLess
		case lexer.TOKEN_LESS_EQUAL:
			op = ast.BinaryLessEqual
		case lexer.TOKEN_GREATER:
			op = ast.BinaryGreater
		case lexer.TOKEN_GREATER_EQUAL:
			op = ast.BinaryGreaterEqual
		default:
			return left, nil
		}
		loc := p.loc()
		p.advance() // space
		p.advance() // operator
		if err := p.consumeSpace(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{BaseExpr: ast.BaseExpr{Location: loc}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		if !p.check(lexer.TOKEN_SPACE) {
			return left, nil
		}
		var op ast.BinaryOp
		switch p.peekAt(1).Kind {
		case lexer.TOKEN_PLUS:
			op = ast.BinaryAdd
		case lexer.TOKEN_MINUS:
			op = ast.BinarySub
		default:
			return left, nil
		}
		loc := p.loc()
		p.advance() // space
		p.advance() // operator
		if err := p.consumeSpace(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{BaseExpr: ast.BaseExpr{Location: loc}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if !p.check(lexer.TOKEN_SPACE) {
			return left, nil
		}
		var op ast.BinaryOp
		switch p.peekAt(1).Kind {
		case lexer.TOKEN_STAR:
			op = ast.BinaryMul
		case lexer.TOKEN_SLASH:
			op = ast.BinaryDiv
		default:
			return left, nil
		}
		loc := p.loc()
		p.advance() // space
		p.advance() // operator
		if err := p.consumeSpace(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{BaseExpr: ast.BaseExpr{Location: loc}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	loc := p.loc()
	switch p.peekKind() {
	case lexer.TOKEN_MINUS:
		p.advance()
		// Unary '-' is juxtaposed with its operand; a space is tolerated
		// only so a chain like "- -1" (a unary minus applied to another
		// unary minus) can be recognized before the redundancy check below
		// rejects it.
		if p.check(lexer.TOKEN_SPACE) {
			p.advance()
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if inner, ok := operand.(*ast.UnaryExpr); ok && inner.Op == ast.UnaryNegate {
			return nil, p.errf("redundant repeated unary '-'")
		}
		return &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Location: loc}, Op: ast.UnaryNegate, Operand: operand}, nil
	case lexer.TOKEN_NOT:
		p.advance()
		if err := p.consumeSpace(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if inner, ok := operand.(*ast.UnaryExpr); ok && inner.Op == ast.UnaryNot {
			return nil, p.errf("redundant repeated unary 'not'")
		}
		return &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Location: loc}, Op: ast.UnaryNot, Operand: operand}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	loc := p.loc()
	switch p.peekKind() {
	case lexer.TOKEN_TRUE:
		p.advance()
		return &ast.LiteralExpr{BaseExpr: ast.BaseExpr{Location: loc}, Kind: ast.TypeBool, Bool: true}, nil
	case lexer.TOKEN_FALSE:
		p.advance()
		return &ast.LiteralExpr{BaseExpr: ast.BaseExpr{Location: loc}, Kind: ast.TypeBool, Bool: false}, nil
	case lexer.TOKEN_NUMBER:
		t := p.advance()
		n, err := parseNumber(t.Lexeme)
		if err != nil {
			return nil, p.errf("invalid number literal %q: %v", t.Lexeme, err)
		}
		return &ast.LiteralExpr{BaseExpr: ast.BaseExpr{Location: loc}, Kind: ast.TypeNumber, Num: n}, nil
	case lexer.TOKEN_STRING:
		t := p.advance()
		return &ast.LiteralExpr{BaseExpr: ast.BaseExpr{Location: loc}, Kind: ast.TypeString, Str: unquote(t.Lexeme)}, nil
	case lexer.TOKEN_LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TOKEN_RPAREN, "')'"); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{BaseExpr: ast.BaseExpr{Location: loc}, Inner: inner}, nil
	case lexer.TOKEN_WORD:
		name := p.advance().Lexeme
		if p.check(lexer.TOKEN_LPAREN) {
			call, err := p.parseCallArgs(name, loc)
			if err != nil {
				return nil, err
			}
			p.referenced[name] = true
			return call, nil
		}
		return &ast.IdentifierExpr{BaseExpr: ast.BaseExpr{Location: loc}, Name: name}, nil
	default:
		return nil, p.errf("expected an expression, got %s %q", p.peekKind(), p.peek().Lexeme)
	}
}

// parseCallArgs parses a call's argument list: a call is an identifier
// immediately followed by '(' (no space permitted between them — that is
// already guaranteed by the caller checking TOKEN_LPAREN directly).
// Arguments are comma-separated, each pair separated by "COMMA SPACE".
func (p *Parser) parseCallArgs(name string, loc ast.SourceLocation) (*ast.CallExpr, error) {
	p.advance() // '('
	var args []ast.Expr
	for !p.check(lexer.TOKEN_RPAREN) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.check(lexer.TOKEN_COMMA) {
			p.advance()
			if err := p.consumeSpace(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(lexer.TOKEN_RPAREN, "')'"); err != nil {
		return nil, err
	}
	return &ast.CallExpr{BaseExpr: ast.BaseExpr{Location: loc}, Name: name, Args: args}, nil
}

func unquote(lexeme string) string {
	if len(lexeme) >= 2 {
		return lexeme[1 : len(lexeme)-1]
	}
	return lexeme
}

func parseNumber(s string) (float64, error) {
	var n float64
	_, err := fmt.Sscanf(s, "%g", &n)
	return n, err
}
