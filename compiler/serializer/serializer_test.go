package serializer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grug-lang/grug/compiler/lexer"
	"github.com/grug-lang/grug/compiler/parser"
	"github.com/grug-lang/grug/compiler/printer"
)

const sampleSource = `
health: number = 100

on_spawn(me: id) {
    set_health(me, health)
    helper_double(health)
}

helper_double(n: number): number {
    return n * 2
}
`

func TestSummarize(t *testing.T) {
	tokens, err := lexer.Tokenize(sampleSource)
	require.NoError(t, err)
	p := parser.New("goblin-Enemy.grug", tokens)
	file, err := p.Parse()
	require.NoError(t, err)

	summary := Summarize("goblin-Enemy.grug", "demo", "Enemy", file)

	require.Len(t, summary.Globals, 1)
	require.Equal(t, "health", summary.Globals[0].Name)
	require.Equal(t, "number", summary.Globals[0].Type)

	require.Len(t, summary.OnFns, 1)
	require.Equal(t, "on_spawn", summary.OnFns[0].Name)
	require.Equal(t, []string{"me"}, summary.OnFns[0].ArgNames)

	require.Len(t, summary.HelperFns, 1)
	require.Equal(t, "helper_double", summary.HelperFns[0].Name)
	require.Equal(t, "number", summary.HelperFns[0].ReturnType)
}

func TestMarshalIsDeterministic(t *testing.T) {
	tokens, err := lexer.Tokenize(sampleSource)
	require.NoError(t, err)
	file, err := parser.New("goblin-Enemy.grug", tokens).Parse()
	require.NoError(t, err)

	summary := Summarize("goblin-Enemy.grug", "demo", "Enemy", file)

	a, err := Marshal(summary)
	require.NoError(t, err)
	b, err := Marshal(summary)
	require.NoError(t, err)
	require.Equal(t, a, b)

	var roundTripped FileSummary
	require.NoError(t, json.Unmarshal(a, &roundTripped))
	require.Equal(t, summary, roundTripped)
}

// TestEncodeDecodeFileRoundTrip pins the spec's round-trip contract:
// pretty_print(ast_to_json(parse(source))) must reproduce source that
// re-parses to an AST equivalent to the original.
func TestEncodeDecodeFileRoundTrip(t *testing.T) {
	tokens, err := lexer.Tokenize(sampleSource)
	require.NoError(t, err)
	file, err := parser.New("goblin-Enemy.grug", tokens).Parse()
	require.NoError(t, err)

	data, err := EncodeFile(file)
	require.NoError(t, err)

	decoded, err := DecodeFile(data)
	require.NoError(t, err)

	p := printer.New(printer.Options{Style: printer.StyleCompact, IndentWidth: 4})
	require.Equal(t, p.Print(file), p.Print(decoded))

	reparsed, err := parser.New("goblin-Enemy.grug", mustTokenize(t, p.Print(decoded)+"\n")).Parse()
	require.NoError(t, err)
	require.Equal(t, p.Print(file), p.Print(reparsed))
}

// TestEncodeDecodeFileRoundTrip_ControlFlowAndOperators exercises every
// statement and expression kind the happy-path sampleSource above never
// touches: if/elseif/else, while with break/continue, unary operators, and
// the full binary-operator precedence ladder.
func TestEncodeDecodeFileRoundTrip_ControlFlowAndOperators(t *testing.T) {
	const source = "on_tick(me: id) {\n" +
		"    i: number = 0\n" +
		"    ok: bool = not false\n" +
		"    neg: number = - 1\n" +
		"    while i < 10 {\n" +
		"        i = i + 1\n" +
		"        if i == 5 {\n" +
		"            continue\n" +
		"        } else if i >= 9 {\n" +
		"            break\n" +
		"        } else {\n" +
		"            helper_check(i * 2 - 1 / 2)\n" +
		"        }\n" +
		"    }\n" +
		"}\n" +
		"\n" +
		"helper_check(x: number): bool {\n" +
		"    return x != 0 and ok or not ok\n" +
		"}\n"

	file, err := parser.New("test.grug", mustTokenize(t, source)).Parse()
	require.NoError(t, err)

	data, err := EncodeFile(file)
	require.NoError(t, err)

	decoded, err := DecodeFile(data)
	require.NoError(t, err)

	p := printer.New(printer.Options{Style: printer.StyleCompact, IndentWidth: 4})
	require.Equal(t, p.Print(file), p.Print(decoded))
}

func mustTokenize(t *testing.T, source string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	require.NoError(t, err)
	return tokens
}
