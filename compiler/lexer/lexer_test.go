package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeDelimitersAndOperators(t *testing.T) {
	tokens, err := Tokenize(`(){}:,+-*/ == != <= >= < >`)
	require.NoError(t, err)
	assert.Equal(t, []TokenType{
		TOKEN_LPAREN, TOKEN_RPAREN, TOKEN_LBRACE, TOKEN_RBRACE, TOKEN_COLON, TOKEN_COMMA,
		TOKEN_PLUS, TOKEN_MINUS, TOKEN_STAR, TOKEN_SLASH, TOKEN_SPACE,
		TOKEN_EQUAL_EQUAL, TOKEN_SPACE, TOKEN_BANG_EQUAL, TOKEN_SPACE,
		TOKEN_LESS_EQUAL, TOKEN_SPACE, TOKEN_GREATER_EQUAL, TOKEN_SPACE,
		TOKEN_LESS, TOKEN_SPACE, TOKEN_GREATER, TOKEN_EOF,
	}, kinds(tokens))
}

func TestTokenizeKeywordsVersusWords(t *testing.T) {
	tokens, err := Tokenize("true false if else while break return continue and or not truest")
	require.NoError(t, err)
	want := []TokenType{
		TOKEN_TRUE, TOKEN_SPACE, TOKEN_FALSE, TOKEN_SPACE, TOKEN_IF, TOKEN_SPACE,
		TOKEN_ELSE, TOKEN_SPACE, TOKEN_WHILE, TOKEN_SPACE, TOKEN_BREAK, TOKEN_SPACE,
		TOKEN_RETURN, TOKEN_SPACE, TOKEN_CONTINUE, TOKEN_SPACE, TOKEN_AND, TOKEN_SPACE,
		TOKEN_OR, TOKEN_SPACE, TOKEN_NOT, TOKEN_SPACE, TOKEN_WORD, TOKEN_EOF,
	}
	assert.Equal(t, want, kinds(tokens))
	assert.Equal(t, "truest", tokens[len(tokens)-2].Lexeme)
}

func TestTokenizeNumbers(t *testing.T) {
	tokens, err := Tokenize("42 3.14")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, TOKEN_NUMBER, tokens[0].Kind)
	assert.Equal(t, "42", tokens[0].Lexeme)
	assert.Equal(t, TOKEN_NUMBER, tokens[2].Kind)
	assert.Equal(t, "3.14", tokens[2].Lexeme)
}

func TestTokenizeNumberTrailingDotIsFatal(t *testing.T) {
	_, err := Tokenize("1.")
	require.Error(t, err)
}

func TestTokenizeNumberDoubleDotIsFatal(t *testing.T) {
	_, err := Tokenize("1.2.3")
	require.Error(t, err)
}

func TestTokenizeString(t *testing.T) {
	tokens, err := Tokenize(`"hello world"`)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TOKEN_STRING, tokens[0].Kind)
	assert.Equal(t, `"hello world"`, tokens[0].Lexeme)
}

func TestTokenizeUnterminatedStringIsFatal(t *testing.T) {
	_, err := Tokenize(`"hello`)
	require.Error(t, err)
}

func TestTokenizeComment(t *testing.T) {
	tokens, err := Tokenize("# a valid comment")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TOKEN_COMMENT, tokens[0].Kind)
	assert.Equal(t, "# a valid comment", tokens[0].Lexeme)
}

func TestTokenizeCommentWithoutSpaceIsFatal(t *testing.T) {
	_, err := Tokenize("#no space")
	require.Error(t, err)
}

func TestTokenizeCommentTrailingSpaceIsFatal(t *testing.T) {
	_, err := Tokenize("# trailing \n")
	require.Error(t, err)
}

func TestTokenizeIndentationMustBeMultipleOfFour(t *testing.T) {
	_, err := Tokenize("a\n   b")
	require.Error(t, err)

	tokens, err := Tokenize("a\n    b")
	require.NoError(t, err)
	assert.Contains(t, kinds(tokens), TOKEN_INDENTATION)
}

func TestTokenizeNewlineCountsLines(t *testing.T) {
	tokens, err := Tokenize("a\nb\nc")
	require.NoError(t, err)
	assert.Equal(t, 3, LineAt(tokens, len(tokens)-1))
}

func TestTokenizeUnrecognizedCharacterIsFatal(t *testing.T) {
	_, err := Tokenize("@")
	require.Error(t, err)
	var tokErr TokenizerError
	require.ErrorAs(t, err, &tokErr)
	assert.Equal(t, 1, tokErr.Line)
}
