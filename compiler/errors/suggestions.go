package errors

import (
	"fmt"
	"strings"
)

// suggestFix generates an auto-fix suggestion based on error code.
func suggestFix(err CompilerError) *FixSuggestion {
	switch err.Code {
	case ErrExpectedColon:
		return suggestColon(err)
	case ErrExpectedNewline:
		return suggestNewline(err)
	case ErrExpectedBrace:
		return suggestBrace(err)
	case ErrExpectedParen:
		return suggestParen(err)
	case ErrUnterminatedString:
		return suggestCloseString(err)
	case ErrUnknownFunction:
		return suggestNamespacedOrHelper(err)
	case ErrTypeMismatch, ErrArgumentTypeMismatch, ErrInvalidOperandType:
		return suggestTypeFix(err)
	case ErrBadIndentation:
		return suggestIndentation(err)
	case ErrModApiUnsorted:
		return suggestSortModApi(err)
	case ErrMissingReturn:
		return suggestAddReturn(err)
	default:
		return nil
	}
}

func suggestColon(err CompilerError) *FixSuggestion {
	if len(err.Context.SourceLines) == 0 {
		return &FixSuggestion{
			Description: "variable declarations use ':' between the name and its type",
			OldCode:     "name type = value",
			NewCode:     "name: type = value",
			Confidence:  0.85,
		}
	}
	errorLine := err.Context.SourceLines[err.Context.Highlight.Line]
	return &FixSuggestion{
		Description: "insert ':' before the type annotation",
		OldCode:     strings.TrimSpace(errorLine),
		NewCode:     strings.TrimSpace(errorLine),
		Confidence:  0.75,
	}
}

func suggestNewline(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "each statement must end its own line",
		OldCode:     "a = 1 b = 2",
		NewCode:     "a = 1\nb = 2",
		Confidence:  0.80,
	}
}

func suggestBrace(err CompilerError) *FixSuggestion {
	msg := strings.ToLower(err.Message)
	if strings.Contains(msg, "expected") {
		return &FixSuggestion{
			Description: "blocks are delimited by '{' and '}'",
			OldCode:     "if cond\n    stmt",
			NewCode:     "if cond {\n    stmt\n}",
			Confidence:  0.80,
		}
	}
	return nil
}

func suggestParen(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "check that every '(' has a matching ')'",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.70,
	}
}

func suggestCloseString(err CompilerError) *FixSuggestion {
	if len(err.Context.SourceLines) == 0 {
		return &FixSuggestion{
			Description: "string literals must be closed with '\"' on the same line",
			OldCode:     `"text`,
			NewCode:     `"text"`,
			Confidence:  0.85,
		}
	}
	errorLine := err.Context.SourceLines[err.Context.Highlight.Line]
	return &FixSuggestion{
		Description: "add the closing quote",
		OldCode:     strings.TrimSpace(errorLine),
		NewCode:     strings.TrimSpace(errorLine) + `"`,
		Confidence:  0.90,
	}
}

func suggestNamespacedOrHelper(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "the called name must be either a helper_fn declared in this file or a game_function listed in mod_api.json",
		OldCode:     "unknown_fn()",
		NewCode:     "",
		Confidence:  0.60,
		}
}

func suggestTypeFix(err CompilerError) *FixSuggestion {
	msg := strings.ToLower(err.Message)
	if strings.Contains(msg, "expected") && strings.Contains(msg, "got") {
		return &FixSuggestion{
			Description: "convert the value to the expected type, or change the declared type to match",
			OldCode:     fmt.Sprintf("mismatched types in %q", err.Location.File),
			NewCode:     "",
			Confidence:  0.55,
		}
	}
	return nil
}

func suggestIndentation(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "indent blocks in increments of 4 spaces",
		OldCode:     "   stmt",
		NewCode:     "    stmt",
		Confidence:  0.85,
	}
}

func suggestSortModApi(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "reorder the entries of mod_api.json's entities and game_functions objects lexicographically by key",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.90,
	}
}

func suggestAddReturn(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "add a return statement covering every code path, or remove the declared return type",
		OldCode:     "",
		NewCode:     "return value",
		Confidence:  0.65,
	}
}
