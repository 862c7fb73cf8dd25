// Package parser turns raw command lines into structured invocations:
// shell-like tokenization, option splitting, alias resolution, and
// near-miss suggestions for unknown command names.
package parser

import "fmt"

// ParseError reports malformed command-line input.
type ParseError struct {
	Message string
	Input   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Tokenize splits input into shell-like tokens. Single and double quotes
// group words; a backslash inside quotes escapes the next character
// (including the quote character) and is not itself preserved. Outside
// quotes a backslash is an ordinary character. Unquoted spaces delimit
// tokens and consecutive delimiters collapse.
func Tokenize(input string) ([]string, error) {
	tokens := make([]string, 0, 8)
	var current []rune
	var quote rune // 0 when not inside quotes
	escaped := false
	hasToken := false

	for _, ch := range input {
		switch {
		case escaped:
			current = append(current, ch)
			hasToken = true
			escaped = false
		case quote != 0 && ch == '\\':
			escaped = true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				current = append(current, ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			hasToken = true // a quoted empty string is still a token
		case ch == ' ':
			if hasToken {
				tokens = append(tokens, string(current))
				current = current[:0]
				hasToken = false
			}
		default:
			current = append(current, ch)
			hasToken = true
		}
	}

	if quote != 0 {
		return nil, &ParseError{Message: "unclosed quote", Input: input}
	}
	if hasToken {
		tokens = append(tokens, string(current))
	}
	return tokens, nil
}
