// Package token defines the positioned lexical tokens produced by the
// lexer and consumed by the parser.
package token

import "fmt"

// Token is a single whitespace-separated word from the source text,
// together with its source position. Tokens are immutable once created.
type Token struct {
	Text string
	Row  int // zero-based line index
	Col  int // zero-based index of the word within its line
}

// String renders a diagnostic-friendly "row:col: text" form.
func (t Token) String() string {
	return fmt.Sprintf("%d:%d: %q", t.Row, t.Col, t.Text)
}

// Location formats the 1-based "name:row:col" form used in diagnostics.
func (t Token) Location(name string) string {
	return fmt.Sprintf("%s:%d:%d", name, t.Row+1, t.Col+1)
}
