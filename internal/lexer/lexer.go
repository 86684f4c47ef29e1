// Package lexer turns source text into a sequence of positioned tokens.
//
// Tokenization is line-oriented: each line is truncated at the first
// "//" (a line comment), then split on whitespace runs. Each surviving
// fragment becomes a token whose Row is the zero-based line index and
// whose Col is the zero-based index of the word within that line. No
// lexical errors are defined here; classification of a token's meaning
// is entirely the parser's job.
package lexer

import "github.com/helderTZ/rorth/internal/token"

// Lexer holds the source text being split into tokens.
type Lexer struct {
	lines []string
}

// New creates a Lexer over the given source text.
func New(src string) *Lexer {
	return &Lexer{lines: splitLines(src)}
}

// Tokens returns every token in the source, in order.
func (l *Lexer) Tokens() []token.Token {
	var toks []token.Token
	for row, line := range l.lines {
		line = stripComment(line)
		col := 0
		for _, word := range fields(line) {
			toks = append(toks, token.Token{Text: word, Row: row, Col: col})
			col++
		}
	}
	return toks
}

// Lex is a convenience one-shot form of New(src).Tokens().
func Lex(src string) []token.Token {
	return New(src).Tokens()
}

// splitLines breaks src into lines without its line terminators,
// tolerating both "\n" and "\r\n".
func splitLines(src string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			end := i
			if end > start && src[end-1] == '\r' {
				end--
			}
			lines = append(lines, src[start:end])
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, src[start:])
	}
	return lines
}

// stripComment truncates line at the first occurrence of "//".
func stripComment(line string) string {
	for i := 0; i+1 < len(line); i++ {
		if line[i] == '/' && line[i+1] == '/' {
			return line[:i]
		}
	}
	return line
}

// fields splits on whitespace runs, skipping empty fragments, without
// pulling in strings.Fields' unicode-wide definition of whitespace: the
// source language only recognizes the ASCII whitespace set.
func fields(line string) []string {
	var words []string
	i := 0
	for i < len(line) {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		start := i
		for i < len(line) && !isSpace(line[i]) {
			i++
		}
		if i > start {
			words = append(words, line[start:i])
		}
	}
	return words
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}
