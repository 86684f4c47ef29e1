// Package fileinput reads an entire source file into memory, the one
// piece of disk I/O the core pipeline (lexer/parser/interpreter/emitter)
// never performs itself: the core packages only ever see a UTF-8 text
// blob and a display name for diagnostics, per their external contract.
package fileinput

import (
	"fmt"
	"io"
	"os"
)

// Source is a named, fully-read UTF-8 source text.
type Source struct {
	Name string
	Text string
}

// Read opens path and reads it whole. The returned Source's Name is
// path, used verbatim in parser diagnostics ("filename:row:col").
func Read(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("cannot read source file: %w", err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return Source{}, fmt.Errorf("cannot read source file %s: %w", path, err)
	}
	return Source{Name: path, Text: string(b)}, nil
}
