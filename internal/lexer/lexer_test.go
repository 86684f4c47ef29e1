package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helderTZ/rorth/internal/token"
)

func TestLex(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want []token.Token
	}{
		{
			name: "simple arithmetic",
			src:  "2 3 + .",
			want: []token.Token{
				{Text: "2", Row: 0, Col: 0},
				{Text: "3", Row: 0, Col: 1},
				{Text: "+", Row: 0, Col: 2},
				{Text: ".", Row: 0, Col: 3},
			},
		},
		{
			name: "line comment strips to end of line",
			src:  "2 3 + . // adds and prints\n4 .",
			want: []token.Token{
				{Text: "2", Row: 0, Col: 0},
				{Text: "3", Row: 0, Col: 1},
				{Text: "+", Row: 0, Col: 2},
				{Text: ".", Row: 0, Col: 3},
				{Text: "4", Row: 1, Col: 0},
				{Text: ".", Row: 1, Col: 1},
			},
		},
		{
			name: "blank lines produce no tokens",
			src:  "1 .\n\n\n2 .",
			want: []token.Token{
				{Text: "1", Row: 0, Col: 0},
				{Text: ".", Row: 0, Col: 1},
				{Text: "2", Row: 3, Col: 0},
				{Text: ".", Row: 3, Col: 1},
			},
		},
		{
			name: "crlf line endings",
			src:  "1 .\r\n2 .\r\n",
			want: []token.Token{
				{Text: "1", Row: 0, Col: 0},
				{Text: ".", Row: 0, Col: 1},
				{Text: "2", Row: 1, Col: 0},
				{Text: ".", Row: 1, Col: 1},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Lex(tc.src))
		})
	}
}
