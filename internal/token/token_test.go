package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocation(t *testing.T) {
	tok := Token{Text: "dup", Row: 2, Col: 1}
	require.Equal(t, "prog.rorth:3:2", tok.Location("prog.rorth"), "row/col are 0-indexed internally but 1-indexed for humans")
}

func TestString(t *testing.T) {
	tok := Token{Text: "+", Row: 0, Col: 0}
	require.Equal(t, `0:0: "+"`, tok.String())
}
