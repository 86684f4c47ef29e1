package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helderTZ/rorth/internal/lexer"
	"github.com/helderTZ/rorth/internal/program"
)

func parse(t *testing.T, src string) program.Program {
	t.Helper()
	prog, err := Parse("test.rorth", lexer.Lex(src))
	require.NoError(t, err)
	return prog
}

func TestParsePush(t *testing.T) {
	prog := parse(t, "2")
	require.Equal(t, program.Program{
		{Op: program.PUSH, Operands: []int64{2}, IP: 0},
	}, prog)
}

func TestParseSimpleOps(t *testing.T) {
	prog := parse(t, "2 3 + dup .")
	require.Equal(t, []program.Opcode{
		program.PUSH, program.PUSH, program.ADD, program.DUP, program.DUMP,
	}, opcodes(prog))
}

func TestParseIfWithoutElse(t *testing.T) {
	prog := parse(t, "1 if 2 . end")
	// ip: 0 PUSH, 1 IF, 2 PUSH, 3 DUMP, 4 END
	require.Equal(t, program.IF, prog[1].Op)
	require.Equal(t, int64(4), prog[1].Operand(), "IF with no else stores its own END's ip; the interpreter's post-increment lands one past it")
	require.Equal(t, program.END, prog[4].Op)
	require.Empty(t, prog[4].Operands, "END closing an if/else carries no operand")
}

func TestParseIfElse(t *testing.T) {
	prog := parse(t, "1 if 2 . else 3 . end")
	// ip: 0 PUSH, 1 IF, 2 PUSH, 3 DUMP, 4 ELSE, 5 PUSH, 6 DUMP, 7 END
	require.Equal(t, program.IF, prog[1].Op)
	require.Equal(t, int64(4), prog[1].Operand(), "IF stores its matching ELSE's ip")
	require.Equal(t, program.ELSE, prog[4].Op)
	require.Equal(t, int64(7), prog[4].Operand(), "ELSE stores its own END's ip")
}

func TestParseWhileDo(t *testing.T) {
	prog := parse(t, "1 while dup 0 != do dup . 1 - end")
	require.Equal(t, program.WHILE, prog[1].Op)
	do := findOp(t, prog, program.DO)
	end := findOp(t, prog, program.END)
	require.Equal(t, int64(end.IP), do.Operand(), "DO's operand is overwritten at END time to point past the loop")
	require.Equal(t, int64(1), end.Operand(), "END closing a DO jumps back to the matching WHILE")
}

func TestParseNestedWhileDo(t *testing.T) {
	src := "2 while dup 0 != do 1 while dup 0 != do 1 - end 1 - end"
	prog := parse(t, src)
	require.NotPanics(t, func() { opcodes(prog) })

	var whiles, dos, ends []int
	for i, ins := range prog {
		switch ins.Op {
		case program.WHILE:
			whiles = append(whiles, i)
		case program.DO:
			dos = append(dos, i)
		case program.END:
			ends = append(ends, i)
		}
	}
	require.Len(t, whiles, 2)
	require.Len(t, dos, 2)
	require.Len(t, ends, 2)

	// each DO's operand is overwritten at its own closing END to point
	// past that loop; each END closes the innermost still-open DO and
	// points back at the matching WHILE.
	require.Equal(t, int64(ends[0]), prog[dos[1]].Operand(), "inner DO closes at the inner END")
	require.Equal(t, int64(ends[1]), prog[dos[0]].Operand(), "outer DO closes at the outer END")
	require.Equal(t, int64(whiles[1]), prog[ends[0]].Operand(), "inner END loops back to the inner WHILE")
	require.Equal(t, int64(whiles[0]), prog[ends[1]].Operand(), "outer END loops back to the outer WHILE")
}

func TestParseNestedIfInsideWhile(t *testing.T) {
	src := "1 while dup 0 != do dup 1 = if dup . end 1 - end"
	require.NotPanics(t, func() { parse(t, src) })
}

func TestParseElseWithoutIf(t *testing.T) {
	_, err := Parse("test.rorth", lexer.Lex("else end"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "else without matching if")
}

func TestParseEndWithoutOpener(t *testing.T) {
	_, err := Parse("test.rorth", lexer.Lex("end"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "end without matching")
}

func TestParseWhileWithoutDo(t *testing.T) {
	_, err := Parse("test.rorth", lexer.Lex("while 1 end"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "while without matching do")
}

func TestParseBadToken(t *testing.T) {
	_, err := Parse("test.rorth", lexer.Lex("notanumber"))
	require.Error(t, err)
	require.Contains(t, err.Error(), `expected integer, got "notanumber"`)
}

func TestParseErrorLocation(t *testing.T) {
	_, err := Parse("test.rorth", lexer.Lex("1 2\nbogus"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "test.rorth:2:1")
}

func opcodes(prog program.Program) []program.Opcode {
	ops := make([]program.Opcode, len(prog))
	for i, ins := range prog {
		ops[i] = ins.Op
	}
	return ops
}

func findOp(t *testing.T, prog program.Program, op program.Opcode) program.Instruction {
	t.Helper()
	for _, ins := range prog {
		if ins.Op == op {
			return ins
		}
	}
	t.Fatalf("no %v instruction found", op)
	return program.Instruction{}
}
