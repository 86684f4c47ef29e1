// Package parser consumes a token sequence and produces a fully
// resolved program.Program in a single pass, cross-referencing
// if/else/end and while/do/end sites as it goes.
//
// Control-flow resolution runs inline with emission using a stack of
// program indices (not pointers): the parser mutates operands in place
// by index, and every downstream component reads a frozen, resolved
// program. Because each opener (IF, ELSE, WHILE, DO) occupies its own
// stack slot until its own END closes it, if/else/end and while/do/end
// both nest to arbitrary depth.
package parser

import (
	"fmt"
	"strconv"

	"github.com/helderTZ/rorth/internal/panicerr"
	"github.com/helderTZ/rorth/internal/program"
	"github.com/helderTZ/rorth/internal/token"
)

// simpleOps is the token-to-opcode table for operators that need no
// cross-referencing and carry no operand.
var simpleOps = map[string]program.Opcode{
	"+":   program.ADD,
	"-":   program.SUB,
	"*":   program.MUL,
	"/":   program.DIV,
	"!":   program.NOT,
	"=":   program.EQ,
	"!=":  program.NE,
	">":   program.GT,
	">=":  program.GE,
	"<":   program.LT,
	"<=":  program.LE,
	".":   program.DUMP,
	"dup": program.DUP,
}

// Error is returned for the first structural or lexical error
// encountered; the parser never returns a partial program.
type Error struct {
	File    string
	Tok     token.Token
	IP      int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: @ip %d: %s", e.Tok.Location(e.File), e.IP, e.Message)
}

type parser struct {
	file   string
	tokens []token.Token
	prog   program.Program
	xref   []int // cross-reference stack of program indices
}

// Parse tokenizes-to-opcodes and resolves control flow for the given
// token sequence. file is used only for diagnostics. The first
// structural error aborts parsing; no partial program is returned.
func Parse(file string, tokens []token.Token) (program.Program, error) {
	p := &parser{file: file, tokens: tokens}

	err := panicerr.Recover("parser", func() error {
		p.run()
		return nil
	})
	if err != nil {
		if pe, ok := asParseError(err); ok {
			return nil, pe
		}
		return nil, err
	}
	return p.prog, nil
}

func asParseError(err error) (*Error, bool) {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if pe, ok := err.(*Error); ok {
			return pe, true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

func (p *parser) run() {
	for ip, tok := range p.tokens {
		p.parseToken(ip, tok)
	}
}

func (p *parser) fatal(ip int, mess string, args ...interface{}) {
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	panic(&Error{File: p.file, Tok: p.tokens[ip], IP: ip, Message: mess})
}

func (p *parser) emit(ip int, op program.Opcode, operands ...int64) {
	p.prog = append(p.prog, program.Instruction{Op: op, Operands: operands, IP: ip})
}

func (p *parser) push(ip int) {
	p.xref = append(p.xref, ip)
}

func (p *parser) pop() (int, bool) {
	if n := len(p.xref); n > 0 {
		ip := p.xref[n-1]
		p.xref = p.xref[:n-1]
		return ip, true
	}
	return 0, false
}

func (p *parser) parseToken(ip int, tok token.Token) {
	switch tok.Text {
	case "if":
		p.emit(ip, program.IF)
		p.push(ip)
		return
	case "else":
		p.emit(ip, program.ELSE)
		opener, ok := p.pop()
		if !ok || p.prog[opener].Op != program.IF {
			p.fatal(ip, "else without matching if")
		}
		p.prog[opener].Operands = []int64{int64(ip)}
		p.push(ip)
		return
	case "while":
		p.emit(ip, program.WHILE)
		p.push(ip)
		return
	case "do":
		opener, ok := p.pop()
		if !ok || p.prog[opener].Op != program.WHILE {
			p.fatal(ip, "while without matching do")
		}
		p.emit(ip, program.DO, int64(opener))
		p.push(ip)
		return
	case "end":
		p.emit(ip, program.END)
		opener, ok := p.pop()
		if !ok {
			p.fatal(ip, "end without matching if-else or while-do")
		}
		switch p.prog[opener].Op {
		case program.IF, program.ELSE:
			p.prog[opener].Operands = []int64{int64(ip)}
		case program.WHILE:
			p.fatal(ip, "while without matching do")
		case program.DO:
			whileIP := p.prog[opener].Operand()
			p.prog[ip].Operands = []int64{whileIP}
			p.prog[opener].Operands = []int64{int64(ip)}
		default:
			p.fatal(ip, "end without matching if-else or while-do")
		}
		return
	}

	if op, ok := simpleOps[tok.Text]; ok {
		p.emit(ip, op)
		return
	}

	n, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		p.fatal(ip, "expected integer, got %q", tok.Text)
	}
	p.emit(ip, program.PUSH, n)
}
